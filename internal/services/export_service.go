package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/utils"
)

// Exports are timestamped in the school's local time regardless of where the
// server runs.
var exportLocation = loadExportLocation()

func loadExportLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

// utf8BOM makes Excel open the file as UTF-8 instead of the locale codepage.
const utf8BOM = "\uFEFF"

var assignmentExportHeader = []string{"姓名", "日期", "时间", "作业", "问题", "提示", "操作", "回答", "设备信息"}

var systemExportHeader = []string{"姓名", "日期", "时间", "问题编号", "问题", "操作", "回答", "设备信息"}

// Per-assignment exports label rephrase rows 造句; the whole-system export
// was built for error review and labels them 不正确 instead.
var assignmentActionLabels = map[models.LogAction]string{
	models.ActionCorrect:  "正确",
	models.ActionUnsure:   "不确定",
	models.ActionRephrase: "造句",
}

var systemActionLabels = map[models.LogAction]string{
	models.ActionCorrect:  "正确",
	models.ActionUnsure:   "不确定",
	models.ActionRephrase: "不正确",
}

// Export is a ready-to-download file.
type Export struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders answer logs into spreadsheet downloads.
type ExportService interface {
	// AssignmentCSV exports one assignment's logs, named after the assignment.
	AssignmentCSV(ctx context.Context, assignmentID uint) (*Export, error)
	// SystemCSV exports every log in the system.
	SystemCSV(ctx context.Context) (*Export, error)
	// AssignmentXLSX renders the same per-assignment rows as a workbook.
	AssignmentXLSX(ctx context.Context, assignmentID uint) (*Export, error)
}

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *exportService) AssignmentCSV(ctx context.Context, assignmentID uint) (*Export, error) {
	assignment, logs, err := s.loadAssignmentLogs(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(logs)+1)
	rows = append(rows, assignmentExportHeader)
	for _, log := range logs {
		rows = append(rows, assignmentRow(log, assignment.Name))
	}

	return &Export{
		FileName:    ExportFileName(assignment.Name, "csv"),
		ContentType: "text/csv; charset=utf-8",
		Content:     FormatCSV(rows),
	}, nil
}

func (s *exportService) SystemCSV(ctx context.Context) (*Export, error) {
	logs, err := s.repo.Log().List(ctx, repositories.LogFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list answer logs: %w", err)
	}

	rows := make([][]string, 0, len(logs)+1)
	rows = append(rows, systemExportHeader)
	for _, log := range logs {
		local := log.CreatedAt.In(exportLocation)
		rows = append(rows, []string{
			log.UserName,
			formatDate(local),
			formatTime(local),
			strconv.FormatUint(uint64(log.TaskID), 10),
			log.Question,
			systemActionLabels[log.Action],
			log.Answer,
			log.UserAgent,
		})
	}

	return &Export{
		FileName:    "export.csv",
		ContentType: "text/csv; charset=utf-8",
		Content:     FormatCSV(rows),
	}, nil
}

func (s *exportService) AssignmentXLSX(ctx context.Context, assignmentID uint) (*Export, error) {
	assignment, logs, err := s.loadAssignmentLogs(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(assignmentExportHeader))
	for i, h := range assignmentExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, log := range logs {
		row := assignmentRow(log, assignment.Name)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return &Export{
		FileName:    ExportFileName(assignment.Name, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}

func (s *exportService) loadAssignmentLogs(ctx context.Context, assignmentID uint) (*models.Assignment, []*models.AnswerLog, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrAssignmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load assignment %d: %w", assignmentID, err)
	}

	logs, err := s.repo.Log().List(ctx, repositories.LogFilters{AssignmentID: &assignmentID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list answer logs: %w", err)
	}
	return assignment, logs, nil
}

func assignmentRow(log *models.AnswerLog, assignmentName string) []string {
	local := log.CreatedAt.In(exportLocation)
	return []string{
		log.UserName,
		formatDate(local),
		formatTime(local),
		assignmentName,
		log.Question,
		log.Example,
		assignmentActionLabels[log.Action],
		log.Answer,
		log.UserAgent,
	}
}

func formatDate(t time.Time) string {
	return t.Format("2006/1/2")
}

func formatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatCSV renders rows as a BOM-prefixed, CRLF-terminated CSV document.
func FormatCSV(rows [][]string) []byte {
	var b strings.Builder
	b.WriteString(utf8BOM)
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSVField(field))
		}
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

// escapeCSVField doubles embedded quotes, then wraps the field in quotes when
// it contains a quote, comma, or line break.
func escapeCSVField(s string) string {
	escaped := strings.ReplaceAll(s, `"`, `""`)
	if strings.ContainsAny(escaped, "\",\r\n") {
		return `"` + escaped + `"`
	}
	return escaped
}

// ExportFileName sanitizes the assignment name into a download file name,
// falling back to 导出 when nothing printable survives.
func ExportFileName(name, ext string) string {
	cleaned := sanitizeFileName(name)
	if cleaned == "" {
		cleaned = "导出"
	}
	return cleaned + "." + ext
}

func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			// control characters
		case strings.ContainsRune(`/\?%*:|"<>`, r):
			// path and shell metacharacters
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
