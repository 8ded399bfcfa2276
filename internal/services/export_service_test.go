package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xin-yuwen/assignment-service/internal/models"
)

func TestFormatCSV_BOMAndCRLF(t *testing.T) {
	out := string(FormatCSV([][]string{{"a", "b"}, {"c", "d"}}))

	assert.True(t, strings.HasPrefix(out, "\uFEFF"), "missing UTF-8 BOM")
	assert.Equal(t, "\uFEFF"+"a,b\r\nc,d\r\n", out)
}

func TestEscapeCSVField(t *testing.T) {
	assert.Equal(t, "plain", escapeCSVField("plain"))
	assert.Equal(t, `"a,b"`, escapeCSVField("a,b"))
	assert.Equal(t, "\"a\nb\"", escapeCSVField("a\nb"))
	assert.Equal(t, `"say ""hi"""`, escapeCSVField(`say "hi"`))
	assert.Equal(t, "\"a,\"\"b\"\"\nc\"", escapeCSVField("a,\"b\"\nc"))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "第一单元.csv", ExportFileName("第一单元", "csv"))
	assert.Equal(t, "ab.csv", ExportFileName(`a/\?%*:|"<>b`, "csv"))
	// Nothing printable left: fall back.
	assert.Equal(t, "导出.csv", ExportFileName(`//\\`, "csv"))
	assert.Equal(t, "导出.xlsx", ExportFileName("", "xlsx"))
}

func TestAssignmentCSV_ColumnsAndLabels(t *testing.T) {
	deps := newTestDeps(t)
	assignment := seedAssignment(t, deps.repo, "第一单元", 1)
	ctx := context.Background()

	tasks, err := deps.repo.Task().ListByAssignment(ctx, assignment.ID)
	require.NoError(t, err)

	created := time.Date(2025, 3, 7, 1, 30, 5, 0, time.UTC) // 09:30:05 in Shanghai
	for i, action := range []models.LogAction{models.ActionCorrect, models.ActionUnsure, models.ActionRephrase} {
		answer := ""
		if action == models.ActionRephrase {
			answer = "男孩拿书"
		}
		require.NoError(t, deps.repo.Log().Create(ctx, &models.AnswerLog{
			UserName:     "Alice",
			AssignmentID: assignment.ID,
			TaskID:       tasks[0].ID,
			Question:     tasks[0].Question,
			Example:      tasks[0].Example,
			Action:       action,
			Answer:       answer,
			UserAgent:    "agent",
			CreatedAt:    created.Add(time.Duration(i) * time.Second),
		}))
	}

	export, err := deps.services.Export().AssignmentCSV(ctx, assignment.ID)
	require.NoError(t, err)

	assert.Equal(t, "第一单元.csv", export.FileName)
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType)

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(string(export.Content), "\uFEFF"), "\r\n"), "\r\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "姓名,日期,时间,作业,问题,提示,操作,回答,设备信息", lines[0])
	assert.Equal(t, "Alice,2025/3/7,09:30:05,第一单元,男孩拿书了,男孩拿起一本书,正确,,agent", lines[1])
	assert.Contains(t, lines[2], ",不确定,")
	assert.Contains(t, lines[3], ",造句,男孩拿书,")
}

func TestSystemCSV_ColumnsAndLabels(t *testing.T) {
	deps := newTestDeps(t)
	assignment := seedAssignment(t, deps.repo, "第一单元", 1)
	ctx := context.Background()

	tasks, err := deps.repo.Task().ListByAssignment(ctx, assignment.ID)
	require.NoError(t, err)

	require.NoError(t, deps.repo.Log().Create(ctx, &models.AnswerLog{
		UserName:     "Bob",
		AssignmentID: assignment.ID,
		TaskID:       tasks[0].ID,
		Question:     tasks[0].Question,
		Example:      tasks[0].Example,
		Action:       models.ActionRephrase,
		Answer:       "男孩拿猫",
		CreatedAt:    time.Date(2025, 3, 7, 1, 30, 5, 0, time.UTC),
	}))

	export, err := deps.services.Export().SystemCSV(ctx)
	require.NoError(t, err)

	assert.Equal(t, "export.csv", export.FileName)

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(string(export.Content), "\uFEFF"), "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "姓名,日期,时间,问题编号,问题,操作,回答,设备信息", lines[0])
	// The system-wide export labels rephrase rows 不正确.
	assert.Contains(t, lines[1], ",不正确,男孩拿猫,")
}

func TestAssignmentCSV_EscapesEmbeddedDelimiters(t *testing.T) {
	deps := newTestDeps(t)
	assignment := seedAssignment(t, deps.repo, "第一单元", 1)
	ctx := context.Background()

	tasks, err := deps.repo.Task().ListByAssignment(ctx, assignment.ID)
	require.NoError(t, err)

	require.NoError(t, deps.repo.Log().Create(ctx, &models.AnswerLog{
		UserName:     "Alice",
		AssignmentID: assignment.ID,
		TaskID:       tasks[0].ID,
		Question:     tasks[0].Question,
		Example:      tasks[0].Example,
		Action:       models.ActionRephrase,
		Answer:       "a,\"b\"\nc",
	}))

	export, err := deps.services.Export().AssignmentCSV(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Contains(t, string(export.Content), "\"a,\"\"b\"\"\nc\"")
}

func TestAssignmentCSV_UnmappedActionRendersEmpty(t *testing.T) {
	deps := newTestDeps(t)
	assignment := seedAssignment(t, deps.repo, "第一单元", 1)
	ctx := context.Background()

	tasks, err := deps.repo.Task().ListByAssignment(ctx, assignment.ID)
	require.NoError(t, err)

	// A row written by an older build with an action this version no longer
	// maps must not break the export.
	require.NoError(t, deps.repo.Log().Create(ctx, &models.AnswerLog{
		UserName:     "Alice",
		AssignmentID: assignment.ID,
		TaskID:       tasks[0].ID,
		Question:     tasks[0].Question,
		Example:      tasks[0].Example,
		Action:       "legacy",
	}))

	export, err := deps.services.Export().AssignmentCSV(ctx, assignment.ID)
	require.NoError(t, err)

	lines := strings.Split(string(export.Content), "\r\n")
	assert.Contains(t, lines[1], "男孩拿起一本书,,")
}

func TestAssignmentCSV_NotFound(t *testing.T) {
	deps := newTestDeps(t)

	_, err := deps.services.Export().AssignmentCSV(context.Background(), 404)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignmentXLSX_RendersWorkbook(t *testing.T) {
	deps := newTestDeps(t)
	assignment := seedAssignment(t, deps.repo, "第一单元", 1)
	ctx := context.Background()

	tasks, err := deps.repo.Task().ListByAssignment(ctx, assignment.ID)
	require.NoError(t, err)

	require.NoError(t, deps.repo.Log().Create(ctx, &models.AnswerLog{
		UserName:     "Alice",
		AssignmentID: assignment.ID,
		TaskID:       tasks[0].ID,
		Question:     tasks[0].Question,
		Example:      tasks[0].Example,
		Action:       models.ActionCorrect,
	}))

	export, err := deps.services.Export().AssignmentXLSX(ctx, assignment.ID)
	require.NoError(t, err)

	assert.Equal(t, "第一单元.xlsx", export.FileName)
	assert.NotEmpty(t, export.Content)
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, export.Content[:2])
}
