package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/xin-yuwen/assignment-service/internal/services"
	"github.com/xin-yuwen/assignment-service/internal/utils"
)

// ExportHandler serves answer-log downloads for admins.
type ExportHandler struct {
	BaseHandler
	export services.ExportService
}

func NewExportHandler(export services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		export:      export,
	}
}

// DownloadAssignmentCSV streams one assignment's logs as CSV.
func (h *ExportHandler) DownloadAssignmentCSV(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	export, err := h.export.AssignmentCSV(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.serve(c, export)
}

// DownloadAssignment is the short per-assignment download path kept for
// clients that link /admin/:assignmentId/download.
func (h *ExportHandler) DownloadAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "assignmentId")
	if id == 0 {
		return
	}

	export, err := h.export.AssignmentCSV(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.serve(c, export)
}

// DownloadSystemCSV streams every answer log in the system as CSV.
func (h *ExportHandler) DownloadSystemCSV(c *gin.Context) {
	export, err := h.export.SystemCSV(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.serve(c, export)
}

// DownloadAssignmentXLSX streams one assignment's logs as an Excel workbook.
func (h *ExportHandler) DownloadAssignmentXLSX(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	export, err := h.export.AssignmentXLSX(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.serve(c, export)
}

func (h *ExportHandler) serve(c *gin.Context, export *services.Export) {
	// RFC 5987 encoding keeps non-ASCII assignment names intact.
	disposition := fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(export.FileName))
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, export.ContentType, export.Content)
}
