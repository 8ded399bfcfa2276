package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/services"
	"github.com/xin-yuwen/assignment-service/internal/session"
	"github.com/xin-yuwen/assignment-service/internal/storage"
	"github.com/xin-yuwen/assignment-service/internal/utils"
)

// AdminHandler serves the authoring API behind admin authentication.
type AdminHandler struct {
	BaseHandler
	assignments services.AssignmentService
	admins      services.AdminService
	sessions    *session.Manager
	uploader    storage.Uploader
}

func NewAdminHandler(
	assignments services.AssignmentService,
	admins services.AdminService,
	sessions *session.Manager,
	uploader storage.Uploader,
	logger utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		assignments: assignments,
		admins:      admins,
		sessions:    sessions,
		uploader:    uploader,
	}
}

// ===== AUTH =====

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and sets the admin session cookie.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	admin, err := h.admins.VerifyLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.sessions.CreateAdminSession(c, admin.ID); err != nil {
		h.LogError(c, err, "Failed to create admin session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Logged in",
		Data: gin.H{
			"id":   admin.ID,
			"name": admin.Name,
		},
	})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	h.sessions.ClearAdminSession(c)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// Me returns the authenticated admin's profile.
func (h *AdminHandler) Me(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	admin, err := h.admins.GetAdmin(c.Request.Context(), adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       admin.ID,
		"name":     admin.Name,
		"username": admin.Username,
	})
}

// ===== ASSIGNMENTS =====

func (h *AdminHandler) CreateAssignment(c *gin.Context) {
	var req services.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	assignment, err := h.assignments.CreateAssignment(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *AdminHandler) ListAssignments(c *gin.Context) {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)

	assignments, total, err := h.assignments.ListAssignments(c.Request.Context(), repositories.AssignmentFilters{
		NameContains: c.Query("name"),
		Limit:        size,
		Offset:       (page - 1) * size,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": assignments,
		"total":       total,
		"page":        page,
		"size":        size,
	})
}

func (h *AdminHandler) GetAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assignment, err := h.assignments.GetAssignmentWithTasks(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *AdminHandler) UpdateAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	assignment, err := h.assignments.UpdateAssignment(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *AdminHandler) DeleteAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.assignments.DeleteAssignment(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Assignment deleted"})
}

// ===== TASKS =====

func (h *AdminHandler) CreateTask(c *gin.Context) {
	assignmentID := h.parseIDParam(c, "id")
	if assignmentID == 0 {
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.AssignmentID = assignmentID

	task, err := h.assignments.CreateTask(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *AdminHandler) GetTask(c *gin.Context) {
	id := h.parseIDParam(c, "task_id")
	if id == 0 {
		return
	}

	task, err := h.assignments.GetTask(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *AdminHandler) UpdateTask(c *gin.Context) {
	id := h.parseIDParam(c, "task_id")
	if id == 0 {
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	task, err := h.assignments.UpdateTask(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *AdminHandler) DeleteTask(c *gin.Context) {
	id := h.parseIDParam(c, "task_id")
	if id == 0 {
		return
	}

	if err := h.assignments.DeleteTask(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Task deleted"})
}

// ===== UPLOADS =====

// UploadSignature hands the admin UI a presigned PUT URL for task media.
func (h *AdminHandler) UploadSignature(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Upload signing is not configured",
		})
		return
	}

	fileName := c.Query("file_name")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "file_name is required",
		})
		return
	}
	method := c.DefaultQuery("method", "PUT")
	contentType := c.Query("content_type")

	signed, err := h.uploader.SignatureURL(fileName, method, contentType)
	if err != nil {
		h.LogError(c, err, "Failed to sign upload URL", "file_name", fileName)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to sign upload URL",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"signature_url": signed,
		"object_url":    h.uploader.ObjectURL(fileName),
	})
}
