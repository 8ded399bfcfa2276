package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xin-yuwen/assignment-service/internal/exercise"
	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/services"
	"github.com/xin-yuwen/assignment-service/internal/session"
	"github.com/xin-yuwen/assignment-service/internal/utils"
)

// FlowHandler serves the learner-facing task flow. Navigation state lives in
// the URL position; the only server-side learner state is the name cookie.
type FlowHandler struct {
	BaseHandler
	sequencer services.SequencerService
	recorder  services.RecorderService
	sessions  *session.Manager
}

func NewFlowHandler(
	sequencer services.SequencerService,
	recorder services.RecorderService,
	sessions *session.Manager,
	logger utils.Logger,
) *FlowHandler {
	return &FlowHandler{
		BaseHandler: NewBaseHandler(logger),
		sequencer:   sequencer,
		recorder:    recorder,
		sessions:    sessions,
	}
}

// taskResponse is the learner's view of one task. Word lists are only exposed
// on the corrections screen.
type taskResponse struct {
	AssignmentID   uint    `json:"assignment_id"`
	AssignmentName string  `json:"assignment_name"`
	Position       int     `json:"position"`
	TaskCount      int     `json:"task_count"`
	IsLast         bool    `json:"is_last"`
	Question       string  `json:"question"`
	Example        string  `json:"example"`
	VideoURL       string  `json:"video_url"`
	ImageURL       string  `json:"image_url,omitempty"`
	Tip            *string `json:"tip,omitempty"`
}

// GetStart returns the identity-entry screen data.
func (h *FlowHandler) GetStart(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assignment, err := h.sequencer.AssignmentWithTasks(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := gin.H{
		"assignment_id": assignment.ID,
		"name":          assignment.Name,
		"tip":           assignment.Tip,
		"task_count":    len(assignment.Tasks),
	}
	if userName, ok := h.sessions.GetUserName(c); ok {
		resp["user_name"] = userName
	}
	c.JSON(http.StatusOK, resp)
}

// PostStart stores the learner's name in the session cookie and sends them to
// the first task (or back to where RequireUser bounced them from).
func (h *FlowHandler) PostStart(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Name is required",
		})
		return
	}

	remember := c.PostForm("remember") == "on" || c.PostForm("remember") == "true"
	if err := h.sessions.CreateUserSession(c, name, remember); err != nil {
		h.LogError(c, err, "Failed to create user session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	h.recorder.StartSession(c.Request.Context(), name, id)

	redirectTo := c.Query("redirectTo")
	if redirectTo == "" || !strings.HasPrefix(redirectTo, "/") {
		redirectTo = fmt.Sprintf("/assignment/%d/tasks/0", id)
	}
	c.Redirect(http.StatusFound, redirectTo)
}

// GetTask returns the task at the URL position. Past-the-end positions
// redirect to the finish view instead of erroring.
func (h *FlowHandler) GetTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	position, ok := h.parsePositionParam(c, "position")
	if !ok {
		return
	}

	resolved, err := h.sequencer.Resolve(c.Request.Context(), id, position)
	if err != nil {
		if services.IsOutOfRange(err) {
			c.Redirect(http.StatusFound, fmt.Sprintf("/assignment/%d/finish", id))
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, taskResponse{
		AssignmentID:   resolved.Assignment.ID,
		AssignmentName: resolved.Assignment.Name,
		Position:       resolved.Position,
		TaskCount:      len(resolved.Assignment.Tasks),
		IsLast:         resolved.IsLast,
		Question:       resolved.Task.Question,
		Example:        resolved.Task.Example,
		VideoURL:       resolved.Task.VideoURL,
		ImageURL:       resolved.Task.ImageURL,
		Tip:            resolved.Assignment.Tip,
	})
}

// PostTask records a correct or unsure submission and redirects to the next
// step. The rephrase action goes through the corrections screen.
func (h *FlowHandler) PostTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	position, ok := h.parsePositionParam(c, "position")
	if !ok {
		return
	}

	action := models.LogAction(c.PostForm("_action"))
	if action != models.ActionCorrect && action != models.ActionUnsure {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid action",
		})
		return
	}

	h.record(c, id, position, action, "")
}

// GetCorrections seeds the sentence-reorder exercise for the task.
func (h *FlowHandler) GetCorrections(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	position, ok := h.parsePositionParam(c, "position")
	if !ok {
		return
	}

	resolved, err := h.sequencer.Resolve(c.Request.Context(), id, position)
	if err != nil {
		if services.IsOutOfRange(err) {
			c.Redirect(http.StatusFound, fmt.Sprintf("/assignment/%d/finish", id))
			return
		}
		h.handleServiceError(c, err)
		return
	}

	state := exercise.NewSession(resolved.Task.Initial, resolved.Task.Alternative).State()
	c.JSON(http.StatusOK, gin.H{
		"assignment_id": id,
		"position":      resolved.Position,
		"question":      resolved.Task.Question,
		"example":       resolved.Task.Example,
		"answer":        state.Answer,
		"pool":          state.Pool,
	})
}

// PostCorrections records a rephrase submission. The corrected sentence
// arrives as ordered word tiles; the concatenation is what gets logged.
func (h *FlowHandler) PostCorrections(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	position, ok := h.parsePositionParam(c, "position")
	if !ok {
		return
	}

	resolved, err := h.sequencer.Resolve(c.Request.Context(), id, position)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	answer, err := h.composeAnswer(c, resolved.Task)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	h.record(c, id, position, models.ActionRephrase, answer)
}

// GetFinish returns the completion view; replay links back to position 0.
func (h *FlowHandler) GetFinish(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assignment, err := h.sequencer.AssignmentWithTasks(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignment_id": assignment.ID,
		"name":          assignment.Name,
		"task_count":    len(assignment.Tasks),
		"replay_url":    fmt.Sprintf("/assignment/%d/tasks/0", assignment.ID),
	})
}

// PostLogout clears the learner cookie and returns to the start screen.
func (h *FlowHandler) PostLogout(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.sessions.ClearUserSession(c)
	c.Redirect(http.StatusFound, fmt.Sprintf("/assignment/%d/start", id))
}

func (h *FlowHandler) record(c *gin.Context, assignmentID uint, position int, action models.LogAction, answer string) {
	userName, ok := h.sessions.GetUserName(c)
	if !ok {
		// RequireUser guards these routes; a missing name here means the
		// cookie expired mid-request.
		c.Redirect(http.StatusFound, fmt.Sprintf("/assignment/%d/start", assignmentID))
		return
	}

	result, err := h.recorder.Record(c.Request.Context(), &services.RecordRequest{
		UserName:     userName,
		AssignmentID: assignmentID,
		Position:     position,
		Action:       action,
		Answer:       answer,
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.IsLast {
		c.Redirect(http.StatusFound, fmt.Sprintf("/assignment/%d/finish", assignmentID))
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/assignment/%d/tasks/%d", assignmentID, result.NextPosition))
}

// composeAnswer turns the posted word tiles into the logged sentence. Clients
// post either `words` (ordered tiles, validated against the task's tile set)
// or a pre-composed `answer` string.
func (h *FlowHandler) composeAnswer(c *gin.Context, task *models.Task) (string, error) {
	words := c.PostFormArray("words")
	if len(words) == 0 {
		answer := strings.TrimSpace(c.PostForm("answer"))
		if answer == "" {
			return "", errors.New("answer is required")
		}
		return answer, nil
	}

	if !validAnswerWords(task, words) {
		return "", errors.New("answer words do not match the task's word tiles")
	}
	return strings.Join(words, ""), nil
}

// validAnswerWords checks that each posted tile exists in the task's word
// sets, no tile is used more often than offered, and every mandatory word is
// present.
func validAnswerWords(task *models.Task, words []string) bool {
	available := make(map[string]int, len(task.Initial)+len(task.Alternative))
	for _, w := range task.Initial {
		available[w]++
	}
	for _, w := range task.Alternative {
		available[w]++
	}

	used := make(map[string]int, len(words))
	for _, w := range words {
		used[w]++
		if used[w] > available[w] {
			return false
		}
	}
	for _, w := range task.Initial {
		if used[w] == 0 {
			return false
		}
	}
	return true
}
