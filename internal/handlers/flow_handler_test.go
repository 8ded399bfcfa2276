package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
)

// The full learner run: enter a name, answer both tasks, land on finish.
func TestFlow_CompleteRun(t *testing.T) {
	srv := newTestServer(t)
	assignment := srv.seedAssignment(t, "第一单元", 2)
	base := fmt.Sprintf("/assignment/%d", assignment.ID)

	// Without a session, task routes bounce to the start screen.
	w := srv.do(t, http.MethodGet, base+"/tasks/0", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), base+"/start?redirectTo=")

	// Start screen shows the assignment.
	w = srv.do(t, http.MethodGet, base+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var start map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &start))
	assert.Equal(t, "第一单元", start["name"])
	assert.EqualValues(t, 2, start["task_count"])

	// Entering a name redirects to the first task.
	w = srv.do(t, http.MethodPost, base+"/start", url.Values{"name": {"Alice"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, base+"/tasks/0", w.Header().Get("Location"))

	// First task renders.
	w = srv.do(t, http.MethodGet, base+"/tasks/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var task taskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, 0, task.Position)
	assert.False(t, task.IsLast)
	assert.Equal(t, "男孩拿书了", task.Question)

	// Submitting "correct" moves to the next task.
	w = srv.do(t, http.MethodPost, base+"/tasks/0", url.Values{"_action": {"correct"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, base+"/tasks/1", w.Header().Get("Location"))

	// The corrections screen seeds the reorder exercise.
	w = srv.do(t, http.MethodGet, base+"/tasks/1/corrections", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var corrections struct {
		Answer []string `json:"answer"`
		Pool   []string `json:"pool"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &corrections))
	assert.Equal(t, []string{"男孩", "拿"}, corrections.Answer)
	assert.Equal(t, []string{"书", "猫"}, corrections.Pool)

	// Submitting the corrected sentence on the last task finishes the run.
	w = srv.do(t, http.MethodPost, base+"/tasks/1/corrections", url.Values{
		"words": {"男孩", "拿", "书"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, base+"/finish", w.Header().Get("Location"))

	w = srv.do(t, http.MethodGet, base+"/finish", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Both submissions were logged in order with snapshots.
	logs, err := srv.repo.Log().List(context.Background(), repositories.LogFilters{AssignmentID: &assignment.ID})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionCorrect, logs[0].Action)
	assert.Equal(t, models.ActionRephrase, logs[1].Action)
	assert.Equal(t, "男孩拿书", logs[1].Answer)
	assert.Equal(t, "Alice", logs[1].UserName)
	assert.Equal(t, "test-agent", logs[1].UserAgent)
}

func TestFlow_OutOfRangeGetRedirectsToFinish(t *testing.T) {
	srv := newTestServer(t)
	assignment := srv.seedAssignment(t, "第一单元", 2)
	base := fmt.Sprintf("/assignment/%d", assignment.ID)

	srv.do(t, http.MethodPost, base+"/start", url.Values{"name": {"Alice"}})

	w := srv.do(t, http.MethodGet, base+"/tasks/5", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, base+"/finish", w.Header().Get("Location"))

	// Negative positions are out of range too, not malformed.
	w = srv.do(t, http.MethodGet, base+"/tasks/-1", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, base+"/finish", w.Header().Get("Location"))
}

func TestFlow_OutOfRangePostIsBadRequest(t *testing.T) {
	srv := newTestServer(t)
	assignment := srv.seedAssignment(t, "第一单元", 2)
	base := fmt.Sprintf("/assignment/%d", assignment.ID)

	srv.do(t, http.MethodPost, base+"/start", url.Values{"name": {"Alice"}})

	w := srv.do(t, http.MethodPost, base+"/tasks/5", url.Values{"_action": {"correct"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, base+"/tasks/-1", url.Values{"_action": {"correct"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	logs, err := srv.repo.Log().List(context.Background(), repositories.LogFilters{AssignmentID: &assignment.ID})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestFlow_UnknownAssignmentIs404(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/assignment/9999/start", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlow_PostStartRequiresName(t *testing.T) {
	srv := newTestServer(t)
	assignment := srv.seedAssignment(t, "第一单元", 1)

	w := srv.do(t, http.MethodPost, fmt.Sprintf("/assignment/%d/start", assignment.ID), url.Values{"name": {"   "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlow_PostTaskRejectsRephraseWithoutCorrections(t *testing.T) {
	srv := newTestServer(t)
	assignment := srv.seedAssignment(t, "第一单元", 1)
	base := fmt.Sprintf("/assignment/%d", assignment.ID)

	srv.do(t, http.MethodPost, base+"/start", url.Values{"name": {"Alice"}})

	w := srv.do(t, http.MethodPost, base+"/tasks/0", url.Values{"_action": {"rephrase"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlow_CorrectionsRejectsForeignWords(t *testing.T) {
	srv := newTestServer(t)
	assignment := srv.seedAssignment(t, "第一单元", 1)
	base := fmt.Sprintf("/assignment/%d", assignment.ID)

	srv.do(t, http.MethodPost, base+"/start", url.Values{"name": {"Alice"}})

	// A word that is not among the task's tiles.
	w := srv.do(t, http.MethodPost, base+"/tasks/0/corrections", url.Values{
		"words": {"男孩", "拿", "香蕉"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Dropping a mandatory word is equally invalid.
	w = srv.do(t, http.MethodPost, base+"/tasks/0/corrections", url.Values{
		"words": {"男孩", "书"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlow_RedirectToAfterStart(t *testing.T) {
	srv := newTestServer(t)
	assignment := srv.seedAssignment(t, "第一单元", 2)
	base := fmt.Sprintf("/assignment/%d", assignment.ID)

	w := srv.do(t, http.MethodPost, base+"/start?redirectTo="+url.QueryEscape(base+"/tasks/1"), url.Values{"name": {"Alice"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, base+"/tasks/1", w.Header().Get("Location"))

	// External targets are not followed.
	srv2 := newTestServer(t)
	a2 := srv2.seedAssignment(t, "第一单元", 1)
	w = srv2.do(t, http.MethodPost, fmt.Sprintf("/assignment/%d/start?redirectTo=https://evil.example", a2.ID), url.Values{"name": {"Alice"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/assignment/%d/tasks/0", a2.ID), w.Header().Get("Location"))
}

func TestFlow_Logout(t *testing.T) {
	srv := newTestServer(t)
	assignment := srv.seedAssignment(t, "第一单元", 1)
	base := fmt.Sprintf("/assignment/%d", assignment.ID)

	srv.do(t, http.MethodPost, base+"/start", url.Values{"name": {"Alice"}})

	w := srv.do(t, http.MethodPost, base+"/logout", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, base+"/start", w.Header().Get("Location"))
}
