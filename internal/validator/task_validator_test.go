package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xin-yuwen/assignment-service/internal/models"
)

func validTask() *models.Task {
	return &models.Task{
		AssignmentID: 1,
		Question:     "男孩拿书了",
		Example:      "男孩拿起一本书",
		Initial:      []string{"男孩", "拿"},
		Alternative:  []string{"书"},
		VideoURL:     "https://example.com/video.mp4",
	}
}

func TestValidate_AcceptsValidTask(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(validTask()))
}

func TestValidate_RejectsOverlappingWordSets(t *testing.T) {
	v := New()

	task := validTask()
	task.Alternative = []string{"拿", "书"}

	err := v.Validate(task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alternative")
}

func TestValidate_RejectsDuplicateAndEmptyWords(t *testing.T) {
	v := New()

	task := validTask()
	task.Initial = []string{"拿", "拿"}
	assert.Error(t, v.Validate(task))

	task = validTask()
	task.Alternative = []string{"书", "  "}
	assert.Error(t, v.Validate(task))
}

func TestValidate_RequiresVideoURL(t *testing.T) {
	v := New()

	task := validTask()
	task.VideoURL = ""
	assert.Error(t, v.Validate(task))
}

func TestValidateStruct_LogActionTag(t *testing.T) {
	v := New()

	log := &models.AnswerLog{
		UserName:     "Alice",
		AssignmentID: 1,
		TaskID:       1,
		Action:       "skip",
	}
	assert.Error(t, v.ValidateStruct(log))

	log.Action = models.ActionUnsure
	assert.NoError(t, v.ValidateStruct(log))
}
