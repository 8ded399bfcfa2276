package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xin-yuwen/assignment-service/internal/cache"
	"github.com/xin-yuwen/assignment-service/internal/events"
	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/repositories/postgres"
	"github.com/xin-yuwen/assignment-service/internal/utils"
	appvalidator "github.com/xin-yuwen/assignment-service/internal/validator"
)

// newTestDB opens an in-memory sqlite database with the full schema. A single
// connection keeps the in-memory database alive across queries.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, postgres.Migrate(db))
	return db
}

type testDeps struct {
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	services  ServiceManager
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	log := utils.NewDevelopmentLogger()
	repo := postgres.NewRepository(newTestDB(t))
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(log))

	return &testDeps{
		repo:      repo,
		publisher: publisher,
		services:  NewServiceManager(repo, cache.NewNoopCache(), publisher, appvalidator.New(), log),
	}
}

// seedAssignment inserts an assignment with the given number of tasks.
func seedAssignment(t *testing.T, repo repositories.Repository, name string, taskCount int) *models.Assignment {
	t.Helper()
	ctx := context.Background()

	assignment := &models.Assignment{Name: name}
	require.NoError(t, repo.Assignment().Create(ctx, assignment))

	for i := 0; i < taskCount; i++ {
		task := &models.Task{
			AssignmentID: assignment.ID,
			Question:     "男孩拿书了",
			Example:      "男孩拿起一本书",
			Initial:      []string{"男孩", "拿"},
			Alternative:  []string{"书", "猫"},
			VideoURL:     "https://example.com/video.mp4",
		}
		require.NoError(t, repo.Task().Create(ctx, task))
	}
	return assignment
}
