package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xin-yuwen/assignment-service/internal/cache"
	"github.com/xin-yuwen/assignment-service/internal/events"
	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/repositories/postgres"
	"github.com/xin-yuwen/assignment-service/internal/services"
	"github.com/xin-yuwen/assignment-service/internal/session"
	"github.com/xin-yuwen/assignment-service/internal/utils"
	appvalidator "github.com/xin-yuwen/assignment-service/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	repo     repositories.Repository
	services services.ServiceManager
	cookies  []*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, postgres.Migrate(db))

	log := utils.NewDevelopmentLogger()
	repo := postgres.NewRepository(db)
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(log))
	serviceManager := services.NewServiceManager(repo, cache.NewNoopCache(), publisher, appvalidator.New(), log)
	sessions := session.NewManager("test-secret", false)

	router := gin.New()
	NewHandlerManager(serviceManager, sessions, nil, log).SetupRoutes(router)

	return &testServer{
		router:   router,
		repo:     repo,
		services: serviceManager,
	}
}

// do issues a request, replaying cookies captured from earlier responses.
func (s *testServer) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("User-Agent", "test-agent")
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.cookies = append(s.cookies, w.Result().Cookies()...)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.cookies = append(s.cookies, w.Result().Cookies()...)
	return w
}

func (s *testServer) seedAssignment(t *testing.T, name string, taskCount int) *models.Assignment {
	t.Helper()
	ctx := context.Background()

	assignment := &models.Assignment{Name: name}
	require.NoError(t, s.repo.Assignment().Create(ctx, assignment))
	for i := 0; i < taskCount; i++ {
		require.NoError(t, s.repo.Task().Create(ctx, &models.Task{
			AssignmentID: assignment.ID,
			Question:     "男孩拿书了",
			Example:      "男孩拿起一本书",
			Initial:      []string{"男孩", "拿"},
			Alternative:  []string{"书", "猫"},
			VideoURL:     "https://example.com/video.mp4",
		}))
	}
	return assignment
}
