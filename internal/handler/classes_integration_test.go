package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/proffy-io/proffy-api/internal/models"
	"github.com/proffy-io/proffy-api/internal/repository"
	"github.com/proffy-io/proffy-api/internal/service"
	"github.com/proffy-io/proffy-api/migrations"
	"github.com/proffy-io/proffy-api/pkg/database"
)

type testServer struct {
	db     *sqlx.DB
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "proffy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator, err := migrations.New(db.DB, database.Dialect("sqlite"))
	require.NoError(t, err)
	require.NoError(t, migrator.Quiet().Up(context.Background()))

	logr := zap.NewNop()
	validate := validator.New()
	metrics := service.NewMetricsService()
	tutors := repository.NewTutorRepository(db)

	classSvc := service.NewClassService(
		repository.NewClassRepository(db),
		repository.NewClassScheduleRepository(db),
		repository.NewSQLTxManager(db),
		nil, metrics, validate, logr,
		service.ClassServiceConfig{},
	)
	connSvc := service.NewConnectionService(repository.NewConnectionRepository(db), tutors, metrics, validate, logr)

	router := Router{
		Classes:     NewClassHandler(classSvc),
		Connections: NewConnectionHandler(connSvc),
		Metrics:     NewMetricsHandler(metrics, db),
	}
	engine := router.Engine(RouterOptions{APIPrefix: "/api", EnableMetrics: true}, logr, metrics)
	return &testServer{db: db, engine: engine}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) search(t *testing.T, query string) []models.ClassWithTutor {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/api/classes?"+query, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out []models.ClassWithTutor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out)
	return out
}

func (s *testServer) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

const anaPayload = `{"name":"Ana","avatar":"https://img/ana.png","whatsapp":"5511999999999","bio":"Biologist",
	"subject":"Biology","cost":30,"schedule":[{"week_day":1,"from":"15:00","to":"16:00"}]}`

func TestClassesEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/classes", anaPayload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Body.String())

	classes := srv.search(t, "subject=Biology&week_day=1&time=15:30")
	require.Len(t, classes, 1)
	assert.Equal(t, "Ana", classes[0].Name)
	assert.Equal(t, "Biology", classes[0].Subject)
	assert.Equal(t, 30.0, classes[0].Cost)
	assert.Equal(t, "5511999999999", classes[0].Whatsapp)
	assert.NotEmpty(t, classes[0].UserID)

	assert.Empty(t, srv.search(t, "subject=Biology&week_day=1&time=16:00"))
	assert.Empty(t, srv.search(t, "subject=Biology&week_day=2&time=15:30"))
	assert.JSONEq(t, `[]`, srv.do(t, http.MethodGet, "/api/classes?subject=Biology&week_day=1&time=16:00", "").Body.String())

	rec = srv.do(t, http.MethodGet, "/api/classes/"+classes[0].ID+"/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"week_day":1,"from":"15:00","to":"16:00"}]}`, rec.Body.String())
}

func TestClassesHalfOpenBoundary(t *testing.T) {
	srv := newTestServer(t)
	payload := `{"name":"Bo","subject":"Chemistry","cost":10,"schedule":[{"week_day":2,"from":"08:00","to":"09:00"}]}`
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/classes", payload).Code)

	assert.Len(t, srv.search(t, "subject=Chemistry&week_day=2&time=08:00"), 1)
	assert.Len(t, srv.search(t, "subject=Chemistry&week_day=2&time=08:59"), 1)
	assert.Empty(t, srv.search(t, "subject=Chemistry&week_day=2&time=09:00"))
}

func TestClassesNoCrossSubjectLeakage(t *testing.T) {
	srv := newTestServer(t)
	payload := `{"name":"Caio","subject":"Math","cost":50,"schedule":[{"week_day":3,"from":"10:00","to":"12:00"}]}`
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/classes", payload).Code)

	assert.Empty(t, srv.search(t, "subject=Physics&week_day=3&time=11:00"))
	assert.Len(t, srv.search(t, "subject=Math&week_day=3&time=11:00"), 1)
}

func TestClassesMultipleMatchesAreOrdered(t *testing.T) {
	srv := newTestServer(t)
	for _, name := range []string{"First", "Second"} {
		payload := `{"name":"` + name + `","subject":"History","cost":20,"schedule":[{"week_day":4,"from":"09:00","to":"11:00"},{"week_day":4,"from":"10:00","to":"12:00"}]}`
		require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/classes", payload).Code)
	}

	classes := srv.search(t, "subject=History&week_day=4&time=10:30")
	require.Len(t, classes, 2)
	assert.Equal(t, "First", classes[0].Name)
	assert.Equal(t, "Second", classes[1].Name)
}

func TestClassesMissingFilters(t *testing.T) {
	srv := newTestServer(t)

	for _, query := range []string{"", "subject=Biology", "subject=Biology&week_day=1", "week_day=1&time=10:00"} {
		rec := srv.do(t, http.MethodGet, "/api/classes?"+query, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing filters to search classes")
	}

	rec := srv.do(t, http.MethodGet, "/api/classes?subject=Biology&week_day=1&time=9am", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassesRejectScheduleWithoutWeekDay(t *testing.T) {
	srv := newTestServer(t)
	payload := `{"name":"Ana","subject":"Biology","cost":30,"schedule":[{"from":"15:00","to":"16:00"}]}`

	rec := srv.do(t, http.MethodPost, "/api/classes", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	assert.Empty(t, srv.search(t, "subject=Biology&week_day=0&time=15:30"))
	assert.Equal(t, 0, srv.count(t, "users"))
	assert.Equal(t, 0, srv.count(t, "classes"))

	payload = `{"name":"Ana","subject":"Biology","cost":30,"schedule":[{"week_day":0,"from":"15:00","to":"16:00"}]}`
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/classes", payload).Code)
	assert.Len(t, srv.search(t, "subject=Biology&week_day=0&time=15:30"), 1)
}

func TestClassesRegistrationIsAtomic(t *testing.T) {
	srv := newTestServer(t)
	payload := `{"name":"Ana","subject":"Biology","cost":30,"schedule":[
		{"week_day":1,"from":"08:00","to":"09:00"},
		{"week_day":2,"from":"08:00","to":"09:00"},
		{"week_day":3,"from":"8h","to":"09:00"}]}`

	rec := srv.do(t, http.MethodPost, "/api/classes", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unexpected error while creating new class")

	assert.Equal(t, 0, srv.count(t, "users"))
	assert.Equal(t, 0, srv.count(t, "classes"))
	assert.Equal(t, 0, srv.count(t, "class_schedule"))
}

func TestTxManagerRollsBackStorageConstraintViolation(t *testing.T) {
	srv := newTestServer(t)
	tx := repository.NewSQLTxManager(srv.db)

	err := tx.WithTx(context.Background(), func(ctx context.Context, repos repository.TxRepositories) error {
		tutor := &models.Tutor{Name: "Ana"}
		if err := repos.Tutors.Create(ctx, tutor); err != nil {
			return err
		}
		class := &models.Class{UserID: tutor.ID, Subject: "Biology", Cost: 30}
		if err := repos.Classes.Create(ctx, class); err != nil {
			return err
		}
		return repos.Schedules.CreateBatch(ctx, []models.ClassSchedule{
			{ClassID: class.ID, WeekDay: 1, From: 480, To: 540},
			{ClassID: class.ID, WeekDay: 2, From: 480, To: 540},
			{ClassID: class.ID, WeekDay: 3, From: 600, To: 540},
		})
	})
	require.Error(t, err)
	_, isConstraint := database.ConstraintViolation(err)
	assert.True(t, isConstraint)

	assert.Equal(t, 0, srv.count(t, "users"))
	assert.Equal(t, 0, srv.count(t, "classes"))
	assert.Equal(t, 0, srv.count(t, "class_schedule"))
}

func TestConnectionsEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/classes", anaPayload).Code)
	tutorID := srv.search(t, "subject=Biology&week_day=1&time=15:30")[0].UserID

	rec := srv.do(t, http.MethodPost, "/api/connections", `{"user_id":"`+tutorID+`","subject":"Biology"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/connections", `{"user_id":"`+tutorID+`"}`).Code)

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodPost, "/api/connections", `{"user_id":"missing"}`).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/api/connections", `{}`).Code)

	assert.JSONEq(t, `{"total":2}`, srv.do(t, http.MethodGet, "/api/connections", "").Body.String())
	assert.JSONEq(t, `{"total":1}`, srv.do(t, http.MethodGet, "/api/connections?subject=Biology", "").Body.String())
	assert.JSONEq(t, `{"total":0}`, srv.do(t, http.MethodGet, "/api/connections?user_id=other", "").Body.String())
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/ready", "").Code)

	srv.search(t, "subject=Biology&week_day=1&time=15:30")
	rec := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class_searches_total{outcome="empty"} 1`)
}
