package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warehouse-ops/dashboard-service/pkg/logging"
	"github.com/warehouse-ops/dashboard-service/pkg/metrics"
	"github.com/warehouse-ops/dashboard-service/pkg/middleware"

	"github.com/warehouse-ops/dashboard-service/internal/application"
	"github.com/warehouse-ops/dashboard-service/internal/domain"
)

type stubTaskRepo struct {
	SaveFn     func(ctx context.Context, task *domain.Task) error
	FindByIDFn func(ctx context.Context, taskID string) (*domain.Task, error)
}

func (s *stubTaskRepo) Save(ctx context.Context, task *domain.Task) error {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, task)
	}
	return nil
}

func (s *stubTaskRepo) FindByID(ctx context.Context, taskID string) (*domain.Task, error) {
	if s.FindByIDFn != nil {
		return s.FindByIDFn(ctx, taskID)
	}
	return nil, nil
}

func (s *stubTaskRepo) FindByTimeRange(ctx context.Context, from, to int64) ([]domain.Task, error) {
	return nil, nil
}

func (s *stubTaskRepo) FindByWorker(ctx context.Context, userID string, from, to int64) ([]domain.Task, error) {
	return nil, nil
}

func (s *stubTaskRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	return nil, nil
}

func (s *stubTaskRepo) Delete(ctx context.Context, taskID string) error {
	return nil
}

type stubMetalRepo struct {
	FindByIDFn func(ctx context.Context, metalID string) (*domain.ScrapMetal, error)
}

func (s *stubMetalRepo) Save(ctx context.Context, metal *domain.ScrapMetal) error { return nil }

func (s *stubMetalRepo) FindByID(ctx context.Context, metalID string) (*domain.ScrapMetal, error) {
	if s.FindByIDFn != nil {
		return s.FindByIDFn(ctx, metalID)
	}
	return nil, nil
}

func (s *stubMetalRepo) FindAll(ctx context.Context) ([]domain.ScrapMetal, error) { return nil, nil }
func (s *stubMetalRepo) Delete(ctx context.Context, metalID string) error         { return nil }

type stubPriceRepo struct{}

func (s *stubPriceRepo) Upsert(ctx context.Context, price *domain.ScrapPrice) error { return nil }
func (s *stubPriceRepo) FindByMetalAndMonth(ctx context.Context, metalID string, month, year int) (*domain.ScrapPrice, error) {
	return nil, nil
}
func (s *stubPriceRepo) FindAll(ctx context.Context) ([]domain.ScrapPrice, error) { return nil, nil }

type stubBinRepo struct {
	FindByNameFn func(ctx context.Context, name string) (*domain.ScrapBin, error)
}

func (s *stubBinRepo) Save(ctx context.Context, bin *domain.ScrapBin) error { return nil }

func (s *stubBinRepo) FindByName(ctx context.Context, name string) (*domain.ScrapBin, error) {
	if s.FindByNameFn != nil {
		return s.FindByNameFn(ctx, name)
	}
	return nil, nil
}

func (s *stubBinRepo) FindAll(ctx context.Context) ([]domain.ScrapBin, error) { return nil, nil }
func (s *stubBinRepo) Delete(ctx context.Context, name string) error          { return nil }

type stubArchiveRepo struct{}

func (s *stubArchiveRepo) Save(ctx context.Context, archive *domain.ScrapArchive) error { return nil }
func (s *stubArchiveRepo) FindByID(ctx context.Context, archiveID string) (*domain.ScrapArchive, error) {
	return nil, nil
}
func (s *stubArchiveRepo) FindByDispatchRange(ctx context.Context, from, to int64) ([]domain.ScrapArchive, error) {
	return nil, nil
}
func (s *stubArchiveRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.ScrapArchive, error) {
	return nil, nil
}

type stubUserRepo struct{}

func (s *stubUserRepo) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	return nil, nil
}
func (s *stubUserRepo) FindAll(ctx context.Context) ([]domain.User, error) { return nil, nil }

type stubBreakRepo struct{}

func (s *stubBreakRepo) Save(ctx context.Context, b *domain.SystemBreak) error     { return nil }
func (s *stubBreakRepo) FindAll(ctx context.Context) ([]domain.SystemBreak, error) { return nil, nil }
func (s *stubBreakRepo) Delete(ctx context.Context, id string) error               { return nil }

func newTestLogger() *logging.Logger {
	cfg := logging.DefaultConfig("test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()
	return gin.New()
}

func newTaskService(repo domain.TaskRepository) (*application.TaskApplicationService, *logging.Logger) {
	logger := newTestLogger()
	m := metrics.New(metrics.DefaultConfig("test"))
	return application.NewTaskApplicationService(repo, m, logger), logger
}

func requestJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateTaskHandler_Success(t *testing.T) {
	router := newTestRouter()
	service, logger := newTaskService(&stubTaskRepo{})
	router.POST("/tasks", createTaskHandler(service, logger))

	resp := requestJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"partNumber":   "PN-100",
		"workplace":    "WP-01",
		"quantity":     "2,5",
		"quantityUnit": "pallet",
		"priority":     "URGENT",
		"isProduction": true,
		"createdBy":    "planner",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var task application.TaskDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if task.TaskID == "" {
		t.Fatal("expected generated task id")
	}
	if task.Priority != "URGENT" {
		t.Fatalf("unexpected priority: %q", task.Priority)
	}
}

func TestCreateTaskHandler_BadRequest(t *testing.T) {
	router := newTestRouter()
	service, logger := newTaskService(&stubTaskRepo{})
	router.POST("/tasks", createTaskHandler(service, logger))

	resp := requestJSON(t, router, http.MethodPost, "/tasks", map[string]any{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateTaskHandler_RejectsBadQuantity(t *testing.T) {
	router := newTestRouter()
	service, logger := newTaskService(&stubTaskRepo{})
	router.POST("/tasks", createTaskHandler(service, logger))

	resp := requestJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"partNumber":   "PN-100",
		"workplace":    "WP-01",
		"quantity":     "two",
		"quantityUnit": "piece",
		"createdBy":    "planner",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetTaskHandler_NotFound(t *testing.T) {
	router := newTestRouter()
	service, logger := newTaskService(&stubTaskRepo{})
	router.GET("/tasks/:taskId", getTaskHandler(service, logger))

	resp := requestJSON(t, router, http.MethodGet, "/tasks/T-404", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestTaskLifecycleHandlers(t *testing.T) {
	task := domain.NewTask("T-1", "PN-1", "WP-1", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "planner", time.Now().UnixMilli())
	repo := &stubTaskRepo{
		FindByIDFn: func(_ context.Context, _ string) (*domain.Task, error) {
			return task, nil
		},
	}
	router := newTestRouter()
	service, logger := newTaskService(repo)
	router.POST("/tasks/:taskId/start", startProgressHandler(service, logger))
	router.POST("/tasks/:taskId/complete", completeTaskHandler(service, logger))

	startResp := requestJSON(t, router, http.MethodPost, "/tasks/T-1/start", map[string]any{"userId": "worker-1"})
	if startResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", startResp.Code, startResp.Body.String())
	}

	completeResp := requestJSON(t, router, http.MethodPost, "/tasks/T-1/complete", map[string]any{"userId": "worker-1"})
	if completeResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", completeResp.Code, completeResp.Body.String())
	}

	// Completing twice is a conflict
	again := requestJSON(t, router, http.MethodPost, "/tasks/T-1/complete", map[string]any{"userId": "worker-1"})
	if again.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", again.Code)
	}
}

func TestCompleteAuditHandler_RejectsBadResult(t *testing.T) {
	router := newTestRouter()
	service, logger := newTaskService(&stubTaskRepo{})
	router.POST("/tasks/:taskId/audit/complete", completeAuditHandler(service, logger))

	resp := requestJSON(t, router, http.MethodPost, "/tasks/T-1/audit/complete", map[string]any{"result": "MAYBE"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func newAnalytics() (*application.AnalyticsService, *logging.Logger) {
	logger := newTestLogger()
	m := metrics.New(metrics.DefaultConfig("test"))
	service := application.NewAnalyticsService(
		&stubTaskRepo{}, &stubUserRepo{}, &stubBreakRepo{},
		&stubArchiveRepo{}, &stubPriceRepo{}, &stubMetalRepo{},
		time.UTC, m, logger,
	)
	return service, logger
}

func TestTaskAnalyticsHandler_DefaultsFilter(t *testing.T) {
	router := newTestRouter()
	service, logger := newAnalytics()
	router.GET("/analytics/tasks", taskAnalyticsHandler(service, logger))

	resp := requestJSON(t, router, http.MethodGet, "/analytics/tasks", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var stats application.TaskAnalyticsDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("expected empty stats, got total %d", stats.Total)
	}
}

func TestTaskAnalyticsHandler_RejectsBadMode(t *testing.T) {
	router := newTestRouter()
	service, logger := newAnalytics()
	router.GET("/analytics/tasks", taskAnalyticsHandler(service, logger))

	resp := requestJSON(t, router, http.MethodGet, "/analytics/tasks?mode=FOREVER", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestScrapAnalyticsHandler_RequiresRange(t *testing.T) {
	router := newTestRouter()
	service, logger := newAnalytics()
	router.GET("/analytics/scrap", scrapAnalyticsHandler(service, logger))

	resp := requestJSON(t, router, http.MethodGet, "/analytics/scrap", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestExportTaskReportHandler(t *testing.T) {
	router := newTestRouter()
	service, logger := newAnalytics()
	router.GET("/analytics/tasks/export", exportTaskReportHandler(service, logger))

	resp := requestJSON(t, router, http.MethodGet, "/analytics/tasks/export?mode=WEEK", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); cd == "" {
		t.Fatal("expected attachment disposition")
	}
	if body := resp.Body.Bytes(); len(body) < 2 || body[0] != 'P' || body[1] != 'K' {
		t.Fatal("expected xlsx payload")
	}
}

func newScrapService(metals *stubMetalRepo, bins *stubBinRepo) (*application.ScrapApplicationService, *logging.Logger) {
	logger := newTestLogger()
	m := metrics.New(metrics.DefaultConfig("test"))
	if metals == nil {
		metals = &stubMetalRepo{}
	}
	if bins == nil {
		bins = &stubBinRepo{}
	}
	service := application.NewScrapApplicationService(metals, &stubPriceRepo{}, bins, &stubArchiveRepo{}, m, logger)
	return service, logger
}

func TestWeighScrapHandler(t *testing.T) {
	bins := &stubBinRepo{
		FindByNameFn: func(_ context.Context, name string) (*domain.ScrapBin, error) {
			return &domain.ScrapBin{Name: name, Tara: 12.5}, nil
		},
	}
	router := newTestRouter()
	service, logger := newScrapService(nil, bins)
	router.POST("/scrap/weigh", weighScrapHandler(service, logger))

	resp := requestJSON(t, router, http.MethodPost, "/scrap/weigh", map[string]any{
		"binName": "K-1",
		"brutto":  40.0,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var weighing application.WeighingDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &weighing); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if weighing.Netto != 27.5 {
		t.Fatalf("unexpected netto: %v", weighing.Netto)
	}
}

func TestWeighScrapHandler_UnknownBin(t *testing.T) {
	router := newTestRouter()
	service, logger := newScrapService(nil, nil)
	router.POST("/scrap/weigh", weighScrapHandler(service, logger))

	resp := requestJSON(t, router, http.MethodPost, "/scrap/weigh", map[string]any{
		"binName": "missing",
		"brutto":  10.0,
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestUpsertPriceHandler_RejectsBadMonth(t *testing.T) {
	router := newTestRouter()
	service, logger := newScrapService(nil, nil)
	router.PUT("/scrap/prices", upsertPriceHandler(service, logger))

	resp := requestJSON(t, router, http.MethodPut, "/scrap/prices", map[string]any{
		"metalId": "cu",
		"month":   13,
		"year":    2026,
		"price":   6.5,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSaveBreakHandler_RejectsInvertedWindow(t *testing.T) {
	router := newTestRouter()
	logger := newTestLogger()
	service := application.NewSettingsApplicationService(&stubBreakRepo{}, &stubUserRepo{}, logger)
	router.POST("/settings/breaks", saveBreakHandler(service, logger))

	resp := requestJSON(t, router, http.MethodPost, "/settings/breaks", map[string]any{
		"name":  "lunch",
		"start": 2000,
		"end":   1000,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
