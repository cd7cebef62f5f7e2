package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasktracker/internal/config"
	"tasktracker/internal/domain"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repository.NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(store.Close)

	cfg := &config.Config{
		AppVersion:    "test",
		EnableMetrics: true,
		MaxListLimit:  1000,
		APIRateLimit:  1000,
		APIRateWindow: 60,
	}

	r := gin.New()
	RegisterRoutes(r, service.NewTaskServiceWithLimit(store, cfg.MaxListLimit), cfg)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) domain.Task {
	t.Helper()

	var task domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode task: %v (body %s)", err, w.Body.String())
	}
	return task
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	r := setupTestRouter(t)

	// create
	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]string{"title": "Buy milk"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	created := decodeTask(t, w)
	if created.Completed {
		t.Fatalf("expected new task to be active")
	}
	if created.Description != "" {
		t.Fatalf("expected empty description, got %q", created.Description)
	}

	// complete
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d", created.ID), map[string]bool{"completed": true})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	updated := decodeTask(t, w)
	if !updated.Completed {
		t.Fatalf("expected completed task")
	}
	if updated.Title != "Buy milk" {
		t.Fatalf("title changed by completion patch: %q", updated.Title)
	}

	// delete
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	// gone
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestCreateTask_EmptyTitleRejected(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]string{"title": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/tasks/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListTasks_Pagination(t *testing.T) {
	r := setupTestRouter(t)

	for _, title := range []string{"A", "B", "C"} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]string{"title": title})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %s: got %d", title, w.Code)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/tasks?skip=0&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var page struct {
		Tasks []domain.Task `json:"tasks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Tasks) != 2 || page.Tasks[0].Title != "A" || page.Tasks[1].Title != "B" {
		t.Fatalf("expected [A B], got %+v", page.Tasks)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks?skip=2&limit=2", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Tasks) != 1 || page.Tasks[0].Title != "C" {
		t.Fatalf("expected [C], got %+v", page.Tasks)
	}
}

func TestListTasks_BadPagination(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{
		"/api/v1/tasks?skip=-1",
		"/api/v1/tasks?limit=0",
		"/api/v1/tasks?limit=abc",
	} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestSummaryEndpoint(t *testing.T) {
	r := setupTestRouter(t)

	var ids []int64
	for i := 0; i < 4; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]string{"title": "task"})
		ids = append(ids, decodeTask(t, w).ID)
	}
	doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d", ids[0]), map[string]bool{"completed": true})

	w := doJSON(t, r, http.MethodGet, "/api/v1/tasks/stats/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var summary domain.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Total != 4 || summary.Completed != 1 || summary.Active != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

// The summary route lives under /tasks next to the :id wildcard; both must
// resolve from one engine.
func TestSummaryRouteCoexistsWithTaskByID(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]string{"title": "task"})
	created := decodeTask(t, w)

	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks/stats/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get by id: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupTestRouter(t)

	// generate some traffic first
	doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]string{"title": "task"})

	w := doJSON(t, r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "task_operations_total") {
		t.Fatalf("expected Prometheus exposition with task_operations_total, got %q", w.Body.String())
	}
}

func TestMetricsEndpointDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store, err := repository.NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(store.Close)

	cfg := &config.Config{AppVersion: "test", MaxListLimit: 1000, APIRateLimit: 1000, APIRateWindow: 60}
	r := gin.New()
	RegisterRoutes(r, service.NewTaskServiceWithLimit(store, cfg.MaxListLimit), cfg)

	w := doJSON(t, r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with metrics disabled, got %d", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", path, w.Code, w.Body.String())
		}
	}
}
