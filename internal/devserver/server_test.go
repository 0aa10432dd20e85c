package devserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/jobdesk/internal/job"
	"github.com/bekirdag/jobdesk/internal/jobapi"
)

type testServer struct {
	store   *Store
	metrics *Metrics
	router  *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newTestStore(t)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	router := NewRouter(NewHandler(store, metrics, nil), reg)
	return &testServer{store: store, metrics: metrics, router: router}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seed(t *testing.T, j job.Job) {
	t.Helper()
	_, err := s.store.Create(context.Background(), j)
	require.NoError(t, err)
}

func TestListJobsHandler(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	srv.seed(t, job.Job{ID: "1", SKU: "SKU-1", Status: job.StatusPending, AssignedUser: "ana", CreateAt: "2024-01-01T10:00:00.000Z", Details: "d"})
	w = srv.do(t, http.MethodGet, "/jobs", "")
	assert.JSONEq(t, `[{"id":"1","sku":"SKU-1","status":"pending","assignedUser":"ana","createAt":"2024-01-01T10:00:00.000Z","details":"d"}]`, w.Body.String())
}

func TestCreateJobHandler(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/jobs", `{"sku":"SKU-9","assignedUser":"bo"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created job.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, job.StatusPending, created.Status)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/jobs", `{"assignedUser":"bo"}`).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/jobs", `{"sku":"x","status":"lost"}`).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/jobs", `{"sku":"x","createAt":"yesterday"}`).Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.mutationsTotal.WithLabelValues("create", "pending")))
}

func TestGetJobHandler(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, job.Job{ID: "1", SKU: "SKU-1"})

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/jobs/1", "").Code)
	w := srv.do(t, http.MethodGet, "/jobs/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"job not found"}`, w.Body.String())
}

func TestUpdateStatusHandler(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, job.Job{ID: "1", SKU: "SKU-1", Status: job.StatusPending})

	w := srv.do(t, http.MethodPatch, "/jobs/1", `{"status":"inProgress"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated job.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, job.StatusInProgress, updated.Status)
	assert.Equal(t, "SKU-1", updated.SKU)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPatch, "/jobs/1", `{"status":"archived"}`).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPatch, "/jobs/1", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodPatch, "/jobs/2", `{"status":"completed"}`).Code)
}

func TestDeleteJobHandler(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, job.Job{ID: "1", SKU: "SKU-1"})

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, "/jobs/1", "").Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, "/jobs/1", "").Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.mutationsTotal.WithLabelValues("delete", "")))
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, job.Job{ID: "1", SKU: "SKU-1", Status: job.StatusCompleted})

	w := srv.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","jobs":{"completed":1}}`, w.Body.String())

	srv.do(t, http.MethodGet, "/nowhere", "")
	w = srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `jobsd_http_requests_total{code="200",method="GET",route="/healthz"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
}

func TestClientAgainstServer(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, job.Job{ID: "a", SKU: "SKU-A", Status: job.StatusPending, CreateAt: "2024-01-01T00:00:00.000Z"})
	srv.seed(t, job.Job{ID: "b", SKU: "SKU-B", Status: job.StatusPending, CreateAt: "2024-01-02T00:00:00.000Z"})

	httpSrv := httptest.NewServer(srv.router)
	t.Cleanup(httpSrv.Close)
	client, err := jobapi.NewClient(httpSrv.URL, jobapi.WithHTTPClient(httpSrv.Client()))
	require.NoError(t, err)
	ctx := context.Background()

	updated, err := client.SetStatus(ctx, "a", job.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, updated.Status)

	require.NoError(t, client.Remove(ctx, "b"))
	err = client.Remove(ctx, "b")
	assert.True(t, jobapi.IsNotFound(err))

	jobs, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, job.StatusCompleted, jobs[0].Status)
}
