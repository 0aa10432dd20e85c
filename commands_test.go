package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/jobdesk/internal/devserver"
	"github.com/bekirdag/jobdesk/internal/job"
	"github.com/bekirdag/jobdesk/internal/jobapi"
)

func newTestBackend(t *testing.T) (string, *devserver.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := devserver.OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	for _, j := range sampleJobs() {
		_, err := store.Create(ctx, j)
		require.NoError(t, err)
	}

	reg := prometheus.NewRegistry()
	handler := devserver.NewHandler(store, devserver.NewMetrics(reg), slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(devserver.NewRouter(handler, reg))
	t.Cleanup(srv.Close)
	return srv.URL, store
}

func runApp(t *testing.T, apiURL, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"JOBDESK_API_URL", "JOBDESK_THEME", "JOBDESK_LOG_LEVEL", "JOBDESK_LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)

	argv := []string{"jobdesk", "--config", filepath.Join(t.TempDir(), "config.yaml"), "--api-url", apiURL}
	err := app.Run(context.Background(), append(argv, args...))
	return out.String(), err
}

func TestJobsListNewestFirst(t *testing.T) {
	url, _ := newTestBackend(t)

	out, err := runApp(t, url, "", "jobs", "list")
	require.NoError(t, err)
	first, second := strings.Index(out, "WH-2"), strings.Index(out, "WH-1")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Contains(t, out, "2 of 2 jobs")
}

func TestJobsListFilters(t *testing.T) {
	url, _ := newTestBackend(t)

	out, err := runApp(t, url, "", "jobs", "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "WH-2")
	assert.NotContains(t, out, "WH-1")
	assert.Contains(t, out, "1 of 2 jobs")

	out, err = runApp(t, url, "", "jobs", "list", "--from", "2030-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "No jobs match the current filters.")

	_, err = runApp(t, url, "", "jobs", "list", "--status", "archived")
	assert.Error(t, err)
	_, err = runApp(t, url, "", "jobs", "list", "--to", "yesterday")
	assert.Error(t, err)
}

func TestJobsSetStatus(t *testing.T) {
	url, store := newTestBackend(t)

	out, err := runApp(t, url, "", "jobs", "set-status", "1", "in-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")

	stored, err := store.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, job.StatusInProgress, stored.Status)

	_, err = runApp(t, url, "", "jobs", "set-status", "1")
	assert.Error(t, err)
	_, err = runApp(t, url, "", "jobs", "set-status", "1", "lost")
	assert.Error(t, err)
}

func TestJobsDeleteConfirmation(t *testing.T) {
	url, store := newTestBackend(t)
	ctx := context.Background()

	out, err := runApp(t, url, "n\n", "jobs", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete job 1?")
	assert.Contains(t, out, "Aborted.")
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out, err = runApp(t, url, "y\n", "jobs", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted job 1")

	out, err = runApp(t, url, "", "jobs", "delete", "--yes", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobsDeleteMissing(t *testing.T) {
	url, _ := newTestBackend(t)

	_, err := runApp(t, url, "", "jobs", "delete", "--yes", "missing")
	require.Error(t, err)
	assert.True(t, jobapi.IsNotFound(err))
}

func TestActivityCommand(t *testing.T) {
	url, _ := newTestBackend(t)

	out, err := runApp(t, url, "", "activity")
	require.NoError(t, err)
	assert.Contains(t, out, "WH-2")
	assert.Contains(t, out, "job_completed")
}

func TestInvalidAPIURL(t *testing.T) {
	_, err := runApp(t, "localhost:3000", "", "jobs", "list")
	assert.Error(t, err)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Proceed?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Proceed? [y/N]: ", out.String())
	}
}
