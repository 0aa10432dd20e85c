package jobapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/jobdesk/internal/job"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL+"/", WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:3000/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", c.BaseURL())
	assert.Equal(t, "http://localhost:3000/api/jobs", c.endpoint("jobs"))
}

func TestListJobs(t *testing.T) {
	var gotMethod, gotPath, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotAccept = r.Method, r.URL.Path, r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"1","sku":"SKU-1","status":"pending","assignedUser":"ana","createAt":"2024-01-01T10:00:00Z","details":"pick"},
			{"id":"2","sku":"SKU-2","status":"completed","assignedUser":"bo","createAt":"2024-01-02T10:00:00Z","details":""}
		]`)
	})

	jobs, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/jobs", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	require.Len(t, jobs, 2)
	assert.Equal(t, job.Job{ID: "1", SKU: "SKU-1", Status: job.StatusPending, AssignedUser: "ana", CreateAt: "2024-01-01T10:00:00Z", Details: "pick"}, jobs[0])
	assert.Equal(t, job.StatusCompleted, jobs[1].Status)
}

func TestListJobsNullBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})
	jobs, err := client.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestListJobsHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := client.List(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "boom", httpErr.Body)
	assert.Contains(t, err.Error(), "500")
}

func TestListJobsDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"}`)
	})
	_, err := client.List(context.Background())
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestListJobsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(url)
	require.NoError(t, err)
	_, err = client.List(context.Background())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.MethodGet, netErr.Method)
}

func TestListJobsHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.List(ctx)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemove(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, client.Remove(context.Background(), "job 7"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/jobs/job%207", gotPath)
}

func TestRemoveMissingIsAnError(t *testing.T) {
	deleted := map[string]bool{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/jobs/"):]
		if deleted[id] {
			http.NotFound(w, r)
			return
		}
		deleted[id] = true
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{}`)
	})
	require.NoError(t, client.Remove(context.Background(), "5"))
	err := client.Remove(context.Background(), "5")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSetStatus(t *testing.T) {
	var (
		gotMethod, gotPath, gotContentType string
		gotBody                            map[string]string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotContentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"id":"3","sku":"SKU-3","status":"completed","assignedUser":"cy","createAt":"2024-01-03T00:00:00Z","details":"server copy"}`)
	})

	updated, err := client.SetStatus(context.Background(), "3", job.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/jobs/3", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]string{"status": "completed"}, gotBody)
	assert.Equal(t, job.StatusCompleted, updated.Status)
	assert.Equal(t, "server copy", updated.Details)
}

func TestSetStatusEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	_, err := client.SetStatus(context.Background(), "3", job.StatusPending)
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestClientSatisfiesRepository(t *testing.T) {
	var _ Repository = (*Client)(nil)
}
