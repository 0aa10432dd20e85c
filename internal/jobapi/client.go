// Package jobapi talks to the backend job resource. It shapes requests and
// classifies failures; it holds no business logic.
package jobapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bekirdag/jobdesk/internal/job"
)

// Repository is the set of backend operations the dashboard relies on.
type Repository interface {
	List(ctx context.Context) ([]job.Job, error)
	Remove(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status job.Status) (job.Job, error)
}

const maxErrorBody = 512

// Client is an HTTP Repository. It performs exactly one request per call:
// no retries and no timeout beyond what the caller's context imposes.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a client rooted at baseURL, e.g. http://localhost:3000.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("jobapi: base URL is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("jobapi: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("jobapi: base URL %q must be http or https", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List fetches the full job set.
func (c *Client) List(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	if err := c.do(ctx, http.MethodGet, "jobs", nil, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	return jobs, nil
}

// Remove deletes one job. Deleting an id the backend does not know is an
// error, not a no-op.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "jobs/"+url.PathEscape(id), nil, nil)
}

type statusPatch struct {
	Status job.Status `json:"status"`
}

// SetStatus changes a job's status and returns the backend's copy.
func (c *Client) SetStatus(ctx context.Context, id string, status job.Status) (job.Job, error) {
	var updated job.Job
	if err := c.do(ctx, http.MethodPatch, "jobs/"+url.PathEscape(id), statusPatch{Status: status}, &updated); err != nil {
		return job.Job{}, err
	}
	return updated, nil
}

// endpoint joins an already-escaped path onto the base URL.
func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + "/" + path
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	target := c.endpoint(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("jobapi: encode %s body: %w", method, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("jobapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("jobapi request failed", "method", method, "url", target, "error", err)
		return &NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("jobapi request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &DecodeError{Method: method, URL: target, Err: errors.New("empty body")}
		}
		return &DecodeError{Method: method, URL: target, Err: err}
	}
	return nil
}
