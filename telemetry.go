package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	eventSessionStarted   = "session_started"
	eventJobOpened        = "job_opened"
	eventJobStatusChanged = "job_status_changed"
	eventJobDeleted       = "job_deleted"
	eventFiltersChanged   = "filters_changed"
)

// telemetryEvent is one line of the dashboard audit trail.
type telemetryEvent struct {
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	JobID     string            `json:"job_id,omitempty"`
	SKU       string            `json:"sku,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// telemetryLogger appends events as JSON lines. A nil logger drops them.
type telemetryLogger struct {
	path      string
	sessionID string
	userID    string
	mu        sync.Mutex
}

func newTelemetryLogger(path, sessionID, userID string) *telemetryLogger {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	return &telemetryLogger{
		path:      path,
		sessionID: strings.TrimSpace(sessionID),
		userID:    strings.TrimSpace(userID),
	}
}

func (t *telemetryLogger) Emit(event telemetryEvent) {
	if t == nil || strings.TrimSpace(event.Event) == "" {
		return
	}
	if event.SessionID == "" {
		event.SessionID = t.sessionID
	}
	if strings.TrimSpace(event.UserID) == "" {
		event.UserID = t.userID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if len(event.Extra) == 0 {
		event.Extra = nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(data)
}

func newTelemetrySessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("%x", time.Now().UnixNano())
}

func resolveTelemetryUserID() string {
	for _, candidate := range []string{
		os.Getenv("JOBDESK_USER"),
		os.Getenv("USER"),
		os.Getenv("USERNAME"),
	} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
