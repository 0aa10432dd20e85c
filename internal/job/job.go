package job

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a warehouse job as reported by the backend.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inProgress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every known status in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts the wire value as well as a few spellings a human
// would type on the command line ("in-progress", "In Progress").
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	switch normalized {
	case "pending":
		return StatusPending, nil
	case "inprogress":
		return StatusInProgress, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown job status %q", value)
}

// Job is one unit of warehouse work.
type Job struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Status       Status `json:"status"`
	AssignedUser string `json:"assignedUser"`
	CreateAt     string `json:"createAt"`
	Details      string `json:"details"`
}

type timestampLayout struct {
	layout string
	local  bool
}

// Zone-less date-times read as local time while bare dates read as UTC,
// the same rules a browser Date applies to these strings.
var createdLayouts = []timestampLayout{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05.999999999", local: true},
	{layout: "2006-01-02 15:04:05", local: true},
	{layout: "2006-01-02"},
}

// CreatedTime parses CreateAt. ok is false when the value is empty or not a
// recognisable ISO-8601 timestamp.
func (j Job) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(j.CreateAt)
}

// ParseTimestamp parses an ISO-8601 timestamp.
func ParseTimestamp(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, candidate := range createdLayouts {
		var (
			ts  time.Time
			err error
		)
		if candidate.local {
			ts, err = time.ParseInLocation(candidate.layout, trimmed, time.Local)
		} else {
			ts, err = time.Parse(candidate.layout, trimmed)
		}
		if err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t in the wire format used for CreateAt.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
