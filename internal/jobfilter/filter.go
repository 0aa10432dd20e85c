// Package jobfilter narrows a job set to the subset shown on the dashboard.
package jobfilter

import (
	"fmt"
	"strings"
	"time"

	"github.com/bekirdag/jobdesk/internal/job"
)

// StatusSelector is either All or one of the job statuses.
type StatusSelector string

// All disables status filtering.
const All StatusSelector = "all"

// Select returns the selector matching status.
func Select(status job.Status) StatusSelector {
	return StatusSelector(status)
}

func (s StatusSelector) String() string {
	if s == "" {
		return string(All)
	}
	return string(s)
}

// Matches reports whether a job with status passes the selector.
func (s StatusSelector) Matches(status job.Status) bool {
	if s == All || s == "" {
		return true
	}
	return job.Status(s) == status
}

// Next cycles All → pending → inProgress → completed → All.
func (s StatusSelector) Next() StatusSelector {
	switch s {
	case All, "":
		return Select(job.StatusPending)
	case Select(job.StatusPending):
		return Select(job.StatusInProgress)
	case Select(job.StatusInProgress):
		return Select(job.StatusCompleted)
	default:
		return All
	}
}

// ParseSelector accepts "all" (or empty) and anything job.ParseStatus accepts.
func ParseSelector(value string) (StatusSelector, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, string(All)) {
		return All, nil
	}
	status, err := job.ParseStatus(trimmed)
	if err != nil {
		return "", err
	}
	return Select(status), nil
}

// Option describes one entry of the status filter control.
type Option struct {
	Value StatusSelector
	Label string
	Icon  string
}

// Options lists the status filter choices in display order.
func Options() []Option {
	options := []Option{{Value: All, Label: "All Jobs", Icon: "list"}}
	for _, status := range job.Statuses() {
		p := job.PresentationFor(status)
		options = append(options, Option{Value: Select(status), Label: p.Label, Icon: p.Icon})
	}
	return options
}

// Criteria is the status selector plus an optional inclusive date range.
// Start and End are calendar days; their time of day is ignored.
type Criteria struct {
	Status StatusSelector
	Start  *time.Time
	End    *time.Time
}

// Default returns criteria that keep every job.
func Default() Criteria {
	return Criteria{Status: All}
}

// IsZero reports whether c filters nothing out.
func (c Criteria) IsZero() bool {
	return (c.Status == All || c.Status == "") && c.Start == nil && c.End == nil
}

func (c Criteria) String() string {
	parts := []string{"status=" + c.Status.String()}
	if c.Start != nil {
		parts = append(parts, "from="+c.Start.Format(DateLayout))
	}
	if c.End != nil {
		parts = append(parts, "to="+c.End.Format(DateLayout))
	}
	return strings.Join(parts, " ")
}

// Apply returns the subsequence of jobs matching c. The input is not
// modified and the relative order is preserved.
func Apply(jobs []job.Job, c Criteria) []job.Job {
	lower, upper := c.bounds()
	filtered := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if !c.Status.Matches(j.Status) {
			continue
		}
		if !inRange(j, lower, upper) {
			continue
		}
		filtered = append(filtered, j)
	}
	return filtered
}

// Match reports whether a single job passes c.
func Match(j job.Job, c Criteria) bool {
	lower, upper := c.bounds()
	return c.Status.Matches(j.Status) && inRange(j, lower, upper)
}

func (c Criteria) bounds() (lower, upper *time.Time) {
	if c.Start != nil {
		start := StartOfDay(*c.Start)
		lower = &start
	}
	if c.End != nil {
		end := EndOfDay(*c.End)
		upper = &end
	}
	return lower, upper
}

func inRange(j job.Job, lower, upper *time.Time) bool {
	if lower == nil && upper == nil {
		return true
	}
	created, ok := j.CreatedTime()
	if !ok {
		return false
	}
	if lower != nil && created.Before(*lower) {
		return false
	}
	if upper != nil && created.After(*upper) {
		return false
	}
	return true
}

// StartOfDay is midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is 23:59:59 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// DateLayout is the input format for date bounds.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD bound in loc. Empty input yields nil.
func ParseDate(value string, loc *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, trimmed, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", trimmed, err)
	}
	return &t, nil
}
