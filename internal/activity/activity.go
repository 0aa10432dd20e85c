// Package activity derives the "recent activity" feed from the current job
// set. Nothing is persisted; the feed is rebuilt on every pass.
package activity

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/bekirdag/jobdesk/internal/job"
)

// Type classifies an activity entry.
type Type string

const (
	TypeJobCreated       Type = "job_created"
	TypeJobStarted       Type = "job_started"
	TypeJobCompleted     Type = "job_completed"
	TypeWarehouseCreated Type = "warehouse_created"
	TypeWarehouseUpdated Type = "warehouse_updated"
)

// Activity is one human-readable event in the feed. JobID is a lookup key
// only.
type Activity struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	JobID       string    `json:"jobId,omitempty"`
}

const (
	// RecentJobs is how many of the newest jobs contribute entries.
	RecentJobs = 3
	// MaxActivities caps the feed length.
	MaxActivities = 10

	completionWindow = 24 * time.Hour
	startWindow      = 12 * time.Hour
)

// RandomSource yields values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Synthesizer builds the feed. The completion and start timestamps are
// offset from the creation time by a random fraction of their window.
type Synthesizer struct {
	rnd RandomSource

	// LegacyStartedType types the "started" entry as job_created instead of
	// job_started, for consumers that only know the older type set.
	LegacyStartedType bool
}

// New returns a Synthesizer drawing from rnd, or from a time-seeded
// generator when rnd is nil.
func New(rnd RandomSource) *Synthesizer {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>17|1))
	}
	return &Synthesizer{rnd: rnd}
}

// Synthesize returns at most MaxActivities entries, newest first. jobs is
// not modified.
func (s *Synthesizer) Synthesize(jobs []job.Job) []Activity {
	recent := job.SortByCreatedDesc(jobs)
	if len(recent) > RecentJobs {
		recent = recent[:RecentJobs]
	}

	activities := make([]Activity, 0, len(recent)*2)
	for i, j := range recent {
		created, ok := j.CreatedTime()
		if !ok {
			continue
		}
		activities = append(activities, Activity{
			ID:          fmt.Sprintf("activity-created-%s-%d", j.ID, i),
			Type:        TypeJobCreated,
			Description: fmt.Sprintf("Job created: %s assigned to %s", j.SKU, j.AssignedUser),
			Timestamp:   created,
			JobID:       j.ID,
		})

		switch j.Status {
		case job.StatusCompleted:
			activities = append(activities, Activity{
				ID:          fmt.Sprintf("activity-completed-%s-%d", j.ID, i),
				Type:        TypeJobCompleted,
				Description: fmt.Sprintf("Job completed: %s by %s", j.SKU, j.AssignedUser),
				Timestamp:   created.Add(s.offset(completionWindow)),
				JobID:       j.ID,
			})
		case job.StatusInProgress:
			startedType := TypeJobStarted
			if s.LegacyStartedType {
				startedType = TypeJobCreated
			}
			activities = append(activities, Activity{
				ID:          fmt.Sprintf("activity-progress-%s-%d", j.ID, i),
				Type:        startedType,
				Description: fmt.Sprintf("Job started: %s being worked on by %s", j.SKU, j.AssignedUser),
				Timestamp:   created.Add(s.offset(startWindow)),
				JobID:       j.ID,
			})
		}
	}

	slices.SortStableFunc(activities, func(a, b Activity) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(activities) > MaxActivities {
		activities = activities[:MaxActivities]
	}
	return activities
}

func (s *Synthesizer) offset(window time.Duration) time.Duration {
	f := s.rnd.Float64()
	if f < 0 {
		f = 0
	}
	if f >= 1 {
		f = 0.999999999
	}
	return time.Duration(f * float64(window))
}
