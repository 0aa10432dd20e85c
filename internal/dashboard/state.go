// Package dashboard holds the dashboard's view state and the named
// transitions that change it. It knows nothing about rendering or I/O: the
// caller performs requests and feeds their outcomes back in.
package dashboard

import (
	"slices"
	"time"

	"github.com/bekirdag/jobdesk/internal/activity"
	"github.com/bekirdag/jobdesk/internal/job"
	"github.com/bekirdag/jobdesk/internal/jobfilter"
)

// SidebarClearDelay is how long the detail panel keeps its job bound after
// closing, so the close animation never shows an empty panel.
const SidebarClearDelay = 300 * time.Millisecond

// Phase is the load state of one list.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	default:
		return "idle"
	}
}

// ListState tracks one independently loaded list.
type ListState struct {
	Phase Phase  `json:"phase"`
	Error string `json:"error,omitempty"`
}

func (l ListState) Loading() bool { return l.Phase == PhaseLoading }

// Counts summarises the full job set.
type Counts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Filtered   int `json:"filtered"`
}

// State is the complete dashboard view state.
type State struct {
	JobsList       ListState           `json:"jobsList"`
	ActivitiesList ListState           `json:"activitiesList"`
	Jobs           []job.Job           `json:"jobs"`
	Activities     []activity.Activity `json:"activities"`
	Criteria       jobfilter.Criteria  `json:"criteria"`
	SidebarOpen    bool                `json:"sidebarOpen"`
	Selected       *job.Job            `json:"selected,omitempty"`

	filtered    []job.Job
	sidebarSeq  uint64
	synthesizer *activity.Synthesizer
}

// New returns an idle state. synth is used for local activity passes after
// a status change; nil selects a randomly seeded synthesizer.
func New(synth *activity.Synthesizer) *State {
	if synth == nil {
		synth = activity.New(nil)
	}
	return &State{
		Criteria:    jobfilter.Default(),
		synthesizer: synth,
	}
}

// Synthesizer exposes the activity generator shared with the loaders.
func (s *State) Synthesizer() *activity.Synthesizer {
	return s.synthesizer
}

// FilteredJobs is the display subset. Callers must not modify it.
func (s *State) FilteredJobs() []job.Job {
	return s.filtered
}

func (s *State) Counts() Counts {
	byStatus := job.CountByStatus(s.Jobs)
	return Counts{
		Total:      len(s.Jobs),
		Pending:    byStatus[job.StatusPending],
		InProgress: byStatus[job.StatusInProgress],
		Completed:  byStatus[job.StatusCompleted],
		Filtered:   len(s.filtered),
	}
}

func (s *State) BeginJobsLoad() {
	s.JobsList = ListState{Phase: PhaseLoading}
}

// JobsLoaded stores a fresh job set, newest first, and refilters it.
func (s *State) JobsLoaded(jobs []job.Job) {
	s.Jobs = job.SortByCreatedDesc(jobs)
	s.JobsList = ListState{Phase: PhaseLoaded}
	s.refilter()
}

// JobsFailed records a fetch failure. Jobs from an earlier successful load
// stay in place.
func (s *State) JobsFailed(err error) {
	s.JobsList = ListState{Phase: PhaseErrored, Error: (&FetchError{List: ListJobs, Err: err}).Message()}
}

func (s *State) BeginActivitiesLoad() {
	s.ActivitiesList = ListState{Phase: PhaseLoading}
}

func (s *State) ActivitiesLoaded(activities []activity.Activity) {
	s.Activities = slices.Clone(activities)
	s.ActivitiesList = ListState{Phase: PhaseLoaded}
}

func (s *State) ActivitiesFailed(err error) {
	s.ActivitiesList = ListState{Phase: PhaseErrored, Error: (&FetchError{List: ListActivities, Err: err}).Message()}
}

func (s *State) SetStatusFilter(selector jobfilter.StatusSelector) {
	if selector == "" {
		selector = jobfilter.All
	}
	s.Criteria.Status = selector
	s.refilter()
}

// SetDateRange replaces both bounds. Either may be nil.
func (s *State) SetDateRange(start, end *time.Time) {
	s.Criteria.Start = cloneTime(start)
	s.Criteria.End = cloneTime(end)
	s.refilter()
}

func (s *State) ClearFilters() {
	s.Criteria = jobfilter.Default()
	s.refilter()
}

// OpenSidebar binds a copy of j to the detail panel.
func (s *State) OpenSidebar(j job.Job) {
	s.sidebarSeq++
	bound := j
	s.Selected = &bound
	s.SidebarOpen = true
}

// CloseSidebar hides the panel and returns the token to hand to
// ClearSelection once SidebarClearDelay has elapsed.
func (s *State) CloseSidebar() uint64 {
	s.sidebarSeq++
	s.SidebarOpen = false
	return s.sidebarSeq
}

// ClearSelection unbinds the selected job unless the sidebar was opened or
// closed again after the token was issued.
func (s *State) ClearSelection(token uint64) bool {
	if token != s.sidebarSeq || s.SidebarOpen {
		return false
	}
	s.Selected = nil
	return true
}

// JobDeleted drops id from both job sets and closes the sidebar. The
// returned token follows the CloseSidebar contract.
func (s *State) JobDeleted(id string) uint64 {
	s.Jobs = slices.DeleteFunc(s.Jobs, func(j job.Job) bool { return j.ID == id })
	s.filtered = slices.DeleteFunc(s.filtered, func(j job.Job) bool { return j.ID == id })
	return s.CloseSidebar()
}

// JobStatusUpdated replaces the job with updated.ID, refilters and rebuilds
// the activity feed from the updated set without a refetch. It reports
// whether a job was replaced.
func (s *State) JobStatusUpdated(updated job.Job) bool {
	idx := job.IndexByID(s.Jobs, updated.ID)
	if idx >= 0 {
		s.Jobs[idx] = updated
	}
	if s.Selected != nil && s.Selected.ID == updated.ID {
		s.Selected.Status = updated.Status
	}
	s.refilter()
	s.Activities = s.synthesizer.Synthesize(s.Jobs)
	s.ActivitiesList = ListState{Phase: PhaseLoaded}
	return idx >= 0
}

// JobByID looks a job up in the full set.
func (s *State) JobByID(id string) (job.Job, bool) {
	if idx := job.IndexByID(s.Jobs, id); idx >= 0 {
		return s.Jobs[idx], true
	}
	return job.Job{}, false
}

func (s *State) refilter() {
	s.filtered = jobfilter.Apply(s.Jobs, s.Criteria)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
