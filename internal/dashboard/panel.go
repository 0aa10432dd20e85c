package dashboard

import (
	"fmt"

	"github.com/bekirdag/jobdesk/internal/job"
)

// Commands are what the panel asks its host to execute.
type (
	// ConfirmPrompt asks the user to approve a destructive action.
	ConfirmPrompt struct {
		JobID string
		Text  string
	}
	// DeleteCommand asks the host to issue the delete request.
	DeleteCommand struct {
		ID string
	}
	// StatusCommand asks the host to issue the status update request.
	StatusCommand struct {
		ID     string
		Status job.Status
	}
)

// Event is what the panel reports upward after a command completes.
type Event interface {
	isPanelEvent()
}

type (
	JobDeletedEvent struct {
		ID string
	}
	JobStatusUpdatedEvent struct {
		Job job.Job
	}
	CloseEvent struct{}
	// ErrorEvent must be shown as a blocking notification.
	ErrorEvent struct {
		Err *MutationError
	}
)

func (JobDeletedEvent) isPanelEvent()       {}
func (JobStatusUpdatedEvent) isPanelEvent() {}
func (CloseEvent) isPanelEvent()            {}
func (ErrorEvent) isPanelEvent()            {}

// Message is the user-facing text of the failure.
func (e ErrorEvent) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Message()
}

// Panel is the detail/edit panel for one job. It never assumes a request
// succeeded: the bound job only changes when a result reports success.
type Panel struct {
	job        *job.Job
	confirming bool
}

// Bind shows j in the panel. A nil job empties it.
func (p *Panel) Bind(j *job.Job) {
	p.confirming = false
	if j == nil {
		p.job = nil
		return
	}
	bound := *j
	p.job = &bound
}

// Job returns the bound job.
func (p *Panel) Job() (job.Job, bool) {
	if p.job == nil {
		return job.Job{}, false
	}
	return *p.job, true
}

// Confirming reports whether a delete confirmation is pending.
func (p *Panel) Confirming() bool {
	return p.confirming
}

// RequestDelete starts the delete flow.
func (p *Panel) RequestDelete() (ConfirmPrompt, bool) {
	if p.job == nil {
		return ConfirmPrompt{}, false
	}
	p.confirming = true
	return ConfirmPrompt{
		JobID: p.job.ID,
		Text:  fmt.Sprintf("Are you sure you want to delete job %s?", p.job.SKU),
	}, true
}

// ConfirmDelete resolves the pending prompt.
func (p *Panel) ConfirmDelete(confirmed bool) (DeleteCommand, bool) {
	wasConfirming := p.confirming
	p.confirming = false
	if !wasConfirming || !confirmed || p.job == nil {
		return DeleteCommand{}, false
	}
	return DeleteCommand{ID: p.job.ID}, true
}

// DeleteResult turns the outcome of a delete request into events.
func (p *Panel) DeleteResult(id string, err error) []Event {
	if err != nil {
		return []Event{ErrorEvent{Err: &MutationError{Op: OpDelete, JobID: id, Err: err}}}
	}
	return []Event{JobDeletedEvent{ID: id}, CloseEvent{}}
}

// RequestStatus asks for a status change. Selecting the current status is
// a no-op.
func (p *Panel) RequestStatus(status job.Status) (StatusCommand, bool) {
	if p.job == nil || p.job.Status == status {
		return StatusCommand{}, false
	}
	return StatusCommand{ID: p.job.ID, Status: status}, true
}

// StatusResult turns the outcome of a status request into events. On
// success the bound job takes the server's status.
func (p *Panel) StatusResult(id string, updated job.Job, err error) []Event {
	if err != nil {
		return []Event{ErrorEvent{Err: &MutationError{Op: OpSetStatus, JobID: id, Err: err}}}
	}
	if p.job != nil && p.job.ID == updated.ID {
		p.job.Status = updated.Status
	}
	return []Event{JobStatusUpdatedEvent{Job: updated}}
}

// Close asks the host to close the panel.
func (p *Panel) Close() []Event {
	p.confirming = false
	return []Event{CloseEvent{}}
}

// CopyID returns the bound job id for the clipboard.
func (p *Panel) CopyID() (string, bool) {
	if p.job == nil {
		return "", false
	}
	return p.job.ID, true
}
