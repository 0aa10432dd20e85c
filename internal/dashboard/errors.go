package dashboard

import "fmt"

// List names one of the independently loaded lists.
type List string

const (
	ListJobs       List = "jobs"
	ListActivities List = "activities"
)

// FetchError is a failed initial load of one list.
type FetchError struct {
	List List
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load %s: %v", e.List, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Message is the inline text shown in the list's error slot.
func (e *FetchError) Message() string {
	return fmt.Sprintf("Failed to load %s", e.List)
}

// Operation names a mutating request.
type Operation string

const (
	OpDelete    Operation = "delete"
	OpSetStatus Operation = "set-status"
)

// MutationError is a failed delete or status update.
type MutationError struct {
	Op    Operation
	JobID string
	Err   error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s job %s: %v", e.Op, e.JobID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Message is the text of the blocking notification.
func (e *MutationError) Message() string {
	switch e.Op {
	case OpDelete:
		return "Failed to delete job. Please try again."
	default:
		return "Failed to update job status. Please try again."
	}
}
