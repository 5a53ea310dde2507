package batch

import "fmt"

// MalformedJobStatusError reports a job status payload the service returned
// that cannot be interpreted.
type MalformedJobStatusError struct {
	Body string
}

func (e *MalformedJobStatusError) Error() string {
	return fmt.Sprintf("malformed job status payload: %s", e.Body)
}

// IllegalJobStateError reports a job state in which the outcome cannot be
// read, either because the job was cancelled or the state is unknown.
type IllegalJobStateError struct {
	JobID  string
	State  string
	Reason string
}

func (e *IllegalJobStateError) Error() string {
	return fmt.Sprintf("job %s is in state %q: %s", e.JobID, e.State, e.Reason)
}

// JobExecutionError reports a job the service ran and failed, carrying the
// diagnostic details the service attached.
type JobExecutionError struct {
	JobID   string
	Details string
}

func (e *JobExecutionError) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Details)
}
