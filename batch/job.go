// Package batch drives the job lifecycle of batch executions: submit, start,
// poll until a terminal state, fetch results and delete the job.
package batch

import (
	"bytes"
	"encoding/json"
)

// Snapshot is one observation of a job's status. StatusCode is normalized to
// its string form; the service reports it either as a number or as a name.
// Details is nil when the field is absent from the payload, which matters
// for failed jobs.
type Snapshot struct {
	StatusCode string
	Details    *string
	Results    map[string]json.RawMessage
}

type rawSnapshot struct {
	StatusCode *json.RawMessage           `json:"StatusCode"`
	Details    *string                    `json:"Details"`
	Results    map[string]json.RawMessage `json:"Results"`
}

// ParseSnapshot decodes a job status payload. A missing StatusCode field
// makes the payload malformed; Results may be absent or null.
func ParseSnapshot(body string) (Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal([]byte(body), &raw); err != nil || raw.StatusCode == nil {
		return Snapshot{}, &MalformedJobStatusError{Body: body}
	}
	code := bytes.TrimSpace(*raw.StatusCode)
	var status string
	if len(code) > 0 && code[0] == '"' {
		if err := json.Unmarshal(code, &status); err != nil {
			return Snapshot{}, &MalformedJobStatusError{Body: body}
		}
	} else {
		status = string(code)
	}
	return Snapshot{StatusCode: status, Details: raw.Details, Results: raw.Results}, nil
}

// Outcome is what one poll of a job concluded.
type Outcome int

const (
	// Continue means the job has not produced results yet, keep polling.
	Continue Outcome = iota
	// Succeeded means results are available.
	Succeeded
)

// Classify maps a snapshot to an outcome. Cancelled and unknown states are
// illegal to read results from; a failed job surfaces its details. Any
// non-terminal or finished state succeeds as soon as results are present.
func Classify(jobID string, s Snapshot) (Outcome, error) {
	switch s.StatusCode {
	case "3", "Cancelled":
		return Continue, &IllegalJobStateError{JobID: jobID, State: s.StatusCode, Reason: "cannot read the outcome of a cancelled job"}
	case "2", "Failed":
		if s.Details == nil {
			return Continue, &MalformedJobStatusError{Body: "failed job status carries no Details field"}
		}
		return Continue, &JobExecutionError{JobID: jobID, Details: *s.Details}
	case "0", "NotStarted", "1", "Running", "4", "Finished":
		if s.Results != nil {
			return Succeeded, nil
		}
		return Continue, nil
	default:
		return Continue, &IllegalJobStateError{JobID: jobID, State: s.StatusCode, Reason: "unknown job state"}
	}
}
