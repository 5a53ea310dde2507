package batch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"azmlclient/transport"
)

const apiVersion = "api-version=2.0"

// DefaultPollInterval is how often a job's status is checked when the caller
// does not choose an interval.
const DefaultPollInterval = 5 * time.Second

// Lifecycle runs batch jobs against one service endpoint.
type Lifecycle struct {
	caller       *transport.Caller
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewLifecycle builds a lifecycle over an already configured caller. baseURL
// is the service endpoint without the /jobs suffix.
func NewLifecycle(caller *transport.Caller, baseURL, apiKey string, pollInterval time.Duration, logger *slog.Logger) *Lifecycle {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{
		caller:       caller,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Create submits the job request body and returns the new job id. Some
// service versions return the id as a JSON string literal.
func (l *Lifecycle) Create(ctx context.Context, body string) (string, error) {
	resp, err := l.caller.Call(ctx, http.MethodPost, l.baseURL+"/jobs?"+apiVersion, l.apiKey, body)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(resp)
	if strings.HasPrefix(id, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(id), &unquoted); err == nil {
			id = unquoted
		}
	}
	return id, nil
}

// Start asks the service to begin executing a created job.
func (l *Lifecycle) Start(ctx context.Context, jobID string) error {
	_, err := l.caller.Call(ctx, http.MethodPost, l.baseURL+"/jobs/"+jobID+"/start?"+apiVersion, l.apiKey, "")
	return err
}

// PollOnce fetches and parses the job's current status.
func (l *Lifecycle) PollOnce(ctx context.Context, jobID string) (Snapshot, error) {
	resp, err := l.caller.Call(ctx, http.MethodGet, l.baseURL+"/jobs/"+jobID+"?"+apiVersion, l.apiKey, "")
	if err != nil {
		return Snapshot{}, err
	}
	return ParseSnapshot(resp)
}

// Delete removes a job from the service.
func (l *Lifecycle) Delete(ctx context.Context, jobID string) error {
	_, err := l.caller.Call(ctx, http.MethodDelete, l.baseURL+"/jobs/"+jobID+"?"+apiVersion, l.apiKey, "")
	return err
}

// Run submits the job, starts it and polls until results are available, then
// returns the raw per-output results. The job is always deleted afterwards,
// even when creation succeeded but a later step failed; a failed delete is
// logged and never masks the run's own error.
func (l *Lifecycle) Run(ctx context.Context, body string) (map[string]json.RawMessage, error) {
	jobID, err := l.Create(ctx, body)
	if err != nil {
		return nil, err
	}
	defer func() {
		if derr := l.Delete(context.Background(), jobID); derr != nil {
			l.logger.Warn("failed to delete batch job", "job_id", jobID, "error", derr)
		}
	}()

	l.logger.Debug("batch job created", "job_id", jobID)
	if err := l.Start(ctx, jobID); err != nil {
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollInterval):
		}
		snap, err := l.PollOnce(ctx, jobID)
		if err != nil {
			return nil, err
		}
		outcome, err := Classify(jobID, snap)
		if err != nil {
			return nil, err
		}
		if outcome == Succeeded {
			l.logger.Debug("batch job finished", "job_id", jobID, "status", snap.StatusCode)
			return snap.Results, nil
		}
		l.logger.Debug("batch job still running", "job_id", jobID, "status", snap.StatusCode)
	}
}
