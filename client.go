package azmlclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"azmlclient/batch"
	"azmlclient/blob"
	"azmlclient/table"
	"azmlclient/transport"
)

// BlobConfig is the storage side of batch execution: where input and output
// CSV blobs live.
type BlobConfig struct {
	ConnectionString string
	Container        string
	PathPrefix       string
	Charset          string
}

// Config describes one scoring service endpoint.
type Config struct {
	// BaseURL is the service endpoint without the /execute or /jobs suffix.
	BaseURL string
	// APIKey is sent as a bearer credential on every call.
	APIKey string
	// PollInterval is how often batch job status is checked. Zero means
	// batch.DefaultPollInterval.
	PollInterval time.Duration
	// Transport tunes the underlying HTTP behavior.
	Transport transport.Config
	// Blob configures batch storage. Nil disables batch execution.
	Blob   *BlobConfig
	Logger *slog.Logger
}

// Client invokes one scoring service.
type Client struct {
	caller       *transport.Caller
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	logger       *slog.Logger
	blobCfg      *BlobConfig
	store        *blob.Store
	now          func() time.Time
}

// New builds a client for the configured service. When cfg.Blob is set, the
// blob store is connected eagerly so misconfiguration surfaces here rather
// than mid-job.
func New(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tcfg := cfg.Transport
	if tcfg.Logger == nil {
		tcfg.Logger = logger
	}
	caller, err := transport.New(tcfg)
	if err != nil {
		return nil, err
	}
	c := &Client{
		caller:       caller,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		pollInterval: cfg.PollInterval,
		logger:       logger,
		blobCfg:      cfg.Blob,
		now:          time.Now,
	}
	if cfg.Blob != nil {
		store, err := blob.NewStore(cfg.Blob.ConnectionString, logger)
		if err != nil {
			return nil, err
		}
		c.store = store
	}
	return c, nil
}

// Execute runs the service synchronously: inputs travel inline in the JSON
// body and outputs come back inline in the response. outputNames selects
// which results to decode; nil means all of them.
func (c *Client) Execute(ctx context.Context, inputs map[string]table.Table, params Params, outputNames []string) (map[string]table.Table, error) {
	body, err := BuildSyncBody(inputs, params)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/execute?api-version=2.0&details=true"
	resp, err := c.caller.Call(ctx, http.MethodPost, url, c.apiKey, body)
	if err != nil {
		return nil, err
	}
	return decodeResults(resp, outputNames)
}

func decodeResults(body string, outputNames []string) (map[string]table.Table, error) {
	var raw struct {
		Results map[string]json.RawMessage `json:"Results"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil || raw.Results == nil {
		return nil, &MalformedResponseError{Body: body}
	}
	if outputNames == nil {
		outputNames = make([]string, 0, len(raw.Results))
		for name := range raw.Results {
			outputNames = append(outputNames, name)
		}
	}
	outputs := make(map[string]table.Table, len(outputNames))
	for _, name := range outputNames {
		msg, ok := raw.Results[name]
		if !ok {
			return nil, &MissingOutputError{Name: name, Available: availableNames(raw.Results)}
		}
		w, err := table.ParseWire(msg, table.ColumnMode, true)
		if err != nil {
			return nil, err
		}
		t, err := w.ToTable()
		if err != nil {
			return nil, err
		}
		outputs[name] = t
	}
	return outputs, nil
}

func availableNames(results map[string]json.RawMessage) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	return names
}

// ExecuteBatch runs the service as an asynchronous job: inputs are uploaded
// as CSV blobs, the job is created, started and polled to completion, and
// the named outputs are downloaded from their pre-allocated blob locations.
// All blobs of one call share a timestamp prefix so concurrent calls never
// collide.
func (c *Client) ExecuteBatch(ctx context.Context, inputs map[string]table.Table, params Params, outputNames []string) (map[string]table.Table, error) {
	if c.store == nil {
		return nil, ErrBlobNotConfigured
	}
	prefix := blob.BatchPrefix(c.now())

	inputRefs := make(map[string]blob.Reference, len(inputs))
	for name, t := range inputs {
		ref, err := c.store.Upload(ctx, t, c.blobCfg.Container, name, blob.UploadOptions{
			PathPrefix: c.blobCfg.PathPrefix,
			NamePrefix: prefix + "-input-",
			Charset:    c.blobCfg.Charset,
		})
		if err != nil {
			return nil, err
		}
		inputRefs[name] = ref
	}

	outputRefs, err := blob.NewReferences(c.store.ConnectionString(), c.blobCfg.Container,
		outputNames, c.blobCfg.PathPrefix, prefix+"-output-")
	if err != nil {
		return nil, err
	}

	body, err := BuildBatchBody(inputRefs, params, outputRefs)
	if err != nil {
		return nil, err
	}
	lifecycle := batch.NewLifecycle(c.caller, c.baseURL, c.apiKey, c.pollInterval, c.logger)
	if _, err := lifecycle.Run(ctx, body); err != nil {
		return nil, err
	}

	outputs := make(map[string]table.Table, len(outputRefs))
	for name, ref := range outputRefs {
		t, err := c.store.Download(ctx, ref, c.blobCfg.Charset)
		if err != nil {
			return nil, err
		}
		outputs[name] = t
	}
	return outputs, nil
}
