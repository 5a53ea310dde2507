// Package transport performs authenticated HTTP calls against a scoring
// endpoint and translates failures into typed errors: connection-level
// problems become a TransportError, non-2xx responses become a
// RemoteServiceError built from the decoded remote error payload.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"azmlclient/internal/charset"
)

// Config holds the transport settings. It is an explicit immutable value:
// there is no process-wide session or environment-derived state.
type Config struct {
	// Charset used to encode request bodies. Defaults to utf-8.
	Charset string
	// Timeout bounds each HTTP call. Zero means no client-side timeout.
	Timeout time.Duration
	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Caller executes authenticated JSON calls. Safe for concurrent use.
type Caller struct {
	client  *http.Client
	charset string
	logger  *slog.Logger
}

// New builds a Caller from the given config. An unknown charset is rejected
// up front rather than on the first call.
func New(cfg Config) (*Caller, error) {
	cs := cfg.Charset
	if cs == "" {
		cs = charset.DefaultName
	}
	if _, err := charset.Encode("", cs); err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Caller{client: client, charset: cs, logger: logger}, nil
}

// Call performs an HTTP request with a Bearer credential. A non-empty body is
// sent as JSON encoded with the configured charset. The response body is
// returned as text on any 2xx status; other statuses produce a
// RemoteServiceError (or MalformedErrorPayloadError when the error payload
// cannot be decoded).
func (c *Caller) Call(ctx context.Context, method, url, apiKey, body string) (string, error) {
	var reader io.Reader
	if body != "" {
		encoded, err := charset.Encode(body, c.charset)
		if err != nil {
			return "", err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("X-Request-ID", requestID)
	if body != "" {
		req.Header.Set("Content-Type", "application/json; charset="+c.charset)
	}

	c.logger.Debug("calling scoring service", "method", method, "url", url, "request_id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Headers carry the remote request id and timestamp, useful when
		// reporting failures to the service operator.
		c.logger.Warn("remote call failed",
			"status", resp.StatusCode, "url", url, "request_id", requestID,
			"headers", fmt.Sprint(resp.Header))
		return "", decodeRemoteError(resp.StatusCode, resp.Header, text)
	}
	return string(text), nil
}
