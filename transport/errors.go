package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// TransportError is a connection-level failure (DNS, refused connection,
// timeout). It is never produced for a response the service actually sent.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("call %s: %v", e.URL, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ErrorDetail is one element of the remote error payload's details list.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RemoteServiceError is a non-2xx response decoded from the remote error
// payload {"error": {"code", "message", "details": [...]}}.
type RemoteServiceError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []ErrorDetail
	Headers    http.Header
}

func (e *RemoteServiceError) Error() string {
	if len(e.Details) == 1 && e.Details[0].Code != "" && e.Details[0].Message != "" {
		return fmt.Sprintf("Error [%s][%s]: %s. %s", e.Code, e.Details[0].Code, e.Message, e.Details[0].Message)
	}
	return fmt.Sprintf("Error [%s]: %s", e.Code, e.Message)
}

// MalformedErrorPayloadError is a non-2xx response whose body does not carry
// the expected error payload. The body is preserved rather than swallowed.
type MalformedErrorPayloadError struct {
	StatusCode int
	Body       string
}

func (e *MalformedErrorPayloadError) Error() string {
	return fmt.Sprintf("unrecognized error payload from remote service (HTTP %d): %s", e.StatusCode, e.Body)
}

// decodeRemoteError parses a non-2xx body. The error, code, message and
// details fields are all required; anything else is malformed.
func decodeRemoteError(status int, headers http.Header, body []byte) error {
	var payload struct {
		Error *struct {
			Code    *string        `json:"code"`
			Message *string        `json:"message"`
			Details *[]ErrorDetail `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil ||
		payload.Error == nil || payload.Error.Code == nil ||
		payload.Error.Message == nil || payload.Error.Details == nil {
		return &MalformedErrorPayloadError{StatusCode: status, Body: string(body)}
	}
	return &RemoteServiceError{
		StatusCode: status,
		Code:       *payload.Error.Code,
		Message:    *payload.Error.Message,
		Details:    *payload.Error.Details,
		Headers:    headers,
	}
}
