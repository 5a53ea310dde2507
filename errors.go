package azmlclient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBlobNotConfigured is returned by batch execution when the client was
// built without blob storage settings.
var ErrBlobNotConfigured = errors.New("batch execution requires blob storage configuration")

// InvalidParameterTypeError reports global parameters given in more than one
// form at once.
type InvalidParameterTypeError struct{}

func (e *InvalidParameterTypeError) Error() string {
	return "global parameters must be given either as a map or as a single-row table, not both"
}

// MissingOutputError reports a requested output name absent from the
// service's results.
type MissingOutputError struct {
	Name      string
	Available []string
}

func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("output %q is not among the service results (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}

// MalformedResponseError reports a synchronous execution response that does
// not carry a Results object.
type MalformedResponseError struct {
	Body string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed execution response: %s", e.Body)
}
