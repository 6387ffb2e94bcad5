package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/tinytasks/internal/shared"
)

// TransportError is the single failure kind of a [TaskStore]: a network failure or a non-2xx response.
//
// Status is zero when no response was received.
type TransportError struct {
	Op      Op
	Status  int
	Message string
	Err     error
}

// newStatusError builds the error for a non-2xx response, using the body verbatim when present.
func newStatusError(op Op, status int, body []byte) *TransportError {
	msg := string(body)
	if strings.TrimSpace(msg) == "" {
		msg = fmt.Sprintf("%s failed (%d)", op.Verb(), status)
	}
	return &TransportError{Op: op, Status: status, Message: msg}
}

// newNetworkError wraps a failure that happened before a status was available.
func newNetworkError(op Op, err error) *TransportError {
	return &TransportError{Op: op, Message: err.Error(), Err: err}
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes every TransportError match [shared.ErrAPIRequest], and 404, 429 and 503
// responses match the sentinel for that status as well.
func (e *TransportError) Is(target error) bool {
	switch target {
	case shared.ErrAPIRequest:
		return true
	case shared.ErrTaskNotFound:
		return e.Status == http.StatusNotFound
	case shared.ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case shared.ErrServiceUnavailable:
		return e.Status == http.StatusServiceUnavailable
	}
	return false
}

// AsTransportError extracts a [*TransportError] from err.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
