package openrag

import (
	"fmt"
	"net/http"

	"github.com/openragproject/openrag-go/pkg/utils"
)

// Kind classifies API errors by their transport-level cause.
type Kind string

const (
	// KindAuthentication covers 401 responses: a missing or invalid API key.
	KindAuthentication Kind = "authentication"

	// KindNotFound covers 404 responses.
	KindNotFound Kind = "not_found"

	// KindValidation covers 400 and 422 responses: the server rejected the
	// request payload.
	KindValidation Kind = "validation"

	// KindRateLimit covers 429 responses.
	KindRateLimit Kind = "rate_limit"

	// KindServer covers 5xx responses.
	KindServer Kind = "server"

	// KindUnknown covers any other non-success status.
	KindUnknown Kind = "unknown"
)

// Error is a typed error derived from a non-success HTTP response. The raw
// status code is preserved alongside the classified kind.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openrag: %s error (status %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("openrag: %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

// errorFromStatus maps an HTTP status code to a typed Error.
func errorFromStatus(status int, message string) *Error {
	var kind Kind
	switch {
	case status == http.StatusUnauthorized:
		kind = KindAuthentication
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = KindValidation
	case status == http.StatusTooManyRequests:
		kind = KindRateLimit
	case status >= 500:
		kind = KindServer
	default:
		kind = KindUnknown
	}

	return &Error{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
	}
}

// RemoteError is a terminal error event delivered by the server inside the
// event stream itself, as opposed to a transport-level HTTP failure.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("openrag: server error event: %s", e.Message)
	}
	return fmt.Sprintf("openrag: server error event (%s): %s", e.Code, e.Message)
}

// DecodeError reports malformed JSON inside a complete event block. A decode
// failure is fatal to the stream it occurred on; a new request must be issued.
type DecodeError struct {
	// Data is the raw data payload that failed to decode, truncated for display.
	Data string

	// Err is the underlying JSON error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("openrag: decoding stream event %q: %v", utils.Truncate(e.Data, 80), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
