package client

import (
	"errors"
	"fmt"

	"github.com/elarca/resetweb/internal/validation"
)

// ErrNoBaseURL is returned before any request is built when the API base is
// not configured.
var ErrNoBaseURL = &validation.Error{Field: "api_base_url", Message: "API base URL is not configured"}

const fallbackErrorMessage = "Request failed"

// APIError is returned for every request that reached the transport.
// Status 0 means the request never got a response (DNS, TLS, refused
// connection, canceled context). Any other status is the backend's answer.
type APIError struct {
	Status  int
	Message string
	Data    any   // Parsed response body, if any
	Err     error // Transport cause when Status is 0
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the request failed before a response arrived.
func (e *APIError) IsTransport() bool {
	return e.Status == 0
}

// Kind tags every failure a client call can produce.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindTransport
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindResponse:
		return "response"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A nil error is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		return KindValidation
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsTransport() {
			return KindTransport
		}
		return KindResponse
	}

	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
