package restclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAuthenticationRequired indicates the pipeline has no usable credentials:
// either the store holds none, or a replayed request was still rejected after
// one refresh. Callers typically respond by starting a fresh login.
var ErrAuthenticationRequired = errors.New("restclient: authentication required")

// RequestConstructionError wraps a builder failure. The original error is
// available through Unwrap; the pipeline never retries after one.
type RequestConstructionError struct {
	Err error
}

func (e *RequestConstructionError) Error() string {
	return fmt.Sprintf("restclient: request construction failed: %v", e.Err)
}

// Unwrap returns the builder's error.
func (e *RequestConstructionError) Unwrap() error { return e.Err }

// APIError is a structured error reported by the API itself: the response
// carried the documented error envelope and its first entry was usable.
// When the body is missing or malformed, Code is "UNKNOWN_ERROR" and Message
// names the HTTP status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("restclient: api error %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

// ServerError indicates the server failed internally (HTTP 500). The body is
// not interpreted.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("restclient: server error (status %d)", e.StatusCode)
}

// UnexpectedStatusError reports a completed exchange whose status code the
// classifier has no rule for. The body is retained verbatim so callers can
// inspect it.
type UnexpectedStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("restclient: unexpected response status %d", e.StatusCode)
}

// DeserializationError indicates the payload of a successful response did not
// match the shape the decoder expected. Element names the offending element
// when known; Payload holds the raw payload that failed to decode.
type DeserializationError struct {
	Element string
	Payload json.RawMessage
	Err     error
}

func (e *DeserializationError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("restclient: cannot decode element %q from response payload", e.Element)
	}
	return fmt.Sprintf("restclient: cannot decode response payload: %v", e.Err)
}

// Unwrap returns the decoder's error, if any.
func (e *DeserializationError) Unwrap() error { return e.Err }

// TransportError wraps a network-level failure (DNS, TLS, timeout, connection
// reset) from the underlying transport. The original error is available
// through Unwrap.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("restclient: transport failed: %v", e.Err)
}

// Unwrap returns the transport's error.
func (e *TransportError) Unwrap() error { return e.Err }

// RefreshError wraps a failed credential refresh. It is terminal: the
// pipeline never replays the request after a failed refresh.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("restclient: credential refresh failed: %v", e.Err)
}

// Unwrap returns the store's refresh error.
func (e *RefreshError) Unwrap() error { return e.Err }
