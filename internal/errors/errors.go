// Package errors provides custom error types for the support assistant client.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for common cases
var (
	// ErrTransportFailure matches every failure to obtain a usable reply:
	// network errors, non-success statuses and unparsable bodies.
	ErrTransportFailure = errors.New("transport failure")
	ErrClientClosed     = errors.New("client is closed")
	ErrEmptyQuestion    = errors.New("question cannot be empty")
	ErrNoBaseURL        = errors.New("no assistant base URL configured")
)

// maxBodySnippet limits how much of a failed response body is kept
const maxBodySnippet = 4096

// NetworkError represents a failure to reach the assistant service
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with sentinel errors
func (e *NetworkError) Is(target error) bool {
	if target == ErrTransportFailure {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{
		Operation: operation,
		Endpoint:  endpoint,
		Cause:     cause,
	}
}

// APIError represents a non-success HTTP status from the service
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// Is allows comparison with sentinel errors
func (e *APIError) Is(target error) bool {
	if target == ErrTransportFailure {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError keeping a bounded snippet of the body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	if len(body) > maxBodySnippet {
		body = body[:maxBodySnippet]
	}
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// ParseError represents a reply body that could not be understood
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error: %s (at %s)", e.Message, e.Path)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrTransportFailure {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// IsTransportFailure reports whether err is any kind of transport failure
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrTransportFailure)
}

// IsNetworkError reports whether err is a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParseError reports whether err is a ParseError
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsTimeoutError reports whether the underlying network failure was a timeout
func IsTimeoutError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the response body snippet carried by err, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// Kind returns a short stable name for the failure, used in diagnostic logs
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTimeoutError(err):
		return "timeout"
	case IsNetworkError(err):
		return "network"
	case GetHTTPStatus(err) > 0:
		return "status"
	case IsParseError(err):
		return "parse"
	case errors.Is(err, ErrClientClosed):
		return "closed"
	default:
		return "unknown"
	}
}
