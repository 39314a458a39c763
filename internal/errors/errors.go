// Package errors provides the error types surfaced by the nearby assistant client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrServerReported = errors.New("server reported an error")
	ErrTransport      = errors.New("request did not complete")
	ErrInvalidJSON    = errors.New("invalid response format")
	ErrEmptyQuery     = errors.New("query cannot be empty")
)

// Prefixes used when an error is shown as a chat turn
const (
	ServerErrorPrefix    = "Error: "
	TransportErrorPrefix = "Connection error: "
)

// ServerError represents a completed request whose status signals failure
type ServerError struct {
	StatusCode int
	Endpoint   string
	Detail     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Detail)
}

// Is allows comparison with sentinel errors
func (e *ServerError) Is(target error) bool {
	if target == ErrServerReported {
		return true
	}
	_, ok := target.(*ServerError)
	return ok
}

// NewServerError creates a new ServerError. An empty detail falls back to the
// status text so the user never sees a bare prefix.
func NewServerError(statusCode int, endpoint, detail string) *ServerError {
	if strings.TrimSpace(detail) == "" {
		detail = http.StatusText(statusCode)
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", statusCode)
		}
	}
	return &ServerError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Detail:     detail,
	}
}

// TransportError represents a request that could not complete: the round
// trip failed, or the body could not be read or parsed
type TransportError struct {
	Endpoint string
	Message  string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %v", e.Message, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Endpoint)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *TransportError) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	_, ok := target.(*TransportError)
	return ok
}

// Description returns the innermost failure text, which is what the user sees
func (e *TransportError) Description() string {
	if e.Err == nil {
		return e.Message
	}
	return rootMessage(e.Err)
}

// NewTransportError creates a new TransportError
func NewTransportError(message, endpoint string, err error) *TransportError {
	return &TransportError{
		Endpoint: endpoint,
		Message:  message,
		Err:      err,
	}
}

// ParseError represents a response body that is not valid JSON
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidJSON {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message string) *ParseError {
	return &ParseError{Message: message}
}

// IsServerError reports whether err carries a server-reported failure
func IsServerError(err error) bool {
	return errors.Is(err, ErrServerReported)
}

// IsTransportError reports whether err is a failed round trip
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsParseError reports whether err wraps an invalid response body
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidJSON)
}

// GetHTTPStatus returns the status code of a ServerError, or 0
func GetHTTPStatus(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// GetDetail returns the server-supplied detail, or an empty string
func GetDetail(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Detail
	}
	return ""
}

// GetEndpoint returns the endpoint recorded on a typed error
func GetEndpoint(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Endpoint
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Endpoint
	}
	return ""
}

// UserMessage renders err the way it is shown in the chat panel
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *ServerError
	if errors.As(err, &se) {
		return ServerErrorPrefix + se.Detail
	}
	var te *TransportError
	if errors.As(err, &te) {
		return TransportErrorPrefix + te.Description()
	}
	return TransportErrorPrefix + rootMessage(err)
}

// rootMessage unwraps to the deepest error and returns its text
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
