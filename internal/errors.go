package internal

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrResponseEnded   = errors.New("restify: response already ended")
	ErrGroupUnbalanced = errors.New("restify: close group called without an open group")
	ErrGroupOpen       = errors.New("restify: dispatch while a route group is open")
	ErrNextCalledTwice = errors.New("restify: next called more than once")
	ErrBodyTooLarge    = errors.New("restify: request body too large")
	ErrInvalidMethod   = errors.New("restify: unsupported route method")
	ErrEmptyChain      = errors.New("restify: route has no stages")
)

// HTTPError is returned by stages to pick the failure status.
// The server answers with Code and Message instead of 500 and err.Error().
type HTTPError struct {
	// Err is the underlying error, logged but never sent.
	Err     error
	Message string
	Code    int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// NewHTTPError creates an HTTPError. An empty message falls back to the status text.
func NewHTTPError(code int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HTTPError{Code: code, Message: message}
}

// WithCause attaches err and returns e.
func (e *HTTPError) WithCause(err error) *HTTPError {
	e.Err = err
	return e
}

func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

func ErrUnauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

func ErrForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message)
}

func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

func ErrConflict(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, message)
}

func ErrInternal(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message)
}

// AsHTTPError returns the first HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// ParseError reports a request body that could not be decoded.
// Message is the decoder's own text.
type ParseError struct {
	Err     error
	Message string
	Code    int
}

func newParseError(err error) *ParseError {
	if errors.Is(err, ErrBodyTooLarge) {
		return &ParseError{Err: err, Message: err.Error(), Code: http.StatusRequestEntityTooLarge}
	}
	return &ParseError{Err: err, Message: err.Error(), Code: http.StatusBadRequest}
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) StatusCode() int {
	return e.Code
}

// panicError wraps a value recovered by the server.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	if err, ok := e.value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.value)
}

func (e *panicError) Unwrap() error {
	err, _ := e.value.(error)
	return err
}
