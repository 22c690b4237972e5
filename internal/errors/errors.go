// Package errors classifies failures of client operations so the presentation
// layer can decide how to render them.
package errors

import (
	"errors"
	"fmt"
)

// Kind is the category of a failure.
type Kind string

const (
	// KindValidation means required input was missing or invalid. Never reaches the network.
	KindValidation Kind = "validation"
	// KindAuth means the credential is missing, invalid or expired.
	KindAuth Kind = "auth"
	// KindServer means the service was reachable but rejected the request.
	KindServer Kind = "server"
	// KindNetwork means the service could not be reached at all.
	KindNetwork Kind = "network"
)

var (
	// ErrNotAuthenticated is the cause of an auth error raised when no session is stored.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired is the cause of an auth error raised when the service
	// rejected the stored token or the token is past its expiry.
	ErrSessionExpired = errors.New("session expired")
)

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status returned by the service, zero if none was received.
	Status int
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCause sets the cause (chainable).
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithStatus sets the HTTP status (chainable).
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Validation creates a new validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Auth creates a new authentication error.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Server creates a new error for a request the service rejected.
func Server(status int, message string) *Error {
	return &Error{Kind: KindServer, Message: message, Status: status}
}

// Network creates a new error for a service that could not be reached.
// The message tells the user what to check.
func Network(baseURL string, cause error) *Error {
	return &Error{
		Kind: KindNetwork,
		Message: fmt.Sprintf("Failed to connect to the backend server.\n\nPlease ensure:\n"+
			"1. Backend is running on %s\n"+
			"2. Check the debug log (--verbose) for proxy, TLS or DNS errors\n"+
			"3. Verify network connectivity", baseURL),
		Cause: cause,
	}
}

// KindOf returns the kind of the first classified error in err's chain,
// or the empty Kind if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusOf returns the HTTP status carried by err, zero if none.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
