// Package apperror defines the error taxonomy surfaced to storefront callers.
//
// Every failure that leaves a store or the API client carries one Kind and a
// single human-readable Message suitable for showing next to the action that
// triggered it. Callers branch with errors.Is against the sentinel kinds:
//
//	if errors.Is(err, apperror.ErrAuthentication) { ... }
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindCommunication  Kind = "communication"
)

// Sentinels for errors.Is matching. They are never returned directly.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrCommunication  = errors.New("communication error")
)

// DefaultCommunicationMessage is shown when the collaborator cannot be reached.
const DefaultCommunicationMessage = "Unable to reach the server. Please try again."

// Error is the single error type crossing the store boundary.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status reported by the collaborator, 0 if none
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func sentinel(k Kind) error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindAuthentication:
		return ErrAuthentication
	case KindAuthorization:
		return ErrAuthorization
	case KindNotFound:
		return ErrNotFound
	case KindCommunication:
		return ErrCommunication
	}
	return nil
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Communication wraps a transport failure. An empty message falls back to
// DefaultCommunicationMessage.
func Communication(message string, err error) *Error {
	if message == "" {
		message = DefaultCommunicationMessage
	}
	return &Error{Kind: KindCommunication, Message: message, Err: err}
}

// KindOf reports the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the human-readable message of err. Errors outside the
// taxonomy yield their Error() text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
