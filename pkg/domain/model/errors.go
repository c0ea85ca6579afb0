package model

import (
	"errors"
	"fmt"
)

// APIErrorKind classifies failures of GitHub API calls
type APIErrorKind int

const (
	APIErrorUnspecific APIErrorKind = iota
	APIErrorAuthentication
	APIErrorAuthorization
	APIErrorRepositoryNotFound
)

func (k APIErrorKind) String() string {
	switch k {
	case APIErrorAuthentication:
		return "authentication"
	case APIErrorAuthorization:
		return "authorization"
	case APIErrorRepositoryNotFound:
		return "repository_not_found"
	default:
		return "unspecific"
	}
}

// APIError is returned by GitHubAPI and GitHubAPIProvider implementations.
// Message is safe to show to the webhook sender.
type APIError struct {
	Kind    APIErrorKind
	Message string
	cause   error
}

// NewAPIError creates an APIError. cause is kept for logging and may be nil.
func NewAPIError(kind APIErrorKind, message string, cause error) *APIError {
	return &APIError{Kind: kind, Message: message, cause: cause}
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "Unspecific error"
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.cause }

// EventErrorKind classifies failures of the webhook event pipeline
type EventErrorKind int

const (
	EventErrorInvalidHeader EventErrorKind = iota
	EventErrorInvalidSignatureHeader
	EventErrorSignatureInvalid
	EventErrorInvalidEventPayload
	EventErrorAPIRequestFailed
)

func (k EventErrorKind) String() string {
	switch k {
	case EventErrorInvalidHeader:
		return "invalid_header"
	case EventErrorInvalidSignatureHeader:
		return "invalid_signature_header"
	case EventErrorSignatureInvalid:
		return "signature_invalid"
	case EventErrorInvalidEventPayload:
		return "invalid_event_payload"
	case EventErrorAPIRequestFailed:
		return "api_request_failed"
	default:
		return "unknown"
	}
}

// EventError terminates processing of one webhook delivery
type EventError struct {
	Kind  EventErrorKind
	cause error
}

// NewEventError creates an EventError wrapping cause
func NewEventError(kind EventErrorKind, cause error) *EventError {
	return &EventError{Kind: kind, cause: cause}
}

func (e *EventError) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.cause.Error())
}

func (e *EventError) Unwrap() error { return e.cause }

// HeaderError describes a missing or unreadable request header
type HeaderError struct {
	Name    string
	Missing bool
}

func (e *HeaderError) Error() string {
	if e.Missing {
		return "Missing header " + e.Name
	}
	return "Invalid value for header " + e.Name
}

// IsUnspecific reports whether err is, or is caused by, an unclassified upstream failure.
func IsUnspecific(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == APIErrorUnspecific
	}
	var evErr *EventError
	return !errors.As(err, &evErr)
}
