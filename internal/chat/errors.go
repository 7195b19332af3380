package chat

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrEmptyResponse is returned when the provider answers without any choices.
	ErrEmptyResponse = errors.New("no response from API")

	// ErrInvalidMessages is returned when a message list does not start with a
	// system message followed by a user message.
	ErrInvalidMessages = errors.New("invalid message sequence")

	// ErrProviderError wraps failures reported by SDK-backed completers.
	ErrProviderError = errors.New("provider error")
)

// TransportError reports a network or timeout failure before any response
// was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("API request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError reports a failure signalled by the provider, either through a
// non-success status or through an error object in the body.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the provider's error message, if the body carried one.
	Message string
	// Body is the raw response body.
	Body string
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	if detail == "" {
		detail = "unknown error"
	}
	if !isSuccess(e.Status) {
		return fmt.Sprintf("API error (%d): %s", e.Status, detail)
	}
	return fmt.Sprintf("API error: %s", detail)
}

// ParseError reports a response body that is not valid JSON or does not
// match the expected schema.
type ParseError struct {
	Err  error
	Body string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse API response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
