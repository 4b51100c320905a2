package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTransport  = errors.New("transport error")
	ErrAuth       = errors.New("authentication error")
	ErrValidation = errors.New("validation error")
	ErrTimeout    = errors.New("timeout")
	ErrUnknown    = errors.New("unknown error")
)

const (
	transportMessage = "Unable to reach the server. Check your connection and try again."
	timeoutMessage   = "The server took too long to respond. Please try again."
	unknownMessage   = "Something went wrong. Please try again."
)

// APIError describes a failed remote call. Kind is one of the exported markers
// above; errors.Is matches against it as well as the wrapped cause.
type APIError struct {
	Kind       error
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	kind := e.Kind
	if kind == nil {
		kind = ErrUnknown
	}
	detail := buildDetail(e.Op, e.Message)
	if e.StatusCode > 0 {
		detail = fmt.Sprintf("%s (http %d)", detail, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", kind, detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", kind, detail)
}

func (e *APIError) Unwrap() []error {
	kind := e.Kind
	if kind == nil {
		kind = ErrUnknown
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}

// Wrap builds an APIError tagged with the provided marker. The marker should be
// one of the exported sentinel errors above; nil is treated as ErrUnknown.
func Wrap(marker error, operation, message string, err error) error {
	if marker == nil {
		marker = ErrUnknown
	}
	return &APIError{Kind: marker, Op: operation, Message: strings.TrimSpace(message), Err: err}
}

// NewValidationError reports a locally detected validation failure. The
// message is shown to the user verbatim.
func NewValidationError(operation, message string) error {
	return &APIError{Kind: ErrValidation, Op: operation, Message: strings.TrimSpace(message)}
}

// UserMessage returns the text to show for err. Validation and auth failures
// surface the server message verbatim; transport and timeout failures get a
// generic retry hint. Anything else falls back to fallback, or a generic
// message when fallback is empty.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		if errors.Is(apiErr.Kind, ErrValidation) || errors.Is(apiErr.Kind, ErrAuth) {
			return apiErr.Message
		}
	}
	switch {
	case errors.Is(err, ErrTimeout):
		return timeoutMessage
	case errors.Is(err, ErrTransport):
		return transportMessage
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return unknownMessage
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "request failed"
	}
	return strings.Join(parts, ": ")
}
