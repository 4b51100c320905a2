package logging

import (
	"context"
	"log/slog"

	"pitchclerk/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRequestID is the standardized structured logging key for request correlation identifiers.
	FieldRequestID = "request_id"
	// FieldOperation names the remote operation (e.g. "auth signin").
	FieldOperation = "operation"
	// FieldStatusCode carries the HTTP status returned by the remote API.
	FieldStatusCode = "status_code"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		return []slog.Attr{slog.String(FieldRequestID, rid)}
	}
	return nil
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
