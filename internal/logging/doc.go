// Package logging assembles structured slog loggers and formatting helpers used
// across pitchclerk packages.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so service calls automatically
// tag log lines with their request identifier. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
