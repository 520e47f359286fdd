package logger

import "log/slog"

// NewNope creates a logger that discards all output.
// Library components use it when no logger is injected.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
