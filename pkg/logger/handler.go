package logger

import (
	"context"
	"errors"
	"log/slog"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// handler writes records to out and, when configured, to alert (Sentry).
// Context attributes are resolved once per record so both destinations carry
// the same request_id.
type handler struct {
	out        slog.Handler
	alert      slog.Handler
	extractors []ContextExtractor
}

func newHandler(out, alert slog.Handler, extractors ...ContextExtractor) *handler {
	h := &handler{out: out, alert: alert}
	for _, ex := range extractors {
		if ex != nil {
			h.extractors = append(h.extractors, ex)
		}
	}
	return h
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.out.Enabled(ctx, level) || (h.alert != nil && h.alert.Enabled(ctx, level))
}

// Handle never drops a record on one destination because the other failed.
func (h *handler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}

	var errs []error
	if h.out.Enabled(ctx, rec.Level) {
		errs = append(errs, h.out.Handle(ctx, rec.Clone()))
	}
	if h.alert != nil && h.alert.Enabled(ctx, rec.Level) {
		errs = append(errs, h.alert.Handle(ctx, rec.Clone()))
	}
	return errors.Join(errs...)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *handler) WithGroup(name string) slog.Handler {
	return h.derive(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}

func (h *handler) derive(fn func(slog.Handler) slog.Handler) *handler {
	d := &handler{out: fn(h.out), extractors: h.extractors}
	if h.alert != nil {
		d.alert = fn(h.alert)
	}
	return d
}
