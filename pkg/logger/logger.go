package logger

import (
	"io"
	"log/slog"
	"os"
)

// Option configures a logger built by New.
type Option func(*config)

type config struct {
	output     io.Writer
	sentry     *SentryConfig
	extractors []ContextExtractor
	attrs      []slog.Attr
	level      slog.Level
}

// WithLevel sets the minimum level written to the output. Default: slog.LevelInfo.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the destination of JSON log lines. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithExtractors adds context extractors applied on every log call.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		c.extractors = append(c.extractors, extractors...)
	}
}

// WithAttrs adds static attributes to every record (e.g. service name).
func WithAttrs(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithSentry forwards warnings and errors to Sentry.
// An empty DSN keeps the logger on the output only.
func WithSentry(cfg SentryConfig) Option {
	return func(c *config) {
		c.sentry = &cfg
	}
}

// New creates a JSON-formatted logger.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		output: os.Stdout,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	out := slog.Handler(slog.NewJSONHandler(cfg.output, &slog.HandlerOptions{
		Level: cfg.level,
	}))

	var alert slog.Handler
	if cfg.sentry != nil && cfg.sentry.DSN != "" {
		sentryHandler, err := newSentryHandler(*cfg.sentry)
		if err != nil {
			// Degrade to output-only logging.
			slog.New(out).Error("failed to initialize sentry", slog.String("error", err.Error()))
		} else {
			alert = sentryHandler
		}
	}

	h := slog.Handler(newHandler(out, alert, cfg.extractors...))
	if len(cfg.attrs) > 0 {
		h = h.WithAttrs(cfg.attrs)
	}

	return slog.New(h)
}
