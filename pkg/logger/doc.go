// Package logger builds structured slog loggers with context extraction and
// optional Sentry fan-out.
//
// # Usage
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttrs(slog.String("service", "login")),
//		logger.WithExtractors(middlewares.RequestIDExtractor()),
//	)
//	log.InfoContext(ctx, "login completed", slog.String("provider", "wechat"))
//	// {"level":"INFO","msg":"login completed","service":"login","provider":"wechat","request_id":"..."}
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of the context on every log call,
// so request-scoped values such as request IDs never need to be passed by hand.
// Return false to skip the attribute for that record.
//
// # Sentry
//
// WithSentry sends errors to Sentry as issues and keeps warnings as Sentry logs.
// With an empty DSN, or when the SDK fails to initialize, only the JSON output is used,
// so the same code path works in development and production.
//
// # Silent Components
//
// NewNope returns a logger that discards everything. Library packages such as
// pkg/oauth default to it and only log when the application injects a logger.
package logger
