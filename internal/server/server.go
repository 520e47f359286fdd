// Package server runs the HTTP server of the login example with graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/wechatauth/pkg/logger"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Config holds the listener settings.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Option configures Run.
type Option func(*runtime)

type runtime struct {
	logger        *slog.Logger
	listener      net.Listener
	shutdownHooks []func(context.Context) error
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithShutdownHook registers a function run after the server stops
// accepting requests, such as redis.Shutdown. Hooks run in order.
func WithShutdownHook(hook func(context.Context) error) Option {
	return func(r *runtime) {
		if hook != nil {
			r.shutdownHooks = append(r.shutdownHooks, hook)
		}
	}
}

// WithListener serves on an existing listener instead of Config.Addr.
func WithListener(ln net.Listener) Option {
	return func(r *runtime) {
		r.listener = ln
	}
}

// Run serves handler until ctx is cancelled or the process receives
// SIGINT or SIGTERM, then shuts down gracefully and runs the shutdown hooks.
func Run(ctx context.Context, cfg Config, handler http.Handler, opts ...Option) error {
	rt := &runtime{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(rt)
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(rt.logger.Handler(), slog.LevelError),
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln := rt.listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", srv.Addr); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range rt.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			rt.logger.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	rt.logger.Info("shutdown completed")
	return nil
}
