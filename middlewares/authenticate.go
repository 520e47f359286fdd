package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/wechatauth/pkg/logger"
	"github.com/dmitrymomot/wechatauth/pkg/oauth"
)

// userKey is the context key for the authenticated user.
type userKey struct{}

// AuthenticateConfig configures the authenticate middleware.
type AuthenticateConfig struct {
	Logger          *slog.Logger
	SuccessHandler  func(w http.ResponseWriter, r *http.Request, user any)
	ErrorHandler    func(w http.ResponseWriter, r *http.Request, err error)
	FailureRedirect string                     // Redirect target on rejected login (default: respond with status)
	Options         []oauth.AuthenticateOption // Per-request strategy options
}

// AuthenticateOption configures AuthenticateConfig.
type AuthenticateOption func(*AuthenticateConfig)

// WithSuccessHandler replaces the next handler on successful login.
// Use it to persist the user and redirect.
func WithSuccessHandler(h func(w http.ResponseWriter, r *http.Request, user any)) AuthenticateOption {
	return func(cfg *AuthenticateConfig) {
		cfg.SuccessHandler = h
	}
}

// WithFailureRedirect redirects the user agent when the login is rejected.
func WithFailureRedirect(location string) AuthenticateOption {
	return func(cfg *AuthenticateConfig) {
		cfg.FailureRedirect = location
	}
}

// WithErrorHandler sets the handler for errors that abort the login.
func WithErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) AuthenticateOption {
	return func(cfg *AuthenticateConfig) {
		if h != nil {
			cfg.ErrorHandler = h
		}
	}
}

// WithAuthenticateLogger sets the logger for failed and aborted logins.
func WithAuthenticateLogger(l *slog.Logger) AuthenticateOption {
	return func(cfg *AuthenticateConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithStrategyOptions passes per-request options to the strategy (e.g. wechat.WithDisplay).
func WithStrategyOptions(opts ...oauth.AuthenticateOption) AuthenticateOption {
	return func(cfg *AuthenticateConfig) {
		cfg.Options = append(cfg.Options, opts...)
	}
}

// Authenticate returns middleware that runs the strategy for every request
// and acts on its result: redirects go to the provider, failures and errors
// are answered here, and a successful login reaches the next handler with
// the user available through UserFromContext.
func Authenticate(a oauth.Authenticator, opts ...AuthenticateOption) func(http.Handler) http.Handler {
	cfg := &AuthenticateConfig{
		Logger:       logger.NewNope(),
		ErrorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	log := cfg.Logger.With(slog.String("strategy", a.Name()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := a.Authenticate(w, r, cfg.Options...)

			switch res.Action {
			case oauth.ActionRedirect:
				http.Redirect(w, r, res.Location, res.Status)

			case oauth.ActionSuccess:
				r = r.WithContext(context.WithValue(r.Context(), userKey{}, res.User))
				if cfg.SuccessHandler != nil {
					cfg.SuccessHandler(w, r, res.User)
					return
				}
				next.ServeHTTP(w, r)

			case oauth.ActionFail:
				log.WarnContext(r.Context(), "login rejected",
					slog.String("message", res.Message),
					slog.Int("status", res.Status),
				)
				if cfg.FailureRedirect != "" {
					http.Redirect(w, r, cfg.FailureRedirect, http.StatusFound)
					return
				}
				message := res.Message
				if message == "" {
					message = http.StatusText(res.Status)
				}
				http.Error(w, message, res.Status)

			default:
				log.ErrorContext(r.Context(), "login failed", slog.Any("error", res.Err))
				cfg.ErrorHandler(w, r, res.Err)
			}
		})
	}
}

// UserFromContext returns the user set by Authenticate.
func UserFromContext(ctx context.Context) (any, bool) {
	user := ctx.Value(userKey{})
	return user, user != nil
}

// DefaultErrorHandler responds with the status reported by the error's
// StatusCode method, or 500. The error message is not exposed.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := http.StatusInternalServerError
	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) && coded.StatusCode() >= http.StatusBadRequest {
		status = coded.StatusCode()
	}
	http.Error(w, http.StatusText(status), status)
}
