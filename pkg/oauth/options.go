package oauth

import (
	"log/slog"
	"net/http"
)

// Option configures a Strategy.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	stateStore StateStore
}

// WithHTTPClient sets a custom HTTP client for token and resource requests.
// This is useful for testing with httptest servers or injecting
// custom transports (e.g., logging, retries).
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets the logger used for debug tracing of the flow.
// Nothing is logged unless a logger is provided.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStateStore sets the store used to persist and verify the state parameter.
// Default: NullStateStore (no state verification).
func WithStateStore(s StateStore) Option {
	return func(o *options) {
		if s != nil {
			o.stateStore = s
		}
	}
}

// AuthenticateOptions holds per-request settings for a single Authenticate call.
type AuthenticateOptions struct {
	// Params carries provider-specific per-request options (e.g. "display").
	Params      map[string]string
	CallbackURL string
	Scope       []string
}

// Param returns the named per-request option.
func (o AuthenticateOptions) Param(key string) (string, bool) {
	v, ok := o.Params[key]
	return v, ok
}

// AuthenticateOption configures a single Authenticate call.
type AuthenticateOption func(*AuthenticateOptions)

// WithScope overrides the configured scope for this request.
func WithScope(scope ...string) AuthenticateOption {
	return func(o *AuthenticateOptions) {
		o.Scope = scope
	}
}

// WithCallbackURL overrides the configured callback URL for this request.
func WithCallbackURL(u string) AuthenticateOption {
	return func(o *AuthenticateOptions) {
		o.CallbackURL = u
	}
}

// WithParam sets a provider-specific per-request option.
func WithParam(key, value string) AuthenticateOption {
	return func(o *AuthenticateOptions) {
		if o.Params == nil {
			o.Params = make(map[string]string)
		}
		o.Params[key] = value
	}
}

func buildAuthenticateOptions(opts []AuthenticateOption) AuthenticateOptions {
	var o AuthenticateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
