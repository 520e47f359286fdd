package oauth

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

// Authenticator is implemented by every login strategy.
// Hosting middleware routes requests to a strategy by its Name.
type Authenticator interface {
	// Name returns the strategy identifier (e.g., "wechat").
	Name() string

	// Authenticate runs one step of the login flow for the request
	// and reports how the host should continue.
	Authenticate(w http.ResponseWriter, r *http.Request, opts ...AuthenticateOption) Result
}

// Hooks are the provider-specific behaviours plugged into the generic Strategy.
type Hooks[P any] interface {
	// AuthorizationParams returns extra query parameters for the authorization redirect.
	AuthorizationParams(opts AuthenticateOptions) url.Values

	// UserProfile loads the user profile with the freshly issued token.
	UserProfile(ctx context.Context, token *oauth2.Token) (P, error)

	// ParseErrorResponse converts a non-2xx token endpoint body into an error.
	// Returning nil means the body was not recognized.
	ParseErrorResponse(body []byte, status int) error
}

// VerifyFunc is supplied by the application and resolves the provider
// identity into an application user. Returning a nil user or an error
// built with Fail rejects the login; any other error aborts it.
type VerifyFunc[P any] func(ctx context.Context, accessToken, refreshToken string, profile P) (user any, err error)

// DefaultHooks implements Hooks with the behaviour of a plain OAuth 2.0 provider.
// Provider strategies embed it and override what they need.
type DefaultHooks[P any] struct{}

// AuthorizationParams returns no extra parameters.
func (DefaultHooks[P]) AuthorizationParams(AuthenticateOptions) url.Values {
	return url.Values{}
}

// UserProfile returns the zero profile.
func (DefaultHooks[P]) UserProfile(context.Context, *oauth2.Token) (P, error) {
	var zero P
	return zero, nil
}

// ParseErrorResponse delegates to the package-level default parser.
func (DefaultHooks[P]) ParseErrorResponse(body []byte, status int) error {
	return ParseErrorResponse(body, status)
}
