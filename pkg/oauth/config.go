package oauth

// DefaultScopeSeparator joins requested scopes in the authorization URL.
const DefaultScopeSeparator = " "

// Config holds the provider-agnostic OAuth 2.0 client settings.
type Config struct {
	ClientID         string
	ClientSecret     string
	AuthorizationURL string
	TokenURL         string

	// CallbackURL may be relative; it is resolved against the incoming request.
	CallbackURL    string
	Scope          []string
	ScopeSeparator string

	// SkipUserProfile disables the profile fetch before the verify callback.
	SkipUserProfile bool

	// PKCE adds an S256 code challenge to the authorization request.
	// Requires a state store that persists metadata (cookie or redis).
	PKCE bool

	// TrustProxy honours X-Forwarded-Proto and X-Forwarded-Host
	// when resolving a relative CallbackURL.
	TrustProxy bool

	// UseAuthorizationHeaderForGET sends the access token as a Bearer header
	// instead of the access_token query parameter.
	UseAuthorizationHeaderForGET bool
}
