// Package oauth provides a generic OAuth 2.0 authorization code login strategy.
//
// Strategy drives the whole flow for a single request: it redirects the user
// agent to the provider, verifies the state on callback, exchanges the code
// for tokens, loads the user profile and hands the result to the
// application's verify callback. Provider specifics are plugged in through
// Hooks; see pkg/wechat for a complete provider.
//
// # Features
//
//   - Generic Strategy[P] parameterized by the provider profile type
//   - Hooks for authorization parameters, profile loading and token error bodies
//   - State verification with cookie (HMAC-signed) or Redis stores
//   - Optional PKCE (S256) on top of a state store
//   - Relative callback URLs resolved against the request, optionally behind a proxy
//   - Typed errors (AuthorizationError, TokenError, InternalError, HTTPError)
//   - Sentinel errors with "oauth:" prefix for consistent error handling
//
// # Usage
//
//	store, err := oauth.NewCookieStateStore(os.Getenv("STATE_SECRET"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	strategy, err := oauth.New[*MyProfile]("example", oauth.Config{
//		ClientID:         os.Getenv("OAUTH_CLIENT_ID"),
//		ClientSecret:     os.Getenv("OAUTH_CLIENT_SECRET"),
//		AuthorizationURL: "https://provider.example.com/authorize",
//		TokenURL:         "https://provider.example.com/token",
//		CallbackURL:      "/auth/example/callback",
//	}, hooks, verify, oauth.WithStateStore(store))
//
//	res := strategy.Authenticate(w, r)
//	switch res.Action {
//	case oauth.ActionRedirect:
//		http.Redirect(w, r, res.Location, res.Status)
//	case oauth.ActionSuccess:
//		// res.User is the value returned by verify
//	case oauth.ActionFail:
//		http.Error(w, res.Message, res.Status)
//	default:
//		// res.Err aborted the login
//	}
//
// middlewares.Authenticate performs this dispatch for net/http routers.
//
// # Verify callback
//
// The verify callback returns the application user. Returning oauth.Fail(msg)
// or a nil user rejects the login with 401; any other error aborts it.
//
// # Testing
//
// Use WithHTTPClient to route token and profile requests to an httptest server.
package oauth
