package oauth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/wechatauth/pkg/logger"
)

// Strategy drives the OAuth 2.0 authorization code flow: the redirect to the
// provider, state verification on callback, code exchange, profile loading
// and the application's verify callback. Provider specifics come from Hooks.
//
// A Strategy is immutable after New and safe for concurrent use.
type Strategy[P any] struct {
	hooks      Hooks[P]
	verify     VerifyFunc[P]
	httpClient *http.Client
	logger     *slog.Logger
	stateStore StateStore
	name       string
	cfg        Config
}

// New creates a generic OAuth 2.0 strategy.
// Returns an error if ClientID, ClientSecret or verify is missing,
// or if PKCE is enabled without a persistent state store.
func New[P any](name string, cfg Config, hooks Hooks[P], verify VerifyFunc[P], opts ...Option) (*Strategy[P], error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}
	if verify == nil {
		return nil, ErrMissingVerify
	}

	o := options{
		logger:     logger.NewNope(),
		stateStore: NullStateStore{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.PKCE {
		if _, ok := o.stateStore.(NullStateStore); ok {
			return nil, ErrPKCERequiresState
		}
	}
	if cfg.ScopeSeparator == "" {
		cfg.ScopeSeparator = DefaultScopeSeparator
	}
	if hooks == nil {
		hooks = DefaultHooks[P]{}
	}

	return &Strategy[P]{
		hooks:      hooks,
		verify:     verify,
		httpClient: o.httpClient,
		logger:     o.logger.With(slog.String("strategy", name)),
		stateStore: o.stateStore,
		name:       name,
		cfg:        cfg,
	}, nil
}

// Name returns the strategy identifier.
func (s *Strategy[P]) Name() string {
	return s.name
}

// Authenticate runs one step of the authorization code flow.
// Without a code in the query it redirects to the provider; with a code it
// completes the exchange and resolves the user through the verify callback.
func (s *Strategy[P]) Authenticate(w http.ResponseWriter, r *http.Request, opts ...AuthenticateOption) Result {
	ctx := r.Context()
	o := buildAuthenticateOptions(opts)
	q := r.URL.Query()

	if errCode := q.Get("error"); errCode != "" {
		s.logger.DebugContext(ctx, "authorization denied by provider", slog.String("error", errCode))
		if errCode == "access_denied" {
			return Failed(q.Get("error_description"), http.StatusUnauthorized)
		}
		return Errored(NewAuthorizationError(q.Get("error_description"), errCode, q.Get("error_uri")))
	}

	callbackURL, err := s.callbackURL(r, o)
	if err != nil {
		return Errored(err)
	}

	if code := q.Get("code"); code != "" {
		return s.callback(w, r, code, callbackURL)
	}
	return s.redirect(w, r, o, callbackURL)
}

func (s *Strategy[P]) redirect(w http.ResponseWriter, r *http.Request, o AuthenticateOptions, callbackURL string) Result {
	var authOpts []oauth2.AuthCodeOption
	for key, values := range s.hooks.AuthorizationParams(o) {
		if len(values) > 0 {
			authOpts = append(authOpts, oauth2.SetAuthURLParam(key, values[0]))
		}
	}

	scope := o.Scope
	if len(scope) == 0 {
		scope = s.cfg.Scope
	}
	if len(scope) > 0 {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("scope", strings.Join(scope, s.cfg.ScopeSeparator)))
	}

	var meta StateMeta
	if s.cfg.PKCE {
		meta.CodeVerifier = oauth2.GenerateVerifier()
		authOpts = append(authOpts, oauth2.S256ChallengeOption(meta.CodeVerifier))
	}

	state, err := s.stateStore.Store(w, r, meta)
	if err != nil {
		return Errored(NewInternalError("Unable to store authorization request state", err))
	}

	location := s.oauth2Config(callbackURL).AuthCodeURL(state, authOpts...)
	s.logger.DebugContext(r.Context(), "redirecting to authorization endpoint")
	return Redirect(location)
}

func (s *Strategy[P]) callback(w http.ResponseWriter, r *http.Request, code, callbackURL string) Result {
	ctx := r.Context()

	meta, err := s.stateStore.Verify(w, r, r.URL.Query().Get("state"))
	switch {
	case errors.Is(err, ErrStateMissing):
		return Failed("Unable to verify authorization request state.", http.StatusForbidden)
	case errors.Is(err, ErrStateInvalid):
		return Failed("Invalid authorization request state.", http.StatusForbidden)
	case err != nil:
		return Errored(err)
	}

	token, err := s.exchange(ctx, code, callbackURL, meta.CodeVerifier)
	if err != nil {
		s.logger.DebugContext(ctx, "token exchange failed", slog.Any("error", err))
		return Errored(err)
	}

	var profile P
	if !s.cfg.SkipUserProfile {
		profile, err = s.hooks.UserProfile(ctx, token)
		if err != nil {
			s.logger.DebugContext(ctx, "user profile fetch failed", slog.Any("error", err))
			return Errored(err)
		}
	}

	user, err := s.verify(ctx, token.AccessToken, token.RefreshToken, profile)
	var failure *FailureError
	switch {
	case errors.As(err, &failure):
		return Failed(failure.Message, http.StatusUnauthorized)
	case err != nil:
		return Errored(err)
	case user == nil:
		return Failed("", http.StatusUnauthorized)
	}
	return Success(user)
}

// Exchange trades an authorization code for tokens.
// Token endpoint error bodies are converted by the ParseErrorResponse hook.
func (s *Strategy[P]) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	return s.exchange(ctx, code, redirectURI, "")
}

func (s *Strategy[P]) exchange(ctx context.Context, code, redirectURI, verifier string) (*oauth2.Token, error) {
	var opts []oauth2.AuthCodeOption
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	token, err := s.oauth2Config(redirectURI).Exchange(s.contextWithHTTPClient(ctx), code, opts...)
	if err != nil {
		return nil, s.tokenError(err)
	}
	if token.AccessToken == "" {
		return nil, NewInternalError("Failed to obtain access token", ErrMissingAccessToken)
	}
	return token, nil
}

func (s *Strategy[P]) tokenError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		status := 0
		if rErr.Response != nil {
			status = rErr.Response.StatusCode
		}
		// A body the hook cannot decode falls back to the generic error.
		if perr := s.hooks.ParseErrorResponse(rErr.Body, status); perr != nil && !errors.Is(perr, ErrDecodeFailed) {
			return perr
		}
	}
	return NewInternalError("Failed to obtain access token", err)
}

// Get issues an authenticated GET to a protected resource and returns the body.
// A non-2xx answer is returned as *HTTPError carrying the response body.
func (s *Strategy[P]) Get(ctx context.Context, rawURL, accessToken string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	if !s.cfg.UseAuthorizationHeaderForGET {
		if u.RawQuery != "" {
			u.RawQuery += "&"
		}
		u.RawQuery += "access_token=" + url.QueryEscape(accessToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	if s.cfg.UseAuthorizationHeaderForGET {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := s.client().Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the token.
		var uErr *url.Error
		if errors.As(err, &uErr) {
			err = uErr.Err
		}
		return nil, errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Data: body}
	}
	return body, nil
}

func (s *Strategy[P]) oauth2Config(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.cfg.AuthorizationURL,
			TokenURL:  s.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (s *Strategy[P]) callbackURL(r *http.Request, o AuthenticateOptions) (string, error) {
	raw := o.CallbackURL
	if raw == "" {
		raw = s.cfg.CallbackURL
	}
	if raw == "" {
		return "", nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", NewInternalError("Invalid callback URL", err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	return originalURL(r, s.cfg.TrustProxy).ResolveReference(u).String(), nil
}

func (s *Strategy[P]) client() *http.Client {
	if s.httpClient != nil {
		return s.httpClient
	}
	return http.DefaultClient
}

func (s *Strategy[P]) contextWithHTTPClient(ctx context.Context) context.Context {
	if s.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}
	return ctx
}

// originalURL reconstructs the URL the user agent requested.
func originalURL(r *http.Request, trustProxy bool) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if trustProxy {
		if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
			scheme = strings.TrimSpace(strings.Split(p, ",")[0])
		}
		if h := r.Header.Get("X-Forwarded-Host"); h != "" {
			host = strings.TrimSpace(strings.Split(h, ",")[0])
		}
	}

	return &url.URL{Scheme: scheme, Host: host, Path: r.URL.Path}
}
