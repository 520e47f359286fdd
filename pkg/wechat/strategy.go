package wechat

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/wechatauth/pkg/oauth"
)

// StrategyName is the identifier hosting middleware uses to route requests.
const StrategyName = "wechat"

// Per-request option keys read by AuthorizationParams.
const (
	OptionDisplay   = "display"
	OptionAuthType  = "authType"
	OptionAuthNonce = "authNonce"
)

var (
	_ oauth.Authenticator   = (*Strategy)(nil)
	_ oauth.Hooks[*Profile] = (*Strategy)(nil)
)

// Strategy authenticates users with WeChat. It runs the generic OAuth 2.0
// flow from pkg/oauth and handles the places where WeChat deviates from
// RFC 6749: error redirects, token error bodies and profile fields.
type Strategy struct {
	engine        *oauth.Strategy[*Profile]
	profileURL    string
	clientSecret  string
	profileFields []string
	enableProof   bool
}

// New creates a WeChat strategy. verify resolves the WeChat profile into an
// application user once per successful login.
// Returns an error if ClientID, ClientSecret or verify is missing.
func New(cfg Config, verify oauth.VerifyFunc[*Profile], opts ...oauth.Option) (*Strategy, error) {
	cfg = cfg.withDefaults()

	s := &Strategy{
		profileURL:    cfg.ProfileURL,
		clientSecret:  cfg.ClientSecret,
		profileFields: cfg.ProfileFields,
		enableProof:   cfg.EnableProof,
	}

	engine, err := oauth.New[*Profile](StrategyName, oauth.Config{
		ClientID:         cfg.ClientID,
		ClientSecret:     cfg.ClientSecret,
		AuthorizationURL: cfg.AuthorizationURL,
		TokenURL:         cfg.TokenURL,
		CallbackURL:      cfg.CallbackURL,
		Scope:            cfg.Scope,
		ScopeSeparator:   cfg.ScopeSeparator,
		SkipUserProfile:  cfg.SkipUserProfile,
		PKCE:             cfg.PKCE,
		TrustProxy:       cfg.TrustProxy,
	}, s, verify, opts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine

	return s, nil
}

// Name returns the strategy identifier.
func (s *Strategy) Name() string {
	return StrategyName
}

// Authenticate handles the login redirect and the callback.
//
// WeChat reports some failures with error_code and error_message instead of
// the standard error parameter; those are returned as *AuthorizationError
// without running the OAuth flow.
func (s *Strategy) Authenticate(w http.ResponseWriter, r *http.Request, opts ...oauth.AuthenticateOption) oauth.Result {
	q := r.URL.Query()
	if q.Get("error_code") != "" && q.Get("error") == "" {
		return oauth.Errored(NewAuthorizationError(q.Get("error_message"), parseCode(q.Get("error_code"))))
	}
	return s.engine.Authenticate(w, r, opts...)
}

// AuthorizationParams returns the WeChat-specific parameters of the
// authorization redirect: display, auth_type and auth_nonce.
// Options that are absent or empty produce no parameter.
func (s *Strategy) AuthorizationParams(opts oauth.AuthenticateOptions) url.Values {
	params := url.Values{}
	if v, _ := opts.Param(OptionDisplay); v != "" {
		params.Set("display", v)
	}
	if v, _ := opts.Param(OptionAuthType); v != "" {
		params.Set("auth_type", v)
	}
	if v, _ := opts.Param(OptionAuthNonce); v != "" {
		params.Set("auth_nonce", v)
	}
	return params
}

// UserProfile fetches and normalizes the user's WeChat profile.
//
// A structured error body from the profile endpoint is returned as
// *GraphAPIError; any other fetch failure as *oauth.InternalError.
func (s *Strategy) UserProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	profileURL, err := s.profileRequestURL(token)
	if err != nil {
		return nil, oauth.NewInternalError("Failed to fetch user profile", err)
	}

	body, err := s.engine.Get(ctx, profileURL, token.AccessToken)
	if err != nil {
		var httpErr *oauth.HTTPError
		if errors.As(err, &httpErr) {
			// Data that is not JSON is reported as a generic fetch failure.
			if f, ok := parseAPIError(httpErr.Data); ok {
				return nil, NewGraphAPIError(f.message, f.typ, f.code, f.subcode, f.traceID)
			}
		}
		return nil, oauth.NewInternalError("Failed to fetch user profile", err)
	}

	m, err := decodeObject(body)
	if err != nil {
		return nil, errors.Join(ErrProfileParse, err)
	}

	profile := ProfileFromMap(m)
	profile.Provider = ProviderName
	profile.Raw = string(body)
	profile.JSON = m

	return profile, nil
}

// ParseErrorResponse converts a token endpoint error body into an error.
// A structured {"error":{...}} body yields *TokenError; standard OAuth 2.0
// bodies are handled by oauth.ParseErrorResponse.
func (s *Strategy) ParseErrorResponse(body []byte, status int) error {
	if _, err := decodeObject(body); err != nil {
		return errors.Join(oauth.ErrDecodeFailed, err)
	}
	if f, ok := parseAPIError(body); ok {
		return NewTokenError(f.message, f.typ, f.code, f.subcode, f.traceID)
	}
	return oauth.ParseErrorResponse(body, status)
}

func (s *Strategy) profileRequestURL(token *oauth2.Token) (string, error) {
	u, err := url.Parse(s.profileURL)
	if err != nil {
		return "", err
	}

	var extra []string
	if len(s.profileFields) > 0 {
		if fields := convertProfileFields(s.profileFields); fields != "" {
			extra = append(extra, "fields="+strings.ReplaceAll(url.QueryEscape(fields), "%2C", ","))
		}
	}
	if s.enableProof {
		extra = append(extra, "appsecret_proof="+appSecretProof(token.AccessToken, s.clientSecret))
	}
	// The userinfo endpoint needs the openid issued with the token.
	if openid, ok := token.Extra("openid").(string); ok && openid != "" && !u.Query().Has("openid") {
		extra = append(extra, "openid="+url.QueryEscape(openid))
	}

	if len(extra) > 0 {
		if u.RawQuery != "" {
			u.RawQuery += "&"
		}
		u.RawQuery += strings.Join(extra, "&")
	}
	return u.String(), nil
}

// WithDisplay sets the display mode of the login dialog (page, popup, touch).
func WithDisplay(display string) oauth.AuthenticateOption {
	return oauth.WithParam(OptionDisplay, display)
}

// WithAuthType sets the re-authentication type (e.g. "reauthenticate").
func WithAuthType(authType string) oauth.AuthenticateOption {
	return oauth.WithParam(OptionAuthType, authType)
}

// WithAuthNonce sets the nonce checked on re-authentication.
func WithAuthNonce(nonce string) oauth.AuthenticateOption {
	return oauth.WithParam(OptionAuthNonce, nonce)
}

// appSecretProof is the hex HMAC-SHA256 of the access token keyed by the app secret.
func appSecretProof(accessToken, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(accessToken))
	return hex.EncodeToString(mac.Sum(nil))
}

// parseCode reads the leading decimal integer of s, ignoring whatever follows.
// Returns 0 when s does not start with a number. The magnitude is capped at
// math.MaxInt32.
func parseCode(s string) int {
	s = strings.TrimSpace(s)
	sign := 1
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > math.MaxInt32 {
			n = math.MaxInt32
			break
		}
	}
	return sign * n
}
