package oauth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/wechatauth/pkg/cookie"
)

// ErrCookieSecret is returned when the cookie state store secret is shorter than 32 bytes.
var ErrCookieSecret = errors.New("oauth: cookie state secret must be 32+ bytes")

// DefaultStateCookieName is the cookie holding the pending authorization request.
const DefaultStateCookieName = "oauth2_state"

// CookieStateStore keeps the pending authorization request in an HTTP-only
// cookie. The cookie is signed, or encrypted with WithCookieEncryption.
type CookieStateStore struct {
	cookies    *cookie.Manager
	cookieOpts []cookie.Option
	name       string
	ttl        time.Duration
	encrypt    bool
	now        func() time.Time
}

// CookieOption configures a CookieStateStore.
type CookieOption func(*CookieStateStore)

// WithCookieName sets the cookie name.
func WithCookieName(name string) CookieOption {
	return func(s *CookieStateStore) {
		if name != "" {
			s.name = name
		}
	}
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return func(s *CookieStateStore) {
		s.cookieOpts = append(s.cookieOpts, cookie.WithDomain(domain))
	}
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return func(s *CookieStateStore) {
		s.cookieOpts = append(s.cookieOpts, cookie.WithPath(path))
	}
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return func(s *CookieStateStore) {
		s.cookieOpts = append(s.cookieOpts, cookie.WithSecure(secure))
	}
}

// WithCookieEncryption seals the cookie so the PKCE verifier and return URL
// are not readable by the client.
func WithCookieEncryption(encrypt bool) CookieOption {
	return func(s *CookieStateStore) {
		s.encrypt = encrypt
	}
}

// WithStateTTL sets how long a pending state stays valid.
func WithStateTTL(ttl time.Duration) CookieOption {
	return func(s *CookieStateStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewCookieStateStore creates a cookie-backed state store keyed by secret.
func NewCookieStateStore(secret string, opts ...CookieOption) (*CookieStateStore, error) {
	s := &CookieStateStore{
		name: DefaultStateCookieName,
		ttl:  DefaultStateTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	cookies, err := cookie.New(secret, s.cookieOpts...)
	if err != nil {
		return nil, errors.Join(ErrCookieSecret, err)
	}
	s.cookies = cookies

	return s, nil
}

type cookieState struct {
	State     string `json:"s"`
	ExpiresAt int64  `json:"e"`
	StateMeta
}

// Store implements StateStore.
func (s *CookieStateStore) Store(w http.ResponseWriter, _ *http.Request, meta StateMeta) (string, error) {
	state, err := newState()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(cookieState{
		State:     state,
		ExpiresAt: s.now().Add(s.ttl).Unix(),
		StateMeta: meta,
	})
	if err != nil {
		return "", err
	}

	if s.encrypt {
		if err := s.cookies.SetEncrypted(w, s.name, payload, s.ttl); err != nil {
			return "", err
		}
	} else {
		s.cookies.SetSigned(w, s.name, payload, s.ttl)
	}

	return state, nil
}

// Verify implements StateStore. The cookie is cleared whatever the outcome.
func (s *CookieStateStore) Verify(w http.ResponseWriter, r *http.Request, state string) (StateMeta, error) {
	var (
		payload []byte
		err     error
	)
	if s.encrypt {
		payload, err = s.cookies.GetEncrypted(r, s.name)
	} else {
		payload, err = s.cookies.GetSigned(r, s.name)
	}
	if errors.Is(err, cookie.ErrNotFound) {
		return StateMeta{}, ErrStateMissing
	}
	s.cookies.Delete(w, s.name)
	if err != nil {
		return StateMeta{}, ErrStateInvalid
	}

	var stored cookieState
	if err := json.Unmarshal(payload, &stored); err != nil {
		return StateMeta{}, ErrStateInvalid
	}
	if stored.State == "" || s.now().Unix() > stored.ExpiresAt {
		return StateMeta{}, ErrStateMissing
	}
	if subtle.ConstantTimeCompare([]byte(stored.State), []byte(state)) != 1 {
		return StateMeta{}, ErrStateInvalid
	}

	return stored.StateMeta, nil
}
