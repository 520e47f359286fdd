package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// Errors.
var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig    = errors.New("cookie: invalid signature")
	ErrDecrypt   = errors.New("cookie: decryption failed")
)

// MinSecretLen is the shortest secret New accepts.
const MinSecretLen = 32

// Manager writes and reads tamper-proof cookies for short-lived auth data
// such as pending OAuth states.
type Manager struct {
	secret   []byte
	key      [32]byte
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path. Empty keeps "/".
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
// The OAuth callback is a cross-site top-level navigation, so Strict breaks it.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// New creates a Manager keyed by secret.
// Returns ErrBadSecret if secret is shorter than MinSecretLen bytes.
func New(secret string, opts ...Option) (*Manager, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrBadSecret
	}
	m := &Manager{
		secret:   []byte(secret),
		key:      sha256.Sum256([]byte(secret)),
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Delete expires the cookie in the browser.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// SetSigned writes value readable by the client but protected by HMAC-SHA256.
func (m *Manager) SetSigned(w http.ResponseWriter, name string, value []byte, ttl time.Duration) {
	// Format: base64(value).base64(signature)
	encoded := base64.RawURLEncoding.EncodeToString(value) +
		"." + base64.RawURLEncoding.EncodeToString(m.sign(value))
	http.SetCookie(w, m.cookie(name, encoded, maxAge(ttl)))
}

// GetSigned returns the value of a signed cookie.
// Returns ErrNotFound if the cookie is absent and ErrBadSig if it was altered.
func (m *Manager) GetSigned(r *http.Request, name string) ([]byte, error) {
	raw, err := m.get(r, name)
	if err != nil {
		return nil, err
	}

	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return nil, ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(encValue)
	if err != nil {
		return nil, ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil || !hmac.Equal(sig, m.sign(value)) {
		return nil, ErrBadSig
	}

	return value, nil
}

// SetEncrypted writes value sealed with AES-256-GCM, hiding it from the client.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name string, value []byte, ttl time.Duration) error {
	ciphertext, err := m.encrypt(value)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(name, base64.RawURLEncoding.EncodeToString(ciphertext), maxAge(ttl)))
	return nil
}

// GetEncrypted returns the value of an encrypted cookie.
// Returns ErrNotFound if the cookie is absent and ErrDecrypt if it was altered.
func (m *Manager) GetEncrypted(r *http.Request, name string) ([]byte, error) {
	raw, err := m.get(r, name)
	if err != nil {
		return nil, err
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrDecrypt
	}
	plaintext, err := m.decrypt(data)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plaintext, nil
}

func (m *Manager) get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

func (m *Manager) sign(value []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write(value)
	return mac.Sum(nil)
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

func (m *Manager) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(m.key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (m *Manager) encrypt(plaintext []byte) ([]byte, error) {
	aead, err := m.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (m *Manager) decrypt(ciphertext []byte) ([]byte, error) {
	aead, err := m.aead()
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]

	return aead.Open(nil, nonce, sealed, nil)
}

// maxAge converts ttl to whole seconds. A positive ttl under a second rounds up
// so the cookie is not turned into a session cookie.
func maxAge(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int((ttl + time.Second - 1) / time.Second)
}
