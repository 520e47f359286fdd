package cookie_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wechatauth/pkg/cookie"
)

const testSecret = "this-is-a-32-byte-or-longer-key!"

func newManager(t *testing.T, opts ...cookie.Option) *cookie.Manager {
	t.Helper()

	m, err := cookie.New(testSecret, opts...)
	require.NoError(t, err)
	return m
}

// roundTrip returns a request carrying the cookies written to rec.
func roundTrip(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New("short")
	require.ErrorIs(t, err, cookie.ErrBadSecret)

	_, err = cookie.New(strings.Repeat("k", cookie.MinSecretLen))
	require.NoError(t, err)
}

func TestSignedCookies(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		rec := httptest.NewRecorder()
		m.SetSigned(rec, "state", []byte(`{"s":"abc"}`), time.Hour)

		val, err := m.GetSigned(roundTrip(t, rec), "state")
		require.NoError(t, err)
		require.Equal(t, `{"s":"abc"}`, string(val))
	})

	t.Run("tampered value", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		rec := httptest.NewRecorder()
		m.SetSigned(rec, "state", []byte("user123"), time.Hour)

		c := rec.Result().Cookies()[0]
		value, sig, _ := strings.Cut(c.Value, ".")
		c.Value = value + "x." + sig
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)

		_, err := m.GetSigned(r, "state")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("other secret", func(t *testing.T) {
		t.Parallel()

		other, err := cookie.New(strings.Repeat("z", 32))
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		other.SetSigned(rec, "state", []byte("user123"), time.Hour)

		_, err = newManager(t).GetSigned(roundTrip(t, rec), "state")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("no separator", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "state", Value: "garbage"})

		_, err := newManager(t).GetSigned(r, "state")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := newManager(t).GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "state")
		require.ErrorIs(t, err, cookie.ErrNotFound)
	})
}

func TestEncryptedCookies(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "state", []byte("verifier"), time.Hour))

		c := rec.Result().Cookies()[0]
		require.NotContains(t, c.Value, "verifier")

		val, err := m.GetEncrypted(roundTrip(t, rec), "state")
		require.NoError(t, err)
		require.Equal(t, "verifier", string(val))
	})

	t.Run("tampered value", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "state", []byte("verifier"), time.Hour))

		c := rec.Result().Cookies()[0]
		data, err := base64.RawURLEncoding.DecodeString(c.Value)
		require.NoError(t, err)
		data[len(data)-1] ^= 0xff
		c.Value = base64.RawURLEncoding.EncodeToString(data)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)

		_, err = m.GetEncrypted(r, "state")
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})

	t.Run("too short", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "state", Value: "AAAA"})

		_, err := newManager(t).GetEncrypted(r, "state")
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := newManager(t).GetEncrypted(httptest.NewRequest(http.MethodGet, "/", nil), "state")
		require.ErrorIs(t, err, cookie.ErrNotFound)
	})
}

func TestCookieAttributes(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newManager(t).SetSigned(rec, "state", []byte("v"), 10*time.Minute)

		c := rec.Result().Cookies()[0]
		require.Equal(t, "/", c.Path)
		require.True(t, c.HttpOnly)
		require.False(t, c.Secure)
		require.Equal(t, http.SameSiteLaxMode, c.SameSite)
		require.Equal(t, 600, c.MaxAge)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()

		m := newManager(t,
			cookie.WithDomain("app.test"),
			cookie.WithPath("/auth"),
			cookie.WithSecure(true),
			cookie.WithHTTPOnly(false),
			cookie.WithSameSite(http.SameSiteNoneMode),
		)
		rec := httptest.NewRecorder()
		m.SetSigned(rec, "state", []byte("v"), 1500*time.Millisecond)

		c := rec.Result().Cookies()[0]
		require.Equal(t, "app.test", c.Domain)
		require.Equal(t, "/auth", c.Path)
		require.True(t, c.Secure)
		require.False(t, c.HttpOnly)
		require.Equal(t, http.SameSiteNoneMode, c.SameSite)
		require.Equal(t, 2, c.MaxAge)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newManager(t, cookie.WithPath("/auth")).Delete(rec, "state")

		c := rec.Result().Cookies()[0]
		require.Equal(t, "state", c.Name)
		require.Equal(t, "/auth", c.Path)
		require.Equal(t, -1, c.MaxAge)
	})
}
