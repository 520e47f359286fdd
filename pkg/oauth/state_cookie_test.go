package oauth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wechatauth/pkg/oauth"
)

func storeState(t *testing.T, store *oauth.CookieStateStore, meta oauth.StateMeta) (string, *http.Cookie) {
	t.Helper()

	rec := httptest.NewRecorder()
	state, err := store.Store(rec, httptest.NewRequest(http.MethodGet, "/auth", nil), meta)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return state, cookies[0]
}

func TestCookieStateStore(t *testing.T) {
	t.Parallel()

	t.Run("short secret", func(t *testing.T) {
		t.Parallel()

		_, err := oauth.NewCookieStateStore("short")
		require.ErrorIs(t, err, oauth.ErrCookieSecret)
	})

	t.Run("cookie attributes", func(t *testing.T) {
		t.Parallel()

		store, err := oauth.NewCookieStateStore(testSecret,
			oauth.WithCookieName("st"),
			oauth.WithCookiePath("/auth"),
			oauth.WithCookieDomain("app.test"),
			oauth.WithCookieSecure(true),
			oauth.WithStateTTL(time.Minute),
		)
		require.NoError(t, err)

		_, c := storeState(t, store, oauth.StateMeta{})
		require.Equal(t, "st", c.Name)
		require.Equal(t, "/auth", c.Path)
		require.Equal(t, "app.test", c.Domain)
		require.True(t, c.Secure)
		require.True(t, c.HttpOnly)
		require.Equal(t, 60, c.MaxAge)
	})

	t.Run("round trip returns meta and clears cookie", func(t *testing.T) {
		t.Parallel()

		store, err := oauth.NewCookieStateStore(testSecret)
		require.NoError(t, err)

		state, c := storeState(t, store, oauth.StateMeta{CodeVerifier: "verifier"})

		req := httptest.NewRequest(http.MethodGet, "/cb", nil)
		req.AddCookie(c)
		rec := httptest.NewRecorder()
		meta, err := store.Verify(rec, req, state)

		require.NoError(t, err)
		require.Equal(t, "verifier", meta.CodeVerifier)

		cleared := rec.Result().Cookies()
		require.Len(t, cleared, 1)
		require.Equal(t, oauth.DefaultStateCookieName, cleared[0].Name)
		require.Negative(t, cleared[0].MaxAge)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		store, err := oauth.NewCookieStateStore(testSecret)
		require.NoError(t, err)

		_, err = store.Verify(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cb", nil), "x")
		require.ErrorIs(t, err, oauth.ErrStateMissing)
	})

	t.Run("state mismatch", func(t *testing.T) {
		t.Parallel()

		store, err := oauth.NewCookieStateStore(testSecret)
		require.NoError(t, err)

		_, c := storeState(t, store, oauth.StateMeta{})
		req := httptest.NewRequest(http.MethodGet, "/cb", nil)
		req.AddCookie(c)

		_, err = store.Verify(httptest.NewRecorder(), req, "other")
		require.ErrorIs(t, err, oauth.ErrStateInvalid)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		t.Parallel()

		store, err := oauth.NewCookieStateStore(testSecret)
		require.NoError(t, err)

		state, c := storeState(t, store, oauth.StateMeta{})
		parts := strings.SplitN(c.Value, ".", 2)
		c.Value = parts[0] + "x." + parts[1]

		req := httptest.NewRequest(http.MethodGet, "/cb", nil)
		req.AddCookie(c)

		_, err = store.Verify(httptest.NewRecorder(), req, state)
		require.ErrorIs(t, err, oauth.ErrStateInvalid)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		t.Parallel()

		store, err := oauth.NewCookieStateStore(testSecret)
		require.NoError(t, err)
		other, err := oauth.NewCookieStateStore(strings.Repeat("z", 32))
		require.NoError(t, err)

		state, c := storeState(t, other, oauth.StateMeta{})
		req := httptest.NewRequest(http.MethodGet, "/cb", nil)
		req.AddCookie(c)

		_, err = store.Verify(httptest.NewRecorder(), req, state)
		require.ErrorIs(t, err, oauth.ErrStateInvalid)
	})

	t.Run("encrypted cookie hides meta", func(t *testing.T) {
		t.Parallel()

		store, err := oauth.NewCookieStateStore(testSecret, oauth.WithCookieEncryption(true))
		require.NoError(t, err)

		state, c := storeState(t, store, oauth.StateMeta{CodeVerifier: "verifier"})
		require.NotContains(t, c.Value, ".")

		req := httptest.NewRequest(http.MethodGet, "/cb", nil)
		req.AddCookie(c)
		meta, err := store.Verify(httptest.NewRecorder(), req, state)
		require.NoError(t, err)
		require.Equal(t, "verifier", meta.CodeVerifier)
	})

	t.Run("signed cookie rejected by encrypting store", func(t *testing.T) {
		t.Parallel()

		signed, err := oauth.NewCookieStateStore(testSecret)
		require.NoError(t, err)
		sealed, err := oauth.NewCookieStateStore(testSecret, oauth.WithCookieEncryption(true))
		require.NoError(t, err)

		state, c := storeState(t, signed, oauth.StateMeta{})
		req := httptest.NewRequest(http.MethodGet, "/cb", nil)
		req.AddCookie(c)
		rec := httptest.NewRecorder()

		_, err = sealed.Verify(rec, req, state)
		require.ErrorIs(t, err, oauth.ErrStateInvalid)
		require.Len(t, rec.Result().Cookies(), 1)
	})

	t.Run("states are unique", func(t *testing.T) {
		t.Parallel()

		store, err := oauth.NewCookieStateStore(testSecret)
		require.NoError(t, err)

		a, _ := storeState(t, store, oauth.StateMeta{})
		b, _ := storeState(t, store, oauth.StateMeta{})
		require.NotEqual(t, a, b)
	})
}

func TestNullStateStore(t *testing.T) {
	t.Parallel()

	var store oauth.NullStateStore
	state, err := store.Store(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), oauth.StateMeta{})
	require.NoError(t, err)
	require.Empty(t, state)

	_, err = store.Verify(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "anything")
	require.NoError(t, err)
}
