package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wechatauth/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets deadline on request context", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		var ok bool
		handler := middlewares.Timeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deadline, ok = r.Context().Deadline()
		}))

		start := time.Now()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.True(t, ok)
		require.WithinDuration(t, start.Add(time.Minute), deadline, 5*time.Second)
	})

	t.Run("non-positive timeout uses default", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		handler := middlewares.Timeout(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deadline, _ = r.Context().Deadline()
		}))

		start := time.Now()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.WithinDuration(t, start.Add(middlewares.DefaultTimeout), deadline, 5*time.Second)
	})

	t.Run("context is cancelled after timeout", func(t *testing.T) {
		t.Parallel()

		var ctxErr error
		handler := middlewares.Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			ctxErr = r.Context().Err()
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.Error(t, ctxErr)
	})
}
