package middlewares_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wechatauth/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		var capturedID string
		handler := middlewares.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedID = middlewares.GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		require.Equal(t, id, capturedID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "existing-request-id-123")
		rec := httptest.NewRecorder()

		middlewares.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

		require.Equal(t, "existing-request-id-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("checks headers in order", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "correlation")
		req.Header.Set("X-Trace", "trace")
		rec := httptest.NewRecorder()

		mw := middlewares.RequestID(middlewares.WithRequestIDHeaders("X-Trace", "X-Correlation-ID"))
		mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

		require.Equal(t, "trace", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator and response header", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		mw := middlewares.RequestID(
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace-ID"),
		)
		mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, "fixed", rec.Header().Get("X-Trace-ID"))
		require.Empty(t, rec.Header().Get("X-Request-ID"))
	})
}

func TestGetRequestID(t *testing.T) {
	t.Parallel()

	require.Empty(t, middlewares.GetRequestID(context.Background()))
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.RequestIDExtractor()

	_, ok := extract(context.Background())
	require.False(t, ok)

	var attr slog.Attr
	handler := middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "abc" }))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attr, ok = extract(r.Context())
		}),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	require.Equal(t, "request_id", attr.Key)
	require.Equal(t, "abc", attr.Value.String())
}
