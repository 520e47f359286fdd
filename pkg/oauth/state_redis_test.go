//go:build integration

package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wechatauth/pkg/oauth"
	"github.com/dmitrymomot/wechatauth/pkg/redis"
)

func TestRedisStateStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.Open(ctx, redis.Config{URL: url, RetryAttempts: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, redis.Healthcheck(client)(ctx))

	store := oauth.NewRedisStateStore(client, "test:oauth:state", time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/auth", nil)

	t.Run("round trip is single use", func(t *testing.T) {
		state, err := store.Store(httptest.NewRecorder(), req, oauth.StateMeta{CodeVerifier: "v"})
		require.NoError(t, err)
		require.NotEmpty(t, state)

		meta, err := store.Verify(httptest.NewRecorder(), req, state)
		require.NoError(t, err)
		require.Equal(t, "v", meta.CodeVerifier)

		_, err = store.Verify(httptest.NewRecorder(), req, state)
		require.ErrorIs(t, err, oauth.ErrStateInvalid)
	})

	t.Run("empty state", func(t *testing.T) {
		_, err := store.Verify(httptest.NewRecorder(), req, "")
		require.ErrorIs(t, err, oauth.ErrStateMissing)
	})

	t.Run("unknown state", func(t *testing.T) {
		_, err := store.Verify(httptest.NewRecorder(), req, "unknown")
		require.ErrorIs(t, err, oauth.ErrStateInvalid)
	})

	t.Run("key has ttl", func(t *testing.T) {
		state, err := store.Store(httptest.NewRecorder(), req, oauth.StateMeta{})
		require.NoError(t, err)

		ttl, err := client.TTL(ctx, "test:oauth:state:"+state).Result()
		require.NoError(t, err)
		require.Greater(t, ttl, time.Duration(0))
		require.LessOrEqual(t, ttl, time.Minute)
	})
}
