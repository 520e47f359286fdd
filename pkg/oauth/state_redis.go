package oauth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps pending states in Redis, keyed by the state value.
// Each state can be verified once.
type RedisStateStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore creates a Redis-backed state store.
// The client should be obtained from pkg/redis.Open.
// A zero ttl uses DefaultStateTTL.
func NewRedisStateStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStateStore {
	if prefix == "" {
		prefix = "oauth:state"
	}
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &RedisStateStore{client: client, prefix: prefix, ttl: ttl}
}

// Store implements StateStore.
func (s *RedisStateStore) Store(_ http.ResponseWriter, r *http.Request, meta StateMeta) (string, error) {
	state, err := newState()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(r.Context(), s.key(state), data, s.ttl).Err(); err != nil {
		return "", err
	}
	return state, nil
}

// Verify implements StateStore.
func (s *RedisStateStore) Verify(_ http.ResponseWriter, r *http.Request, state string) (StateMeta, error) {
	if state == "" {
		return StateMeta{}, ErrStateMissing
	}

	data, err := s.client.GetDel(r.Context(), s.key(state)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return StateMeta{}, ErrStateInvalid
		}
		return StateMeta{}, err
	}

	var meta StateMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return StateMeta{}, errors.Join(ErrDecodeFailed, err)
	}
	return meta, nil
}

func (s *RedisStateStore) key(state string) string {
	return s.prefix + ":" + state
}
