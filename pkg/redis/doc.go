// Package redis opens the Redis connection backing oauth.RedisStateStore.
//
// It wraps [github.com/redis/go-redis/v9] with startup retries, a health
// check closure and a shutdown hook.
//
// # Configuration
//
// Config is loaded with caarlos0/env from REDIS_* variables:
//
//   - REDIS_URL - redis:// or rediss:// connection URL (required to open)
//   - REDIS_POOL_SIZE - maximum number of connections (default: 10)
//   - REDIS_MIN_IDLE_CONNS - minimum idle connections (default: 2)
//   - REDIS_MAX_IDLE_TIME - maximum connection idle time (default: 10m)
//   - REDIS_RETRY_ATTEMPTS, REDIS_RETRY_INTERVAL - startup retries (default: 3, 2s)
//   - REDIS_TIMEOUT - dial, read and write timeout (default: 3s)
//
// # Usage
//
//	cfg, err := env.ParseAs[redis.Config]()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := redis.Open(ctx, cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	store := oauth.NewRedisStateStore(client, "wechat:state", 0)
//
// # Health Checks
//
// [Healthcheck] returns a func(context.Context) error for readiness endpoints.
// It issues GETDEL on a key that is never written, so a server older than
// Redis 6.2 is reported as unhealthy with [ErrNoGetDel].
//
// # Error Handling
//
//   - [ErrNoURL] - REDIS_URL is empty
//   - [ErrInvalidURL] - Invalid connection URL format or scheme
//   - [ErrUnreachable] - Connection failed after all retry attempts
//   - [ErrUnhealthy] - Health check failed
//   - [ErrNoGetDel] - Server cannot consume states atomically
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package redis
