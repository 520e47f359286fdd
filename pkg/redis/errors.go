package redis

import "errors"

// Errors returned while opening or probing the state store backend.
var (
	ErrNoURL       = errors.New("redis: state store URL is empty")
	ErrInvalidURL  = errors.New("redis: state store URL must be redis:// or rediss://")
	ErrUnreachable = errors.New("redis: state store unreachable")
	ErrUnhealthy   = errors.New("redis: state store unhealthy")
	// ErrNoGetDel means the server predates Redis 6.2; single-use states rely on GETDEL.
	ErrNoGetDel = errors.New("redis: server does not support GETDEL")
)
