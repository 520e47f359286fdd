package redis

import (
	"context"
	"io"
)

// Shutdown returns a function that closes the Redis client,
// for use in the server's shutdown sequence.
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
