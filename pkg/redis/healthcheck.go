package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// healthcheckKey is never written; GETDEL on it only proves the command exists.
const healthcheckKey = "wechatauth:healthcheck"

// Healthcheck returns a readiness probe for the state store backend.
// It satisfies health.CheckFunc.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrUnhealthy
		}
		err := client.GetDel(ctx, healthcheckKey).Err()
		switch {
		case err == nil, errors.Is(err, redis.Nil):
			return nil
		case isUnknownCommand(err):
			return errors.Join(ErrUnhealthy, ErrNoGetDel, err)
		default:
			return errors.Join(ErrUnhealthy, err)
		}
	}
}

func isUnknownCommand(err error) bool {
	var rerr redis.Error
	return errors.As(err, &rerr) && strings.HasPrefix(strings.ToUpper(rerr.Error()), "ERR UNKNOWN COMMAND")
}
