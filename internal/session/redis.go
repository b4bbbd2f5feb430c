// Package session holds the authentication state that outlives a request:
// signed access tokens and the redis-backed revocation list.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"projecthub/internal/observability"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewRedisClient builds a client for addr, which may be host:port or a
// redis:// URL. The client is instrumented but not yet connected.
func NewRedisClient(addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})
	return client, nil
}

// ConnectRedis returns a connected client, or nil when redis is unreachable.
// The application keeps running without revocation or rate limiting.
func ConnectRedis(addr string) *redis.Client {
	client, err := NewRedisClient(addr)
	if err != nil {
		observability.Logger.Warn().Err(err).Str("addr", addr).Msg("invalid REDIS_URL, continuing without redis")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		observability.Logger.Warn().Err(err).Msg("redis unreachable, continuing without redis")
		_ = client.Close()
		return nil
	}

	observability.Logger.Info().Msg("Redis connected successfully")
	return client
}
