package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const allowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// KeyPrefix namespaces the counters in Redis.
const KeyPrefix = "planpal:rl:"

const evalTimeout = 500 * time.Millisecond

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLimiter is a fixed-window counter per key. Redis errors let the call through.
type RedisLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
	logger *zap.Logger
}

// NewRedisLimiter returns nil when client is nil, which callers treat as "no limiter".
func NewRedisLimiter(client *redis.Client, window time.Duration, max int, logger *zap.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	return newRedisLimiter(client, window, max, logger)
}

func newRedisLimiter(client redisEvaler, window time.Duration, max int, logger *zap.Logger) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: KeyPrefix,
		logger: logger.Named("ratelimit"),
	}
}

// Allow counts one call against key and reports whether it is within the window budget.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, evalTimeout)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, allowScript, []string{l.prefix + normalizedKey}, seconds).Int()
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing", zap.String("key", normalizedKey), zap.Error(err))
		return true
	}
	return count <= l.max
}

// NewClient opens a Redis client and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
