package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimiter counts events per key in fixed windows. Without a client, or
// when Redis fails, every event is allowed.
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
	log    logrus.FieldLogger
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int64, window time.Duration, log logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window, log: log}
}

// Allow records one event for key and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return true
	}

	fullKey := fmt.Sprintf("%s:%s", l.prefix, key)
	pipe := l.rdb.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.log.WithError(err).WithField("key", fullKey).Warn("Rate limiter unavailable, allowing request")
		return true
	}
	return incr.Val() <= l.limit
}
