package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"justeat/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func listing(n int) []models.Restaurant {
	restaurants := make([]models.Restaurant, n)
	for i := range restaurants {
		restaurants[i].ID = uint(i + 1)
		restaurants[i].Name = "Restaurant"
	}
	return restaurants
}

// unreachable points at a port nothing listens on.
func unreachable(t *testing.T) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRestaurantsWithoutRedisLoadsFromDatabase(t *testing.T) {
	calls := 0
	load := func(context.Context) ([]models.Restaurant, error) {
		calls++
		return listing(5), nil
	}

	var nilCache *Restaurants
	got, err := nilCache.Active(context.Background(), 1, 2, load)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, uint(2), got[0].ID)

	c := NewRestaurants(nil, time.Minute, quietLogger())
	got, err = c.Active(context.Background(), 4, 10, load)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 2, calls)

	c.Invalidate(context.Background())
}

func TestRestaurantsFallsBackWhenRedisIsDown(t *testing.T) {
	c := NewRestaurants(unreachable(t), time.Minute, quietLogger())
	got, err := c.Active(context.Background(), 0, 0, func(context.Context) ([]models.Restaurant, error) {
		return listing(3), nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	c.Invalidate(context.Background())
}

func TestSliceBounds(t *testing.T) {
	all := listing(3)
	require.Empty(t, slice(all, 3, 1))
	require.Len(t, slice(all, 0, 0), 3)
	require.Len(t, slice(all, 1, 5), 2)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	var nilLimiter *RateLimiter
	require.True(t, nilLimiter.Allow(context.Background(), "1"))

	l := NewRateLimiter(unreachable(t), "cart_adds", 1, time.Minute, quietLogger())
	for i := 0; i < 3; i++ {
		require.True(t, l.Allow(context.Background(), "1"))
	}
}
