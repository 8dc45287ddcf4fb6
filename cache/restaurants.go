// Package cache keeps Redis-backed views of hot catalog reads and the cart
// rate limiter. Every type here tolerates a nil client or an unreachable
// server by falling through to the database; cache errors are logged and
// never returned to callers.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"justeat/models"
)

const activeRestaurantsKey = "restaurants:active"

// RestaurantLoader reads the active restaurant listing from the database.
type RestaurantLoader func(ctx context.Context) ([]models.Restaurant, error)

// Restaurants caches the active restaurant listing as a sorted set. Members
// are JSON documents scored by their position in the listing.
type Restaurants struct {
	rdb *redis.Client
	ttl time.Duration
	log logrus.FieldLogger
}

func NewRestaurants(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *Restaurants {
	return &Restaurants{rdb: rdb, ttl: ttl, log: log}
}

func (c *Restaurants) enabled() bool {
	return c != nil && c.rdb != nil
}

// Active returns limit restaurants starting at offset. A non-positive limit
// returns everything from offset on.
func (c *Restaurants) Active(ctx context.Context, offset, limit int, load RestaurantLoader) ([]models.Restaurant, error) {
	if !c.enabled() {
		return page(ctx, load, offset, limit)
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}
	members, err := c.rdb.ZRange(ctx, activeRestaurantsKey, int64(offset), stop).Result()
	if err == nil && len(members) > 0 {
		restaurants, ok := c.decode(members)
		if ok {
			return restaurants, nil
		}
	}
	if err != nil {
		c.log.WithError(err).Warn("Failed to read restaurant listing from redis")
	}

	all, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, all)
	return slice(all, offset, limit), nil
}

// Invalidate drops the cached listing. Called after any change that affects
// an active restaurant.
func (c *Restaurants) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, activeRestaurantsKey).Err(); err != nil {
		c.log.WithError(err).Warn("Failed to invalidate restaurant listing")
	}
}

func (c *Restaurants) decode(members []string) ([]models.Restaurant, bool) {
	restaurants := make([]models.Restaurant, 0, len(members))
	for _, member := range members {
		var restaurant models.Restaurant
		if err := json.Unmarshal([]byte(member), &restaurant); err != nil {
			c.log.WithError(err).Warn("Discarding undecodable cached restaurant")
			return nil, false
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, true
}

func (c *Restaurants) store(ctx context.Context, restaurants []models.Restaurant) {
	if len(restaurants) == 0 {
		return
	}
	members := make([]redis.Z, 0, len(restaurants))
	for i, restaurant := range restaurants {
		data, err := json.Marshal(restaurant)
		if err != nil {
			c.log.WithError(err).WithField("restaurant_id", restaurant.ID).Warn("Failed to encode restaurant for cache")
			return
		}
		members = append(members, redis.Z{Score: float64(i), Member: data})
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, activeRestaurantsKey)
	pipe.ZAdd(ctx, activeRestaurantsKey, members...)
	if c.ttl > 0 {
		pipe.Expire(ctx, activeRestaurantsKey, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.WithError(err).Warn("Failed to cache restaurant listing")
	}
}

func page(ctx context.Context, load RestaurantLoader, offset, limit int) ([]models.Restaurant, error) {
	all, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return slice(all, offset, limit), nil
}

func slice(all []models.Restaurant, offset, limit int) []models.Restaurant {
	if offset >= len(all) {
		return []models.Restaurant{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
