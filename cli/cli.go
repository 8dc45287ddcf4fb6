// Package cli wires configuration, storage and services together behind the
// justeat command.
package cli

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"justeat/cache"
	"justeat/config"
	"justeat/handlers"
	"justeat/jwt"
	"justeat/logging"
	"justeat/metrics"
	"justeat/services"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "justeat",
	Short:         "Food ordering API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// Execute runs the command named on the command line.
func Execute() error {
	return rootCmd.Execute()
}

// app holds everything built from the configuration.
type app struct {
	config  config.Config
	log     *logrus.Logger
	db      *gorm.DB
	rdb     *redis.Client
	metrics *metrics.Metrics
	handler *handlers.Handler
	limiter *cache.RateLimiter
}

func loadConfig() (config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, nil, errors.Wrap(err, "load config")
	}
	return cfg, logging.New(cfg.Log), nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := config.SetupDatabase(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	rdb, err := config.SetupRedisConnection(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache and rate limiting")
		rdb = nil
	}

	m := metrics.New()
	restaurantCache := cache.NewRestaurants(rdb, cfg.Redis.CacheTTL, log)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	return &app{
		config:  cfg,
		log:     log,
		db:      db,
		rdb:     rdb,
		metrics: m,
		limiter: cache.NewRateLimiter(rdb, "cart_adds", cfg.Redis.CartAddsPerMinute, time.Minute, log),
		handler: &handlers.Handler{
			Auth:        services.NewAuthService(db, tokens, log),
			Carts:       services.NewCartService(db, log),
			Orders:      services.NewOrderService(db, log, m, restaurantCache),
			Restaurants: services.NewRestaurantService(db, log, restaurantCache),
			MenuItems:   services.NewMenuItemService(db, log),
			Favorites:   services.NewFavoriteService(db, log),
			Search:      services.NewSearchService(db),
			UploadsDir:  cfg.Server.UploadsDir,
			Log:         log,
		},
	}, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
