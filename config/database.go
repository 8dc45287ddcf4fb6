package config

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"justeat/models"
)

func dialector(config DatabaseConfig) (gorm.Dialector, error) {
	switch config.Driver {
	case "mysql":
		dsn := config.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				config.Username,
				config.Password,
				config.Host,
				config.Port,
				config.Database,
			)
		}
		return mysql.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(config.DSN), nil
	default:
		return nil, errors.Errorf("unsupported database driver %q", config.Driver)
	}
}

// OpenDatabase connects to the configured store. SQL statements are logged
// through log at warn level, or at info level when debug is set.
func OpenDatabase(config DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	d, err := dialector(config)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if config.Debug {
		level = logger.Info
	}
	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(models.All()...), "migrate")
}

// SetupDatabase opens and migrates the store.
func SetupDatabase(config DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	db, err := OpenDatabase(config, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// SetupRedisConnection returns nil when no address is configured; callers
// treat a nil client as "cache disabled".
func SetupRedisConnection(ctx context.Context, config RedisConfig) (*redis.Client, error) {
	if config.Addr == "" {
		return nil, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.Database,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return redisClient, nil
}
