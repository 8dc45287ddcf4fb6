package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"justeat/models"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig("does-not-exist.yaml")
	require.NoError(t, err)
	require.Equal(t, Default().Server.Port, config.Server.Port)
	require.Equal(t, "sqlite", config.Database.Driver)
}

func TestLoadConfigFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: mysql
  host: db.internal
  port: "3306"
redis:
  addr: localhost:6379
  cacheTTL: 1m
server:
  port: "8080"
jwt:
  ttl: 2h
`), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("REDIS_DB", "3")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "mysql", config.Database.Driver)
	require.Equal(t, "db.internal", config.Database.Host)
	require.Equal(t, time.Minute, config.Redis.CacheTTL)
	require.Equal(t, int64(30), config.Redis.CartAddsPerMinute)
	require.Equal(t, 2*time.Hour, config.JWT.TTL)
	require.Equal(t, "9090", config.Server.Port)
	require.Equal(t, "from-env", config.JWT.Secret)
	require.Equal(t, 3, config.Redis.Database)
}

func TestLoadConfigRejectsBadEnvironment(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")

	_, err := LoadConfig("missing.yaml")
	require.Error(t, err)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := dialector(DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}

func TestSeedLookupsIsIdempotent(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	db, err := SetupDatabase(DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + filepath.Join(t.TempDir(), "seed.db") + "?_foreign_keys=on",
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, SeedLookups(db))
	require.NoError(t, SeedLookups(db))

	var cuisines, categories int64
	require.NoError(t, db.Model(&models.Cuisine{}).Count(&cuisines).Error)
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.Equal(t, int64(len(seedCuisines)), cuisines)
	require.Equal(t, int64(len(seedCategories)), categories)
}
