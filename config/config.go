package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	Debug    bool   `yaml:"debug"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
	// CacheTTL bounds how long the restaurant listing stays cached.
	CacheTTL time.Duration `yaml:"cacheTTL"`
	// CartAddsPerMinute limits add-to-cart calls per customer; 0 disables it.
	CartAddsPerMinute int64 `yaml:"cartAddsPerMinute"`
}

type ServerConfig struct {
	Port         string   `yaml:"port"`
	UploadsDir   string   `yaml:"uploadsDir"`
	AllowOrigins []string `yaml:"allowOrigins"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Server   ServerConfig   `yaml:"server"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", DSN: "justeat.db"},
		Redis:    RedisConfig{CacheTTL: 5 * time.Minute, CartAddsPerMinute: 30},
		Server:   ServerConfig{Port: "3000", UploadsDir: "./uploads", AllowOrigins: []string{"*"}},
		JWT:      JWTConfig{Secret: "changeme", TTL: 24 * time.Hour},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads filename over the defaults, then applies a .env file and
// the process environment. A missing config file is not an error.
func LoadConfig(filename string) (Config, error) {
	config := Default()
	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, errors.Wrapf(err, "decode %s", filename)
		}
	case !os.IsNotExist(err):
		return config, errors.Wrapf(err, "open %s", filename)
	}

	// .env is optional as well; real environment variables win over it.
	_ = godotenv.Load()
	if err := applyEnv(&config); err != nil {
		return config, err
	}
	return config, nil
}

func applyEnv(config *Config) error {
	setString(&config.Database.Driver, "DB_DRIVER")
	setString(&config.Database.DSN, "DB_DSN")
	setString(&config.Database.Username, "DB_USERNAME")
	setString(&config.Database.Password, "DB_PASSWORD")
	setString(&config.Database.Host, "DB_HOST")
	setString(&config.Database.Port, "DB_PORT")
	setString(&config.Database.Database, "DB_NAME")
	setString(&config.Redis.Addr, "REDIS_ADDR")
	setString(&config.Redis.Password, "REDIS_PASSWORD")
	setString(&config.Server.Port, "PORT")
	setString(&config.Server.UploadsDir, "UPLOADS_DIR")
	setString(&config.JWT.Secret, "JWT_SECRET")
	setString(&config.Log.Level, "LOG_LEVEL")
	setString(&config.Log.Format, "LOG_FORMAT")

	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "REDIS_DB")
		}
		config.Redis.Database = n
	}
	if v, ok := os.LookupEnv("JWT_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "JWT_TTL")
		}
		config.JWT.TTL = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
