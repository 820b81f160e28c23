package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/YayaHook/internal/pkg/env"
)

const (
	DefaultReplayWindow = 300 * time.Second
	DefaultTimeout      = 10 * time.Second
	DefaultRateLimit    = 120
)

var ErrMissingSecret = errors.New("config: YAYA_WEBHOOK_SECRET is not set")

// Config is built once at start-up and passed by value afterwards.
type Config struct {
	Host string
	Port string

	WebhookSecret string
	ReplayWindow  time.Duration
	Timeout       time.Duration
	RateLimit     int

	Database Database
	Cache    Cache
}

type Database struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DSN returns the go-sql-driver/mysql data source name.
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// MigrateURL returns the golang-migrate mysql URL.
func (d Database) MigrateURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type Cache struct {
	Host     string
	Port     string
	Password string
}

func (c Cache) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// LoadDatabase reads only the MySQL settings. The migrator uses it directly
// since it has no use for the webhook secret.
func LoadDatabase() Database {
	return Database{
		User:     env.GetEnv("DB_USER", "yayahook"),
		Password: env.GetEnv("DB_PASSWORD", ""),
		Host:     env.GetEnv("DB_HOST", "127.0.0.1"),
		Port:     env.GetEnv("DB_PORT", "3306"),
		Name:     env.GetEnv("DB_NAME", "yayahook"),
	}
}

// Load reads the configuration from the environment. env.SetupEnvFile should
// have run before.
func Load() (Config, error) {
	secret := strings.TrimSpace(env.GetEnv("YAYA_WEBHOOK_SECRET", env.GetEnv("SECRET_KEY", "")))
	if secret == "" {
		return Config{}, ErrMissingSecret
	}

	cfg := Config{
		Host:          env.GetEnv("APP_HOST", "localhost"),
		Port:          env.GetEnv("APP_PORT", "4000"),
		WebhookSecret: secret,
		ReplayWindow:  env.GetDuration("WEBHOOK_REPLAY_WINDOW", DefaultReplayWindow),
		Timeout:       env.GetDuration("WEBHOOK_TIMEOUT", DefaultTimeout),
		RateLimit:     env.GetInt("WEBHOOK_RATE_LIMIT", DefaultRateLimit),
		Database:      LoadDatabase(),
		Cache: Cache{
			Host:     env.GetEnv("CACHE_HOST", "localhost"),
			Port:     env.GetEnv("CACHE_PORT", "6379"),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
		},
	}

	if cfg.ReplayWindow <= 0 {
		return Config{}, fmt.Errorf("config: WEBHOOK_REPLAY_WINDOW must be positive, got %s", cfg.ReplayWindow)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	return cfg, nil
}
