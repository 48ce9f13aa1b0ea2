// Package config loads the server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file, then the process environment. Later layers win. Variables already
// set in the environment are never overwritten by the .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// MinSecretLength is the minimum JWT signing secret size in bytes.
const MinSecretLength = 32

// ConfigPathEnv names the variable holding the YAML file path when no path is given.
const ConfigPathEnv = "WEALTHWISE_CONFIG"

type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Redis       RedisConfig       `yaml:"redis"`
	Log         LogConfig         `yaml:"log"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	// RevocationCapacity bounds the number of logged-out tokens remembered.
	RevocationCapacity int `yaml:"revocation_capacity"`

	LoginMaxAttempts int           `yaml:"login_max_attempts"`
	LoginWindow      time.Duration `yaml:"login_window"`
}

// RedisConfig enables the shared login limiter when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MaintenanceConfig struct {
	// PurgeSchedule is a standard cron expression. Empty disables the job.
	PurgeSchedule string `yaml:"purge_schedule"`

	// InviteRetention is how long used invites are kept.
	InviteRetention time.Duration `yaml:"invite_retention"`
}

// Default returns the configuration used when nothing overrides it.
// JWTSecret has no default and must be supplied.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "./data/wealthwise.db"},
		Auth: AuthConfig{
			TokenTTL:           24 * time.Hour,
			RevocationCapacity: 10000,
			LoginMaxAttempts:   5,
			LoginWindow:        15 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Maintenance: MaintenanceConfig{
			PurgeSchedule:   "30 3 * * *",
			InviteRetention: 7 * 24 * time.Hour,
		},
	}
}

// Load builds the configuration. configPath falls back to $WEALTHWISE_CONFIG;
// both may be empty. envPath is a dotenv file that is skipped if missing.
func Load(configPath, envPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = os.Getenv(ConfigPathEnv)
	}
	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, err
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.Path, "DB_PATH")
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Maintenance.PurgeSchedule, "PURGE_SCHEDULE")

	return errors.Join(
		setDuration(&c.Auth.TokenTTL, "TOKEN_TTL"),
		setDuration(&c.Auth.LoginWindow, "LOGIN_WINDOW"),
		setInt(&c.Auth.LoginMaxAttempts, "LOGIN_MAX_ATTEMPTS"),
		setInt(&c.Auth.RevocationCapacity, "REVOCATION_CAPACITY"),
		setInt(&c.Redis.DB, "REDIS_DB"),
	)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if c.Auth.LoginMaxAttempts < 1 {
		errs = append(errs, errors.New("login max attempts must be at least 1"))
	}
	if c.Auth.LoginWindow <= 0 {
		errs = append(errs, errors.New("login window must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}
	if c.Maintenance.PurgeSchedule != "" {
		if _, err := cron.ParseStandard(c.Maintenance.PurgeSchedule); err != nil {
			errs = append(errs, fmt.Errorf("purge schedule: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Log.Level)
}
