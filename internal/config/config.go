package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Local     LocalConfig     `yaml:"local"`
	Remote    RemoteConfig    `yaml:"remote"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Broker    BrokerConfig    `yaml:"broker"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// LocalConfig locates the client-side order store.
type LocalConfig struct {
	Path     string `yaml:"path"`
	Timezone string `yaml:"timezone"`
}

type RemoteConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	Timeout   time.Duration `yaml:"timeout"`
	QueueSize int           `yaml:"queueSize"`
	Workers   int           `yaml:"workers"`
}

type ScheduleConfig struct {
	RefreshInterval time.Duration `yaml:"refreshInterval"`
	SyncInterval    time.Duration `yaml:"syncInterval"`
	SweepInterval   time.Duration `yaml:"sweepInterval"`
	RetentionWindow time.Duration `yaml:"retentionWindow"`
}

// BrokerConfig enables the cross-process store-changed broadcast when URL is set.
type BrokerConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

var defaults = map[string]any{
	"SERVER_PORT":          3001,
	"DB_HOST":              "localhost",
	"DB_PORT":              3306,
	"DB_USER":              "bakehouse",
	"DB_PASSWORD":          "secret",
	"DB_NAME":              "bakehouse",
	"DB_MAX_OPEN_CONNS":    25,
	"DB_MAX_IDLE_CONNS":    5,
	"DB_CONN_MAX_LIFETIME": "5m",
	"LOG_LEVEL":            "info",
	"LOG_ENV":              "production",
	"LOCAL_STORE_PATH":     "bakehouse.db",
	"LOCAL_TIMEZONE":       "Local",
	"REMOTE_BASE_URL":      "http://localhost:3001",
	"REMOTE_TIMEOUT":       "5s",
	"REMOTE_QUEUE_SIZE":    64,
	"REMOTE_WORKERS":       1,
	"REFRESH_INTERVAL":     "2s",
	"SYNC_INTERVAL":        "10s",
	"SWEEP_INTERVAL":       "1h",
	"RETENTION_WINDOW":     "24h",
	"BROKER_URL":           "",
	"BROKER_EXCHANGE":      "orders_changed",
	"RATE_LIMIT_RPS":       10.0,
	"RATE_LIMIT_BURST":     20,
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.AutomaticEnv()

	return fromViper(v)
}

// Defaults returns the configuration with no environment applied.
func Defaults() (*Config, error) {
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	durations := map[string]*time.Duration{}
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			Env:   v.GetString("LOG_ENV"),
		},
		Local: LocalConfig{
			Path:     v.GetString("LOCAL_STORE_PATH"),
			Timezone: v.GetString("LOCAL_TIMEZONE"),
		},
		Remote: RemoteConfig{
			BaseURL:   v.GetString("REMOTE_BASE_URL"),
			QueueSize: v.GetInt("REMOTE_QUEUE_SIZE"),
			Workers:   v.GetInt("REMOTE_WORKERS"),
		},
		Broker: BrokerConfig{
			URL:      v.GetString("BROKER_URL"),
			Exchange: v.GetString("BROKER_EXCHANGE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	durations["DB_CONN_MAX_LIFETIME"] = &cfg.Database.ConnMaxLifetime
	durations["REMOTE_TIMEOUT"] = &cfg.Remote.Timeout
	durations["REFRESH_INTERVAL"] = &cfg.Schedule.RefreshInterval
	durations["SYNC_INTERVAL"] = &cfg.Schedule.SyncInterval
	durations["SWEEP_INTERVAL"] = &cfg.Schedule.SweepInterval
	durations["RETENTION_WINDOW"] = &cfg.Schedule.RetentionWindow

	for key, dst := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*dst = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects intervals the scheduler cannot run.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value time.Duration
	}{
		{"REFRESH_INTERVAL", c.Schedule.RefreshInterval},
		{"SYNC_INTERVAL", c.Schedule.SyncInterval},
		{"SWEEP_INTERVAL", c.Schedule.SweepInterval},
		{"RETENTION_WINDOW", c.Schedule.RetentionWindow},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", check.name, check.value)
		}
	}
	return nil
}

// Location resolves the configured local timezone.
func (c LocalConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
