package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default year bounds accepted by plan operations. Anything outside is
// almost certainly a typo rather than a real planning horizon.
const (
	DefaultMinYear = 2000
	DefaultMaxYear = 2100
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Planner  PlannerConfig  `yaml:"planner"`
	Push     PushConfig     `yaml:"push"`
	Reminder ReminderConfig `yaml:"reminder"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PlannerConfig holds the recurrence-generation conventions.
type PlannerConfig struct {
	AnchorDay int `yaml:"anchor_day"`
	MinYear   int `yaml:"min_year"`
	MaxYear   int `yaml:"max_year"`
}

// PushConfig holds the VAPID keys for web push reminders.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ReminderConfig holds the overdue-reminder poller configuration.
type ReminderConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	WorkerPoolSize  int           `yaml:"worker_pool_size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Planner.AnchorDay < 1 || cfg.Planner.AnchorDay > 31 {
		cfg.Planner.AnchorDay = 15
	}
	if cfg.Planner.MinYear <= 0 {
		cfg.Planner.MinYear = DefaultMinYear
	}
	if cfg.Planner.MaxYear <= 0 {
		cfg.Planner.MaxYear = DefaultMaxYear
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Reminder.IntervalSeconds <= 0 {
		cfg.Reminder.IntervalSeconds = 3600
	}
	cfg.Reminder.Interval = time.Duration(cfg.Reminder.IntervalSeconds) * time.Second

	if cfg.Reminder.WorkerPoolSize <= 0 {
		log.Printf("reminder.worker_pool_size is not set or invalid; defaulting to 1")
		cfg.Reminder.WorkerPoolSize = 1
	}

	return &cfg, nil
}
