package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Audit      AuditConfig      `yaml:"audit"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the HTTP server configuration.
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

// SchedulerConfig holds the schedule-realism knobs of the HOS planner.
// Regulatory limits are fixed in code and deliberately absent here.
type SchedulerConfig struct {
	AverageSpeedMPH   float64 `yaml:"average_speed_mph"`
	FuelIntervalMiles float64 `yaml:"fuel_interval_miles"`
	FuelStopMinutes   int     `yaml:"fuel_stop_minutes"`
	PickupMinutes     int     `yaml:"pickup_minutes"`
	DropoffMinutes    int     `yaml:"dropoff_minutes"`
}

// AuditConfig holds the background compliance auditor configuration.
type AuditConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
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

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Scheduler.AverageSpeedMPH <= 0 {
		cfg.Scheduler.AverageSpeedMPH = 65
	}
	if cfg.Scheduler.FuelIntervalMiles <= 0 {
		cfg.Scheduler.FuelIntervalMiles = 1000
	}
	if cfg.Scheduler.FuelStopMinutes <= 0 {
		cfg.Scheduler.FuelStopMinutes = 30
	}
	if cfg.Scheduler.PickupMinutes <= 0 {
		cfg.Scheduler.PickupMinutes = 30
	}
	if cfg.Scheduler.DropoffMinutes <= 0 {
		cfg.Scheduler.DropoffMinutes = 30
	}

	if cfg.Audit.IntervalSeconds <= 0 {
		cfg.Audit.IntervalSeconds = 300
	}
	cfg.Audit.Interval = time.Duration(cfg.Audit.IntervalSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
