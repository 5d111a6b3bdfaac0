package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "basetracker"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "basetracker"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "basetracker.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Catalog defaults
	if cfg.Catalog.Dir == "" {
		cfg.Catalog.Dir = "./catalog"
	}

	// Scheduler defaults
	if cfg.Scheduler.TickInterval == 0 {
		cfg.Scheduler.TickInterval = 30 * time.Second
	}
	if cfg.Scheduler.FallbackBuildTime == 0 {
		cfg.Scheduler.FallbackBuildTime = time.Hour
	}
	if cfg.Scheduler.DueHorizon == 0 {
		cfg.Scheduler.DueHorizon = 24 * time.Hour
	}

	// Snapshot defaults
	if cfg.Snapshot.Dir == "" {
		cfg.Snapshot.Dir = "./snapshots"
	}
	if cfg.Snapshot.Keep == 0 {
		cfg.Snapshot.Keep = 10
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
