package config

import "time"

// CatalogConfig locates the structure catalog documents
type CatalogConfig struct {
	// Dir is the root of the per-category document tree
	// (army/, resources/, defenses/, traps/)
	Dir string `mapstructure:"dir" validate:"required"`
}

// SchedulerConfig tunes the builder scheduler daemon loop
type SchedulerConfig struct {
	// TickInterval is how often the daemon advances the scheduler
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"omitempty,min=1s"`

	// FallbackBuildTime is used when the catalog carries no build time
	// for an upgrade
	FallbackBuildTime time.Duration `mapstructure:"fallback_build_time"`

	// DueHorizon bounds the dashboard's due-soon listing
	DueHorizon time.Duration `mapstructure:"due_horizon"`
}

// SnapshotConfig controls the compressed on-disk state snapshots written
// alongside the database
type SnapshotConfig struct {
	// Enabled toggles snapshot writing
	Enabled bool `mapstructure:"enabled"`

	// Dir is where snapshot files are written
	Dir string `mapstructure:"dir"`

	// Keep is how many snapshot files are retained
	Keep int `mapstructure:"keep" validate:"omitempty,min=1"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}
