package types

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	User      UserConfig      `mapstructure:"user" validate:"required"`
	Project   ProjectConfig   `mapstructure:"project" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Archive   ArchiveConfig   `mapstructure:"archive" validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// UserConfig identifies the acting account.
type UserConfig struct {
	ID string `mapstructure:"id" validate:"required"`
}

// ProjectConfig holds workspace-related settings.
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
	DataDir string `mapstructure:"dataDir" validate:"required"`
}

// DataConfig holds settings for the live collection files.
type DataConfig struct {
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// ArchiveConfig holds settings for the archive database.
type ArchiveConfig struct {
	File string `mapstructure:"file" validate:"required"`
	// PendingGraceMinutes is how old a pending record must be before
	// the reconciliation sweep will touch it.
	PendingGraceMinutes int `mapstructure:"pendingGraceMinutes" validate:"min=0"`
}

// TelemetryConfig controls the audit/event sink.
type TelemetryConfig struct {
	Disabled bool   `mapstructure:"disabled"`
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint"`
}
