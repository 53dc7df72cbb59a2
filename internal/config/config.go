// Package config provides configuration types and defaults for applyform.
package config

import "time"

// Config holds all configuration for applyform.
type Config struct {
	Form        FormConfig        `yaml:"form" mapstructure:"form"`
	Submission  SubmissionConfig  `yaml:"submission" mapstructure:"submission"`
	Storage     StorageConfig     `yaml:"storage" mapstructure:"storage"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	UI          UIConfig          `yaml:"ui" mapstructure:"ui"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// FormConfig holds the step navigation and lockout settings.
type FormConfig struct {
	ErrorLimit      int           `yaml:"error_limit" mapstructure:"error_limit"`           // Failed advances before lockout
	LockoutDuration time.Duration `yaml:"lockout_duration" mapstructure:"lockout_duration"` // How long a lockout lasts
	ResetOnSubmit   bool          `yaml:"reset_on_submit" mapstructure:"reset_on_submit"`   // Clear data and return to step 1 after a successful submission
}

// SubmissionConfig holds settings for the simulated submission sink.
type SubmissionConfig struct {
	Delay time.Duration `yaml:"delay" mapstructure:"delay"` // Simulated latency before a submission settles
}

// StorageConfig holds settings for the local key-value slot.
type StorageConfig struct {
	Key string `yaml:"key" mapstructure:"key"` // Slot key holding the serialized application
}

// PathsConfig holds file paths for the storage file and the activity log.
type PathsConfig struct {
	Storage string `yaml:"storage" mapstructure:"storage"`
	Log     string `yaml:"log" mapstructure:"log"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	ToastDuration time.Duration `yaml:"toast_duration" mapstructure:"toast_duration"` // How long notifications stay on screen
	AltScreen     bool          `yaml:"alt_screen" mapstructure:"alt_screen"`         // Use the terminal's alternate screen
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// DefaultStorageKey is the slot key the application is saved under.
const DefaultStorageKey = "formData"

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Form: FormConfig{
			ErrorLimit:      3,
			LockoutDuration: 30 * time.Second,
			ResetOnSubmit:   false,
		},
		Submission: SubmissionConfig{
			Delay: 1500 * time.Millisecond,
		},
		Storage: StorageConfig{
			Key: DefaultStorageKey,
		},
		Paths: PathsConfig{
			Storage: ".applyform/storage.json",
			Log:     ".applyform/activity.log",
		},
		UI: UIConfig{
			ToastDuration: 4 * time.Second,
			AltScreen:     true,
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
