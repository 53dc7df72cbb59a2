package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose     = "verbose"
	FlagConfig      = "config"
	FlagLogFile     = "log-file"
	FlagStorageFile = "storage-file"
	FlagStorageKey  = "storage-key"

	// Start command flags
	FlagLine          = "line"
	FlagAltScreen     = "alt-screen"
	FlagErrorLimit    = "error-limit"
	FlagLockout       = "lockout"
	FlagResetOnSubmit = "reset-on-submit"

	// Start and submit command flags
	FlagSubmitDelay = "submit-delay"

	// Events command flags
	FlagFollow = "follow"
	FlagCount  = "count"

	// Output format flags
	FlagJSON = "json"
)
