package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// chdirTemp moves into a fresh directory for the duration of the test so
// project-local config files don't leak between tests.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	return tmpDir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Form.ErrorLimit != 3 {
		t.Errorf("Form.ErrorLimit = %d, want 3", cfg.Form.ErrorLimit)
	}
	if cfg.Form.LockoutDuration != 30*time.Second {
		t.Errorf("Form.LockoutDuration = %v, want 30s", cfg.Form.LockoutDuration)
	}
	if cfg.Storage.Key != DefaultStorageKey {
		t.Errorf("Storage.Key = %q, want %q", cfg.Storage.Key, DefaultStorageKey)
	}
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	chdirTemp(t)

	writeConfig(t, filepath.Join(ProjectConfigDir, ConfigFileName), `
form:
  error_limit: 5
  lockout_duration: 1m
  reset_on_submit: true
submission:
  delay: 250ms
storage:
  key: draft
`)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Form.ErrorLimit != 5 {
		t.Errorf("Form.ErrorLimit = %d, want 5", cfg.Form.ErrorLimit)
	}
	if cfg.Form.LockoutDuration != time.Minute {
		t.Errorf("Form.LockoutDuration = %v, want 1m", cfg.Form.LockoutDuration)
	}
	if !cfg.Form.ResetOnSubmit {
		t.Error("Form.ResetOnSubmit = false, want true")
	}
	if cfg.Submission.Delay != 250*time.Millisecond {
		t.Errorf("Submission.Delay = %v, want 250ms", cfg.Submission.Delay)
	}
	if cfg.Storage.Key != "draft" {
		t.Errorf("Storage.Key = %q, want %q", cfg.Storage.Key, "draft")
	}
	// Untouched sections keep defaults
	if cfg.Paths.Storage != ".applyform/storage.json" {
		t.Errorf("Paths.Storage = %q, want default", cfg.Paths.Storage)
	}
}

func TestLoadConfig_GlobalThenProject(t *testing.T) {
	dir := chdirTemp(t)

	writeConfig(t, filepath.Join(dir, "xdg", GlobalConfigDir, ConfigFileName), `
form:
  error_limit: 4
ui:
  toast_duration: 10s
`)
	writeConfig(t, filepath.Join(ProjectConfigDir, ConfigFileName), `
form:
  error_limit: 6
`)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Form.ErrorLimit != 6 {
		t.Errorf("project file should win: Form.ErrorLimit = %d, want 6", cfg.Form.ErrorLimit)
	}
	if cfg.UI.ToastDuration != 10*time.Second {
		t.Errorf("global value should survive: UI.ToastDuration = %v, want 10s", cfg.UI.ToastDuration)
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "custom.yaml")
	writeConfig(t, path, "form:\n  lockout_duration: 45s\n")

	v := viper.New()
	v.Set("config", path)

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Form.LockoutDuration != 45*time.Second {
		t.Errorf("Form.LockoutDuration = %v, want 45s", cfg.Form.LockoutDuration)
	}
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	chdirTemp(t)

	v := viper.New()
	v.Set("config", "/nonexistent/path/config.yaml")

	if _, err := LoadConfig(v); err == nil {
		t.Error("LoadConfig should fail for missing explicit config")
	}
}

func TestLoadConfig_OverrideBeatsFile(t *testing.T) {
	chdirTemp(t)

	writeConfig(t, filepath.Join(ProjectConfigDir, ConfigFileName), "storage:\n  key: from-file\n")

	v := viper.New()
	// Env and flag values reach LoadConfig already set on viper
	v.Set("storage.key", "from-env")

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Storage.Key != "from-env" {
		t.Errorf("Storage.Key = %q, want %q", cfg.Storage.Key, "from-env")
	}
}

func TestLoadConfig_DurationParsing(t *testing.T) {
	dir := chdirTemp(t)

	tests := []struct {
		name    string
		yaml    string
		wantDur time.Duration
	}{
		{"seconds", "form:\n  lockout_duration: 30s", 30 * time.Second},
		{"minutes", "form:\n  lockout_duration: 5m", 5 * time.Minute},
		{"combined", "form:\n  lockout_duration: 1m30s", 90 * time.Second},
		{"milliseconds", "form:\n  lockout_duration: 1500ms", 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			writeConfig(t, path, tt.yaml)

			v := viper.New()
			v.Set("config", path)

			cfg, err := LoadConfig(v)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if cfg.Form.LockoutDuration != tt.wantDur {
				t.Errorf("got %v, want %v", cfg.Form.LockoutDuration, tt.wantDur)
			}
		})
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "bad.yaml")
	writeConfig(t, path, "form:\n  error_limit: 0\nstorage:\n  key: \"\"\n")

	v := viper.New()
	v.Set("config", path)

	_, err := LoadConfig(v)
	if err == nil {
		t.Fatal("LoadConfig should reject invalid values")
	}
	for _, want := range []string{"form.error_limit", "storage.key"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero lockout", func(c *Config) { c.Form.LockoutDuration = 0 }, true},
		{"negative delay", func(c *Config) { c.Submission.Delay = -time.Second }, true},
		{"zero delay allowed", func(c *Config) { c.Submission.Delay = 0 }, false},
		{"empty storage path", func(c *Config) { c.Paths.Storage = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
