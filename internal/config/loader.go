package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config file locations.
const (
	// GlobalConfigDir is the directory under $XDG_CONFIG_HOME (or ~/.config).
	GlobalConfigDir = "applyform"
	// ProjectConfigDir is the working-directory-local config directory.
	ProjectConfigDir = ".applyform"
	// ConfigFileName is the file name used in both locations.
	ConfigFileName = "config.yaml"
)

// LoadConfig builds the configuration. Later sources override earlier ones:
//  1. Default()
//  2. $XDG_CONFIG_HOME/applyform/config.yaml
//  3. .applyform/config.yaml
//  4. the file named by the "config" key (--config / APPLYFORM_CONFIG), which must exist
//  5. values already set on v (env, bound flags)
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := Default()

	defaults, err := toSettings(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	if err := v.MergeConfigMap(defaults); err != nil {
		return nil, fmt.Errorf("merge defaults: %w", err)
	}

	for _, path := range []string{globalConfigPath(), projectConfigPath()} {
		if path == "" {
			continue
		}
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	if explicit := v.GetString("config"); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := mergeFile(v, explicit); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg, decodeHooks()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the form cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Form.ErrorLimit < 1 {
		errs = append(errs, fmt.Errorf("form.error_limit must be at least 1, got %d", c.Form.ErrorLimit))
	}
	if c.Form.LockoutDuration <= 0 {
		errs = append(errs, fmt.Errorf("form.lockout_duration must be positive, got %s", c.Form.LockoutDuration))
	}
	if c.Submission.Delay < 0 {
		errs = append(errs, fmt.Errorf("submission.delay must not be negative, got %s", c.Submission.Delay))
	}
	if c.Storage.Key == "" {
		errs = append(errs, errors.New("storage.key must not be empty"))
	}
	if c.Paths.Storage == "" {
		errs = append(errs, errors.New("paths.storage must not be empty"))
	}
	return errors.Join(errs...)
}

func globalConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return existing(filepath.Join(dir, GlobalConfigDir, ConfigFileName))
}

func projectConfigPath() string {
	return existing(filepath.Join(ProjectConfigDir, ConfigFileName))
}

func existing(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// mergeFile reads a YAML file into a scratch viper and merges its settings.
func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scratch := viper.New()
	scratch.SetConfigType("yaml")
	if err := scratch.ReadConfig(f); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return v.MergeConfigMap(scratch.AllSettings())
}

func decodeHooks() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// toSettings flattens cfg into the nested map form viper merges.
// Durations become strings so they read back like values from YAML.
func toSettings(cfg *Config) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		Result:     &out,
		DecodeHook: durationAsString,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return out, nil
}

func durationAsString(from, _ reflect.Type, data interface{}) (interface{}, error) {
	if from != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	return data.(time.Duration).String(), nil
}
