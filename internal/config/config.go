package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppDir is the directory name under the user config dir
const AppDir = "nu_plugin_desktop_notifications"

// EnvPrefix prefixes every environment override
const EnvPrefix = "NU_PLUGIN_NOTIFY_"

// ErrUnsupportedFormat is returned for config files that are neither JSON nor YAML
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// Configuration represents the plugin configuration
type Configuration struct {
	Encoding        string `koanf:"encoding" yaml:"encoding" validate:"oneof=msgpack json"`
	Backend         string `koanf:"backend" yaml:"backend" validate:"oneof=auto dbus osascript beeep"`
	ProtocolVersion string `koanf:"protocol_version" yaml:"protocol_version" validate:"required"`
	LogLevel        string `koanf:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFile         string `koanf:"log_file" yaml:"log_file,omitempty"`
}

// Load loads configuration from the user config file, the explicit path and
// the environment.
// Priority: Environment variables > explicit config > user config > Defaults
func Load(configPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if userPath, ok := UserConfigPath(); ok {
		if err := loadFile(k, userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
		if err := loadFile(k, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFile = expandHomePath(cfg.LogFile)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// UserConfigPath returns the first existing user config file.
// Candidates live in $XDG_CONFIG_HOME/nu_plugin_desktop_notifications.
func UserConfigPath() (string, bool) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	for _, name := range []string{"config.yml", "config.yaml", "config.json"} {
		path := filepath.Join(dir, AppDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// loadFile merges path into k with the parser matching its extension
func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parser = json.Parser()
	case ".yml", ".yaml":
		parser = YAMLParser()
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// envTransform converts environment variable names to config keys
// Example: NU_PLUGIN_NOTIFY_LOG_LEVEL -> log_level
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
