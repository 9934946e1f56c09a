// Package config_test tests configuration loading, precedence, and validation.
// Related: internal/config/config.go
// Tags: config, loading, env-vars, yaml, json, precedence
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir.
// Tests using it cannot run in parallel because they modify the environment.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	return tmpDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Configuration{
		Encoding:        "msgpack",
		Backend:         "auto",
		ProtocolVersion: "0.106.1",
		LogLevel:        "warn",
	}, cfg)
}

func TestLoad_ExplicitFile(t *testing.T) {
	tmpDir := isolate(t)

	tests := map[string]struct {
		name    string
		content string
	}{
		"json": {
			name:    "plugin.json",
			content: `{"encoding": "json", "backend": "dbus", "log_level": "debug"}`,
		},
		"yaml": {
			name:    "plugin.yml",
			content: "encoding: json\nbackend: dbus\nlog_level: debug\n",
		},
		"yaml long extension": {
			name:    "plugin.yaml",
			content: "encoding: json\nbackend: dbus\nlog_level: DEBUG\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tc.name)
			writeFile(t, path, tc.content)

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "json", cfg.Encoding)
			assert.Equal(t, "dbus", cfg.Backend)
			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, "0.106.1", cfg.ProtocolVersion)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	tmpDir := isolate(t)

	writeFile(t, filepath.Join(tmpDir, ".config", AppDir, "config.yml"),
		"backend: osascript\nlog_level: info\nprotocol_version: 0.100.0\n")
	explicit := filepath.Join(tmpDir, "override.json")
	writeFile(t, explicit, `{"log_level": "error"}`)
	t.Setenv("NU_PLUGIN_NOTIFY_PROTOCOL_VERSION", "0.107.0")

	cfg, err := Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "osascript", cfg.Backend, "user config over defaults")
	assert.Equal(t, "error", cfg.LogLevel, "explicit config over user config")
	assert.Equal(t, "0.107.0", cfg.ProtocolVersion, "env over everything")
	assert.Equal(t, "msgpack", cfg.Encoding)
}

func TestLoad_LogFileExpandsHome(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("NU_PLUGIN_NOTIFY_LOG_FILE", "~/notify.log")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "notify.log"), cfg.LogFile)
}

func TestLoad_Errors(t *testing.T) {
	tmpDir := isolate(t)

	tests := map[string]struct {
		name    string
		content string
		errMsg  string
	}{
		"bad encoding": {
			name:    "bad.json",
			content: `{"encoding": "xml"}`,
			errMsg:  "config validation failed",
		},
		"bad backend": {
			name:    "bad.yml",
			content: "backend: growl\n",
			errMsg:  "config validation failed",
		},
		"bad log level": {
			name:    "level.yml",
			content: "log_level: loud\n",
			errMsg:  "config validation failed",
		},
		"empty protocol version": {
			name:    "proto.json",
			content: `{"protocol_version": ""}`,
			errMsg:  "config validation failed",
		},
		"broken yaml": {
			name:    "broken.yml",
			content: "backend: [dbus\n",
			errMsg:  "invalid yaml",
		},
		"unknown format": {
			name:    "config.toml",
			content: "backend = \"dbus\"\n",
			errMsg:  "unsupported config file format",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tc.name)
			writeFile(t, path, tc.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	tmpDir := isolate(t)

	_, err := Load(filepath.Join(tmpDir, "missing.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUserConfigPath(t *testing.T) {
	tmpDir := isolate(t)

	_, ok := UserConfigPath()
	assert.False(t, ok)

	want := filepath.Join(tmpDir, ".config", AppDir, "config.json")
	writeFile(t, want, `{}`)

	got, ok := UserConfigPath()
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"NU_PLUGIN_NOTIFY_LOG_LEVEL":        "log_level",
		"NU_PLUGIN_NOTIFY_BACKEND":          "backend",
		"NU_PLUGIN_NOTIFY_PROTOCOL_VERSION": "protocol_version",
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, envTransform(input))
		})
	}
}

func TestConfiguration_Marshal(t *testing.T) {
	t.Parallel()

	cfg := &Configuration{Encoding: "json", Backend: "auto", ProtocolVersion: "0.106.1", LogLevel: "warn"}
	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "encoding: json\nbackend: auto\nprotocol_version: 0.106.1\nlog_level: warn\n", string(data))

	parsed, err := YAMLParser().Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "json", parsed["encoding"])
}
