// Package config provides the configuration for opampctl.
package config

import (
	"log/slog"
	"path/filepath"
)

// GlobalConfig contains the global configuration for opampctl. Unlike the
// multi-cluster kubeconfig-style layout opampctl was first drafted from, one
// CLI profile talks to exactly one opampcommander server, so the config is
// flat: an endpoint, a bearer token, and logging preferences.
type GlobalConfig struct {
	// ConfigFilename is the path the config was (or will be) loaded from.
	// Not persisted into the file itself.
	ConfigFilename string `mapstructure:"-" yaml:"-"`

	Endpoint    string      `mapstructure:"endpoint"    yaml:"endpoint"`
	BearerToken string      `mapstructure:"bearerToken" yaml:"bearerToken"`
	Org         string      `mapstructure:"org"         yaml:"org"`
	Log         LogSettings `mapstructure:"log"         yaml:"log"`
}

// LogSettings controls the CLI's own diagnostic logging, separate from the
// formatted command output written to stdout.
type LogSettings struct {
	Level slog.Level `mapstructure:"level" yaml:"level"`
}

// DefaultEndpoint is used by a freshly initialized config file.
const DefaultEndpoint = "http://localhost:8080"

// NewDefaultGlobalConfig returns the config written by `opampctl config init`.
func NewDefaultGlobalConfig(homeDir string) *GlobalConfig {
	return &GlobalConfig{
		ConfigFilename: filepath.Join(homeDir, ".config", "opampcommander", "opampctl", "config.yaml"),
		Endpoint:       DefaultEndpoint,
		BearerToken:    "",
		Org:            "",
		Log:            LogSettings{Level: slog.LevelInfo},
	}
}
