// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions selects where configuration is read from. The zero value reads the
// first config file in ConfigDir, or defaults when there is none.
type LoadOptions struct {
	// ConfigFilePath is the --config file; it must exist when set.
	ConfigFilePath string
	// ConfigDirPath replaces ConfigDir for this load.
	ConfigDirPath string
}

// Provider loads configuration. The CLI depends on it so tests can hand the
// pipeline a Config without touching the filesystem.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider returns the Provider backed by config files and DMM_* variables.
func NewProvider() Provider {
	return fileProvider{}
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}
