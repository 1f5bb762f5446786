// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dmmrun/dmm/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "dmm"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the extension written by CreateDefaultConfig.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. DMM_SELECTOR_COMMAND.
	EnvPrefix = "DMM"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Extensions lists the recognized config file extensions in lookup order.
var Extensions = []string{"cue", "toml", "yaml", "yml"}

//go:embed config_schema.cue
var configSchema string

// Schema returns the CUE schema every configuration source is validated against.
func Schema() string { return configSchema }

// ConfigDir returns the dmm configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FindConfigFile returns the first config.<ext> present in dir, or "".
func FindConfigFile(dir string) string {
	for _, ext := range Extensions {
		path := filepath.Join(dir, ConfigFileName+"."+ext)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// Path returns the file Load would read for opts, or "" when defaults apply.
func Path(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return FindConfigFile(cfgDir), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" && !fileExists(opts.ConfigFilePath) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'dmm config show' to see the default configuration").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	resolvedPath, err := Path(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadFileIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check the file syntax").
				WithSuggestion("Verify the configuration values match the schema ('dmm config doc')").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the schema, so check the decoded values too.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables and the config file").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("selector.command", defaults.Selector.Command)
	v.SetDefault("selector.args", defaults.Selector.Args)
	v.SetDefault("tags.scheme", defaults.Tags.Scheme)
	v.SetDefault("tags.separator", defaults.Tags.Separator)
	v.SetDefault("tags.position", defaults.Tags.Position)
	v.SetDefault("shell.mode", defaults.Shell.Mode)
	v.SetDefault("shell.interpreter", defaults.Shell.Interpreter)
	v.SetDefault("adhoc", defaults.AdHoc)
	v.SetDefault("path.enabled", defaults.Path.Enabled)
	v.SetDefault("path.dirs", defaults.Path.Dirs)
	v.SetDefault("path.env", defaults.Path.Env)
	v.SetDefault("path.recursive", defaults.Path.Recursive)
	v.SetDefault("path.replace", defaults.Path.Replace)
	v.SetDefault("path.group", defaults.Path.Group)
	v.SetDefault("entries", defaults.Entries)
	v.SetDefault("ui.color", defaults.UI.Color)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadFileIntoViper reads a CUE, TOML or YAML file, validates it against the
// #Config schema, and merges its contents into Viper.
//
// TOML and YAML documents are decoded to a map and encoded into CUE so every
// format goes through the same schema. Concrete(false) is used because all
// fields are optional.
func loadFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, path); err != nil {
		return err
	}

	cctx := cuecontext.New()

	schemaValue := cctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue, err := compileUserConfig(cctx, path, data)
	if err != nil {
		return err
	}
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := normalizeEntries(configMap); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// compileUserConfig turns the raw file into a CUE value according to its extension.
func compileUserConfig(cctx *cue.Context, path string, data []byte) (cue.Value, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	var doc map[string]any
	switch ext {
	case "cue":
		return cctx.CompileBytes(data, cue.Filename(path)), nil
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return cue.Value{}, fmt.Errorf("%s: %w", path, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return cue.Value{}, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return cue.Value{}, fmt.Errorf("%w %q (expected one of: %s)", ErrUnsupportedFormat, filepath.Ext(path), strings.Join(Extensions, ", "))
	}

	if doc == nil {
		doc = map[string]any{}
	}
	return cctx.Encode(doc), nil
}

// normalizeEntries rewrites the entry list into the shape EntryConfig decodes:
// bare strings become {name}, and `run` moves to `script` (string) or `argv` (list).
func normalizeEntries(configMap map[string]any) error {
	raw, ok := configMap["entries"]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("entries: expected a list, got %T", raw)
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		switch it := item.(type) {
		case string:
			out = append(out, map[string]any{"name": it})
		case map[string]any:
			e := maps.Clone(it)
			if run, ok := e["run"]; ok {
				delete(e, "run")
				switch r := run.(type) {
				case string:
					e["script"] = r
				case []any:
					e["argv"] = r
				default:
					return fmt.Errorf("entries[%d].run: unsupported value %T", i, run)
				}
			}
			out = append(out, e)
		default:
			return fmt.Errorf("entries[%d]: unsupported value %T", i, item)
		}
	}

	configMap["entries"] = out
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config.cue into the config directory unless
// a config file in any supported format already exists. It returns the path of the
// existing or created file and whether it was created.
func CreateDefaultConfig(opts LoadOptions) (string, bool, error) {
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", false, err
	}

	if existing := FindConfigFile(cfgDir); existing != "" {
		return existing, false, nil
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}
