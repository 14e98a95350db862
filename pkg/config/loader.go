package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arthur-debert/ctxdump/pkg/decision"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every configuration environment variable
const EnvPrefix = "CTXDUMP_"

// LoadOptions names the layers above the embedded defaults
type LoadOptions struct {
	// UserConfigPath is optional; a missing file is skipped
	UserConfigPath string
	// ProjectConfigPath is optional; a missing file is skipped
	ProjectConfigPath string
	// ExplicitPath comes from --config and must exist
	ExplicitPath string
	// Overrides are dotted keys set from command line flags
	Overrides map[string]interface{}
}

// Load builds the configuration from all layers, lowest first: embedded
// defaults, user file, project file, explicit file, environment, overrides.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. User and project files, when present
	for _, path := range []string{opts.UserConfigPath, opts.ProjectConfigPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) {
				logger.Warn().Err(err).Str("path", path).Msg("Cannot stat config file, skipping it")
			}
			continue
		}
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Explicit file
	if opts.ExplicitPath != "" {
		if _, err := os.Stat(opts.ExplicitPath); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", opts.ExplicitPath).
				WithDetail("path", opts.ExplicitPath)
		}
		if err := loadFile(k, opts.ExplicitPath); err != nil {
			return nil, err
		}
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 5. Command line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply command line overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded defaults alone
func Default() *Config {
	cfg, err := Load(LoadOptions{})
	if err != nil {
		logger := logging.GetLogger("config")
		logger.Error().Err(err).Msg("Embedded defaults are invalid")
		return &Config{}
	}
	return cfg
}

// fileRelativeKeys hold paths that are relative to the config file setting them
var fileRelativeKeys = []string{"rules.global_file"}

// loadFile parses one config file and merges it into k. Relative paths under
// fileRelativeKeys are anchored at the file's directory first.
func loadFile(k *koanf.Koanf, path string) error {
	layer := koanf.New(".")
	if err := layer.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path).
			WithDetail("path", path)
	}

	dir := filepath.Dir(path)
	for _, key := range fileRelativeKeys {
		value := layer.String(key)
		if value == "" || filepath.IsAbs(value) || strings.HasPrefix(value, "~") {
			continue
		}
		if err := layer.Set(key, filepath.Join(dir, value)); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "failed to resolve %s in %s", key, path)
		}
	}

	if err := k.Merge(layer); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to merge config file %s", path)
	}
	return nil
}

// envKey maps CTXDUMP_LIMITS_MAX_SIZE_MB to limits.max_size_mb. Variables
// outside the known sections, like CTXDUMP_ROOT, are ignored.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || rest == "" || !slices.Contains(Sections, section) {
		return ""
	}
	return section + "." + rest
}

// Validate checks values that cannot be expressed by types alone
func (c *Config) Validate() error {
	if _, err := decision.ParseMode(c.Rules.Mode); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "invalid rules.mode %q", c.Rules.Mode)
	}
	if c.Rules.FileName == "" || strings.ContainsAny(c.Rules.FileName, `/\`) {
		return errors.Newf(errors.ErrConfigValid, "rules.file_name must be a plain file name, got %q", c.Rules.FileName)
	}
	if c.Limits.MaxSizeMB < 0 {
		return errors.Newf(errors.ErrConfigValid, "limits.max_size_mb cannot be negative, got %v", c.Limits.MaxSizeMB)
	}
	if c.Content.BinarySniffBytes < 0 {
		return errors.Newf(errors.ErrConfigValid, "content.binary_sniff_bytes cannot be negative, got %d", c.Content.BinarySniffBytes)
	}
	if len(c.Content.Encodings) == 0 {
		return errors.New(errors.ErrConfigValid, "content.encodings cannot be empty")
	}
	return nil
}

// Mode returns the parsed rules.mode
func (c *Config) Mode() decision.Mode {
	mode, _ := decision.ParseMode(c.Rules.Mode)
	return mode
}
