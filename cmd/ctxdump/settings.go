package ctxdump

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/ctxdump/pkg/config"
	"github.com/arthur-debert/ctxdump/pkg/core"
	"github.com/arthur-debert/ctxdump/pkg/decision"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/filesystem"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/arthur-debert/ctxdump/pkg/paths"
	"github.com/arthur-debert/ctxdump/pkg/rules"
	"github.com/arthur-debert/ctxdump/pkg/types"
	"github.com/spf13/cobra"
)

// settings is the resolved root plus the layered configuration
type settings struct {
	paths  paths.Paths
	config *config.Config
}

// flagKeys maps command flags onto configuration keys. Only flags the user
// actually set are layered over the loaded configuration.
var flagKeys = map[string]string{
	"mode":        "rules.mode",
	"list":        "output.list",
	"sizes":       "output.sizes",
	"out":         "output.file",
	"format":      "output.format",
	"max-size-mb": "limits.max_size_mb",
}

func flagOverrides(cmd *cobra.Command) (map[string]interface{}, error) {
	overrides := make(map[string]interface{})
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		var (
			value interface{}
			err   error
		)
		switch flag.Value.Type() {
		case "bool":
			value, err = cmd.Flags().GetBool(name)
		case "float64":
			value, err = cmd.Flags().GetFloat64(name)
		default:
			value = flag.Value.String()
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid value for --%s", name)
		}
		overrides[key] = value
	}
	return overrides, nil
}

// loadSettings resolves the root and loads the configuration for cmd
func loadSettings(cmd *cobra.Command) (*settings, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	configFlag, _ := cmd.Flags().GetString("config")

	p, err := paths.New(rootFlag)
	if err != nil {
		return nil, err
	}
	if p.UsedFallback() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning+"\n", p.Root())
	}

	overrides, err := flagOverrides(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.LoadOptions{
		UserConfigPath:    p.UserConfigPath(),
		ProjectConfigPath: p.ProjectConfigPath(),
		ExplicitPath:      configFlag,
		Overrides:         overrides,
	})
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("cmd")
	logger.Debug().
		Str("root", p.Root()).
		Str("mode", cfg.Rules.Mode).
		Str("rulesFile", cfg.Rules.FileName).
		Msg("Settings loaded")

	return &settings{paths: p, config: cfg}, nil
}

// resolveTargets turns command arguments into absolute targets under the root
func (s *settings) resolveTargets(args []string) ([]string, error) {
	targets := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := s.paths.ResolveTarget(arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, abs)
	}
	return targets, nil
}

// loadRulesFile reads a rule file the user pointed at. Relative paths from
// flags or the environment are taken from the working directory; config
// files already anchor theirs. A missing file stops the run.
func loadRulesFile(fs types.FS, path, what string) (rules.Ruleset, error) {
	abs, err := filepath.Abs(paths.SanitizePath(path))
	if err != nil {
		return rules.Ruleset{}, errors.Wrapf(err, errors.ErrConfigLoad, "invalid %s path %s", what, path)
	}
	if _, err := fs.Stat(abs); err != nil {
		return rules.Ruleset{}, errors.Wrapf(err, errors.ErrConfigLoad, "%s not found: %s", what, abs).
			WithDetail("path", abs)
	}
	return rules.LoadFile(fs, abs)
}

// coreOptions builds the engine options for cmd from settings and flags
func (s *settings) coreOptions(cmd *cobra.Command, args []string) (core.Options, error) {
	targets, err := s.resolveTargets(args)
	if err != nil {
		return core.Options{}, err
	}

	fs := filesystem.NewOS()
	opts := core.Options{
		Root:               s.paths.Root(),
		Targets:            targets,
		Mode:               s.config.Mode(),
		StrictClosestLocal: s.config.Rules.StrictClosestLocal,
		RulesFileName:      s.config.Rules.FileName,
		Encodings:          s.config.Content.Encodings,
		SniffBytes:         s.config.Content.BinarySniffBytes,
		FileSystem:         fs,
	}

	if global := s.config.Rules.GlobalFile; global != "" {
		rs, err := loadRulesFile(fs, global, "global rules file")
		if err != nil {
			return core.Options{}, err
		}
		opts.Global = rs
	}

	var inline []rules.Ruleset
	if cmd.Flags().Lookup("rules-file") != nil {
		rulesFile, _ := cmd.Flags().GetString("rules-file")
		if rulesFile != "" {
			rs, err := loadRulesFile(fs, rulesFile, "rules file")
			if err != nil {
				return core.Options{}, err
			}
			inline = append(inline, rs)
			// An override file replaces the lower tiers unless --mode says otherwise
			if !cmd.Flags().Changed("mode") {
				opts.Mode = decision.ModeOverride
			}
		}
	}
	if cmd.Flags().Lookup("rule") != nil {
		patterns, _ := cmd.Flags().GetStringArray("rule")
		if len(patterns) > 0 {
			inline = append(inline, rules.FromPatterns("inline", patterns))
		}
	}
	if len(inline) > 0 {
		opts.Inline = rules.Merge(inline...)
		opts.Inline.Source = "inline"
	}

	return opts, nil
}
