package ctxdump

import (
	"fmt"
	"os"

	"github.com/arthur-debert/ctxdump/internal/version"
	"github.com/arthur-debert/ctxdump/pkg/config"
	"github.com/arthur-debert/ctxdump/pkg/core"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/arthur-debert/ctxdump/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "ctxdump",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithOutput(verbosity, cmd.ErrOrStderr())
			logging.LogCommand(cmd.Name(), args)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().String("config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "config", Title: "RULES AND CONFIG:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newDefaultsCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	tm := initTopics(rootCmd)
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.AddCommand(newTopicsCmd(tm))

	return rootCmd
}

// addRuleFlags registers the flags that shape the inline tier
func addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().String("rules-file", "", MsgFlagRulesFile)
	cmd.Flags().StringArray("rule", nil, MsgFlagRule)
	cmd.Flags().String("mode", "", MsgFlagMode)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dump [paths...]",
		Short:   MsgDumpShort,
		Long:    MsgDumpLong,
		Example: MsgDumpExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			opts, err := s.coreOptions(cmd, args)
			if err != nil {
				return err
			}

			log.Info().
				Str("root", opts.Root).
				Strs("targets", opts.Targets).
				Msg("Dumping from root")

			result, err := core.Dump(cmd.Context(), core.DumpOptions{
				Options:   opts,
				List:      s.config.Output.List,
				Sizes:     s.config.Output.Sizes,
				MaxSizeMB: s.config.Limits.MaxSizeMB,
			})
			if err != nil {
				return err
			}

			for _, skipped := range result.Skipped {
				log.Info().Str("path", skipped.RelPath).Str("reason", skipped.Reason).Msg("Skipped")
			}
			return writeDump(cmd, s.config.Output.File, result)
		},
	}

	addRuleFlags(cmd)
	cmd.Flags().Bool("list", false, MsgFlagList)
	cmd.Flags().Bool("sizes", false, MsgFlagSizes)
	cmd.Flags().Float64("max-size-mb", 0, MsgFlagMaxSize)
	cmd.Flags().StringP("out", "o", "", MsgFlagOut)
	return cmd
}

// writeDump writes a finished dump to stdout or to the configured file
func writeDump(cmd *cobra.Command, out string, result *core.DumpResult) error {
	if out == "" {
		_, err := cmd.OutOrStdout().Write(result.Output)
		if err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "failed to write output")
		}
		return nil
	}

	if err := os.WriteFile(out, result.Output, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, MsgErrWriteOutput, out).
			WithDetail("path", out)
	}
	if len(result.Files) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), MsgNoFilesDumped)
		return nil
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), MsgDumpWritten, len(result.Files), result.TotalBytes, out)
	return nil
}

// newRenderer builds the renderer for the configured output format
func newRenderer(cmd *cobra.Command, s *settings) (ui.Renderer, error) {
	format, err := ui.ParseFormat(s.config.Output.Format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "explain [paths...]",
		Short:   MsgExplainShort,
		Long:    MsgExplainLong,
		Example: MsgExplainExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd, s)
			if err != nil {
				return err
			}
			opts, err := s.coreOptions(cmd, args)
			if err != nil {
				return err
			}

			result, err := core.Explain(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	addRuleFlags(cmd)
	cmd.Flags().String("format", "", MsgFlagFormat)
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check <path>",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		Example: MsgCheckExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd, s)
			if err != nil {
				return err
			}
			opts, err := s.coreOptions(cmd, nil)
			if err != nil {
				return err
			}
			path, err := s.paths.ResolveTarget(args[0])
			if err != nil {
				return err
			}

			result, err := core.Check(opts, path)
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	addRuleFlags(cmd)
	cmd.Flags().String("format", "", MsgFlagFormat)
	return cmd
}

func newDefaultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "defaults",
		Short:   MsgDefaultsShort,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			format, err := ui.ParseFormat(formatName)
			if err != nil {
				return err
			}
			renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return renderer.RenderResult(core.Defaults())
		},
	}
	cmd.Flags().String("format", "", MsgFlagFormat)
	return cmd
}

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commented, _ := cmd.Flags().GetBool("commented")
			if commented {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
				return err
			}

			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			content, err := config.GenerateConfig(s.config)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), content)
			return err
		},
	}
	cmd.Flags().Bool("commented", false, MsgFlagCommented)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
