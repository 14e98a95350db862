package ctxdump

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Collect project files into one LLM context payload"
	MsgDumpShort       = "Write the accepted files as one text payload"
	MsgExplainShort    = "Show every inclusion decision made during a walk"
	MsgCheckShort      = "Show the inclusion decision for one path"
	MsgDefaultsShort   = "Print the built-in default rules"
	MsgGenConfigShort  = "Print the effective configuration as TOML"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"

	// Status messages
	MsgDumpWritten   = "Wrote %d files (%d bytes) to %s\n"
	MsgDumpSkipped   = "Skipped %s: %s\n"
	MsgNoFilesDumped = "No files matched."

	// Error messages
	MsgErrWriteOutput = "failed to write output to %s"
	MsgErrNoCommand   = "no command specified"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot      = "Processing root (default: CTXDUMP_ROOT, the git top level, or the current directory)"
	MsgFlagConfig    = "Configuration file layered over the user and project config"
	MsgFlagRulesFile = "Override rules file; local and global rules are ignored unless --mode merge"
	MsgFlagRule      = "Inline rule pattern, repeatable (prefix with ! to exclude)"
	MsgFlagMode      = "Rule mode: merge or override"
	MsgFlagList      = "List accepted paths instead of dumping content"
	MsgFlagSizes     = "Prefix listed paths with their size in bytes"
	MsgFlagMaxSize   = "Abort when the cumulative size exceeds this many MB (0 = unlimited)"
	MsgFlagOut       = "Write the payload to this file instead of stdout"
	MsgFlagFormat    = "Output format: auto, term, text, json or yaml"
	MsgFlagCommented = "Print the defaults with every value commented out"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/dump-long.txt
	msgDumpLongRaw string
	MsgDumpLong    = strings.TrimSpace(msgDumpLongRaw)

	//go:embed msgs/dump-example.txt
	msgDumpExampleRaw string
	MsgDumpExample    = strings.TrimSpace(msgDumpExampleRaw)

	//go:embed msgs/explain-long.txt
	msgExplainLongRaw string
	MsgExplainLong    = strings.TrimSpace(msgExplainLongRaw)

	//go:embed msgs/explain-example.txt
	msgExplainExampleRaw string
	MsgExplainExample    = strings.TrimSpace(msgExplainExampleRaw)

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/check-example.txt
	msgCheckExampleRaw string
	MsgCheckExample    = strings.TrimSpace(msgCheckExampleRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
