package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	appDirName  = "ctxdump"
	logFileName = "ctxdump.log"

	// stateDirEnv mirrors paths.EnvStateDir; paths logs through this package
	stateDirEnv = "CTXDUMP_STATE_DIR"
)

// configured is set once SetupLogger has installed the global logger
var configured atomic.Bool

// Configured reports whether SetupLogger has run in this process. The
// decision engine keeps its per-verdict explain lines off until it has.
func Configured() bool {
	return configured.Load()
}

// levelFor maps the -v count to a zerolog level. Warnings always reach the
// console so skipped files and fallbacks stay visible.
func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger for the given verbosity,
// writing to stderr and the log file
func SetupLogger(verbosity int) {
	SetupLoggerWithOutput(verbosity, os.Stderr)
}

// SetupLoggerWithOutput is SetupLogger with an explicit console destination.
// The dump itself goes to stdout, so the console here is normally stderr.
func SetupLoggerWithOutput(verbosity int, console io.Writer) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(console),
	}}

	logFile := getLogFilePath()
	file, err := openLogFile(logFile)
	if err == nil {
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
	configured.Store(true)

	if err != nil {
		log.Warn().Err(err).Str("path", logFile).Msg("Failed to open log file, logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// GetLogger returns a logger tagged with the given component name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// getLogFilePath resolves the log file: CTXDUMP_STATE_DIR first, then
// XDG_STATE_HOME, then the platform state directory
func getLogFilePath() string {
	if dir := os.Getenv(stateDirEnv); dir != "" {
		return filepath.Join(dir, logFileName)
	}
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appDirName, logFileName)
	}
	return filepath.Join(xdg.StateHome, appDirName, logFileName)
}

// LogFilePath exposes the resolved log file location for diagnostics.
func LogFilePath() string {
	return getLogFilePath()
}

func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// LogCommand logs a command execution with its arguments
func LogCommand(cmd string, args []string) {
	log.Debug().
		Str("command", cmd).
		Strs("args", args).
		Msg("Executing command")
}

// StartOperation logs the start of an operation and returns a function
// that logs its completion with the elapsed time
func StartOperation(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
