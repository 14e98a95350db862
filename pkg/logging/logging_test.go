package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv(stateDirEnv, "")
			t.Setenv("XDG_STATE_HOME", tempDir)

			var console bytes.Buffer
			SetupLoggerWithOutput(tt.verbosity, &console)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			assert.True(t, Configured())

			logPath := filepath.Join(tempDir, "ctxdump", "ctxdump.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Run("state dir override", func(t *testing.T) {
		t.Setenv(stateDirEnv, "/ctx/state")
		t.Setenv("XDG_STATE_HOME", "/custom/state")
		assert.Equal(t, filepath.Join("/ctx/state", "ctxdump.log"), LogFilePath())
	})

	t.Run("with XDG_STATE_HOME", func(t *testing.T) {
		t.Setenv(stateDirEnv, "")
		t.Setenv("XDG_STATE_HOME", "/custom/state")
		assert.Equal(t, filepath.Join("/custom/state", "ctxdump", "ctxdump.log"), getLogFilePath())
	})

	t.Run("xdg default", func(t *testing.T) {
		t.Setenv(stateDirEnv, "")
		t.Setenv("XDG_STATE_HOME", "")
		got := getLogFilePath()
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
		assert.Equal(t, "ctxdump.log", filepath.Base(got))
		assert.Equal(t, "ctxdump", filepath.Base(filepath.Dir(got)))
	})
}

func TestConsoleIsNotColoredForBuffers(t *testing.T) {
	t.Setenv(stateDirEnv, t.TempDir())
	original := log.Logger
	defer func() { log.Logger = original }()

	var console bytes.Buffer
	SetupLoggerWithOutput(0, &console)
	log.Warn().Msg("target missing")

	assert.Contains(t, console.String(), "target missing")
	assert.NotContains(t, console.String(), "\x1b[")
	assert.False(t, isTerminal(&console))
}

func TestGetLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	defer func() { log.Logger = original }()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(&buf)

	logger := GetLogger("walker")
	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), `"component":"walker"`)
	assert.Contains(t, buf.String(), "test message")
}

func TestStartOperation(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(&buf)

	done := StartOperation(logger, "dump")
	assert.Contains(t, buf.String(), "Operation started")

	buf.Reset()
	done()
	assert.Contains(t, buf.String(), `"operation":"dump"`)
	assert.Contains(t, buf.String(), `"duration":`)
}
