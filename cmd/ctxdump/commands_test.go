package ctxdump

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps user config, state and env settings out of the tests
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("CTXDUMP_CONFIG_DIR", t.TempDir())
	t.Setenv("CTXDUMP_STATE_DIR", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("CTXDUMP_ROOT", "")
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, data := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	}
}

func setupProject(t *testing.T) string {
	t.Helper()
	isolate(t)
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	writeFiles(t, root, map[string]string{
		"main.go":                   "package main\n",
		"README.md":                 "# demo\n",
		"debug.log":                 "noise\n",
		".env":                      "SECRET=1\n",
		"node_modules/pkg/index.js": "module.exports = {}\n",
		"sub/.ctxrules":             "keep.log\n",
		"sub/keep.log":              "kept\n",
		"sub/other.log":             "dropped\n",
	})
	return root
}

// run executes the CLI against root and returns stdout and stderr
func run(t *testing.T, root string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	full := append([]string{}, args...)
	if root != "" && len(args) > 0 {
		full = append([]string{args[0], "--root", root}, args[1:]...)
	}
	cmd.SetArgs(full)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestDumpCommand(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		root := setupProject(t)
		out, _, err := run(t, root, "dump", "--list")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"README.md", "main.go", "sub/keep.log"}, lines(out))
	})

	t.Run("content blocks", func(t *testing.T) {
		root := setupProject(t)
		out, _, err := run(t, root, "dump", filepath.Join(root, "main.go"))
		require.NoError(t, err)
		assert.Contains(t, out, "--- BEGIN FILE: main.go (13 bytes, modified ")
		assert.Contains(t, out, "package main\n--- END FILE: main.go ---\n")
		assert.NotContains(t, out, "README.md")
	})

	t.Run("inline rule", func(t *testing.T) {
		root := setupProject(t)
		out, _, err := run(t, root, "dump", "--list", "--rule", "!*.md", "--rule", "debug.log")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"debug.log", "main.go", "sub/keep.log"}, lines(out))
	})

	t.Run("override rules file", func(t *testing.T) {
		root := setupProject(t)
		rulesFile := filepath.Join(t.TempDir(), "only-go.rules")
		require.NoError(t, os.WriteFile(rulesFile, []byte("# go sources only\n**/*.go\n"), 0644))

		out, _, err := run(t, root, "dump", "--list", "--rules-file", rulesFile)
		require.NoError(t, err)
		assert.Equal(t, "main.go\n", out)
	})

	t.Run("missing rules file", func(t *testing.T) {
		root := setupProject(t)
		_, _, err := run(t, root, "dump", "--rules-file", filepath.Join(root, "nope.rules"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("sizes", func(t *testing.T) {
		root := setupProject(t)
		out, _, err := run(t, root, "dump", "--list", "--sizes", filepath.Join(root, "main.go"))
		require.NoError(t, err)
		assert.Equal(t, "13\tmain.go\n", out)
	})

	t.Run("output file", func(t *testing.T) {
		root := setupProject(t)
		dest := filepath.Join(t.TempDir(), "context.txt")

		out, stderr, err := run(t, root, "dump", "--list", "-o", dest)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Contains(t, stderr, "Wrote 3 files")

		written, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(written), "sub/keep.log\n")
	})

	t.Run("size limit aborts without output", func(t *testing.T) {
		isolate(t)
		root, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		writeFiles(t, root, map[string]string{
			"a.txt": strings.Repeat("a", 600),
			"b.txt": strings.Repeat("b", 600),
		})
		dest := filepath.Join(t.TempDir(), "context.txt")

		out, _, err := run(t, root, "dump", "--max-size-mb", "0.001", "-o", dest)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSizeExceeded))
		assert.Empty(t, out)
		assert.NoFileExists(t, dest)
	})

	t.Run("target outside root", func(t *testing.T) {
		root := setupProject(t)
		_, _, err := run(t, root, "dump", t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTargetOutsideRoot))
	})
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"missing config file", []string{"dump", "--config", "/does/not/exist.toml"}, errors.ErrConfigLoad},
		{"bad mode", []string{"dump", "--mode", "sideways"}, errors.ErrConfigValid},
		{"bad format", []string{"explain", "--format", "xml"}, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := setupProject(t)
			_, _, err := run(t, root, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestProjectConfig(t *testing.T) {
	root := setupProject(t)
	writeFiles(t, root, map[string]string{
		".ctxdump.toml": "[output]\nlist = true\n\n[rules]\nfile_name = \".ctxinclude\"\n",
	})

	out, _, err := run(t, root, "dump")
	require.NoError(t, err)
	// sub/.ctxrules is no longer a rule file, so keep.log falls back to the defaults
	assert.ElementsMatch(t, []string{"README.md", "main.go"}, lines(out))
}

func TestProjectGlobalFileIsRelativeToConfig(t *testing.T) {
	root := setupProject(t)
	writeFiles(t, root, map[string]string{
		".ctxdump.toml":     "[rules]\nglobal_file = \".ctx/global.rules\"\n",
		".ctx/global.rules": "!main.go\n",
	})

	// the working directory is not the root, so only config-relative lookup finds the file
	out, _, err := run(t, root, "dump", "--list")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"README.md", "sub/keep.log"}, lines(out))
}

func TestExplainCommand(t *testing.T) {
	root := setupProject(t)
	out, _, err := run(t, root, "explain", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Decisions []struct {
			Path     string `json:"path"`
			Included bool   `json:"included"`
			Reason   string `json:"reason"`
			Tier     string `json:"tier"`
		} `json:"decisions"`
		Accepted []string `json:"accepted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	byPath := make(map[string]string)
	for _, d := range result.Decisions {
		byPath[d.Path] = d.Reason
	}
	assert.Equal(t, "Excluded by Default Rule: '*.log'", byPath["debug.log"])
	assert.Equal(t, "Included by Local Rule (sub/.ctxrules): 'keep.log'", byPath["sub/keep.log"])
	assert.Contains(t, byPath, "node_modules")
	assert.NotContains(t, byPath, "node_modules/pkg/index.js")
	assert.ElementsMatch(t, []string{"README.md", "main.go", "sub/keep.log"}, result.Accepted)
}

func TestCheckCommand(t *testing.T) {
	root := setupProject(t)

	out, _, err := run(t, root, "check", "--format", "text", filepath.Join(root, "sub", "keep.log"))
	require.NoError(t, err)
	assert.Equal(t,
		"sub/keep.log: included\n  Included by Local Rule (sub/.ctxrules): 'keep.log'\n  tier: local\n",
		out)

	out, _, err = run(t, root, "check", "--format", "text", "--rule", "!main.go", filepath.Join(root, "main.go"))
	require.NoError(t, err)
	assert.Contains(t, out, "main.go: excluded\n")
	assert.Contains(t, out, "Excluded by Inline Rule: 'main.go'")
}

func TestDefaultsCommand(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "defaults", "--format", "text")
	require.NoError(t, err)

	got := lines(out)
	require.NotEmpty(t, got)
	assert.True(t, strings.HasPrefix(got[0], "# defaults ("))
	assert.Contains(t, got, "!node_modules/")
	assert.Contains(t, got, "!*.log")
}

func TestGenConfigCommand(t *testing.T) {
	t.Run("commented defaults", func(t *testing.T) {
		isolate(t)
		out, _, err := run(t, "", "genconfig", "--commented")
		require.NoError(t, err)
		assert.Contains(t, out, "[rules]")
		assert.Contains(t, out, "# file_name = \".ctxrules\"")
	})

	t.Run("effective config", func(t *testing.T) {
		root := setupProject(t)
		t.Setenv("CTXDUMP_LIMITS_MAX_SIZE_MB", "2.5")

		out, _, err := run(t, root, "genconfig")
		require.NoError(t, err)
		assert.Contains(t, out, "# ctxdump effective configuration")
		assert.Contains(t, out, "max_size_mb = 2.5")
	})
}

func TestMiscCommands(t *testing.T) {
	isolate(t)

	t.Run("version", func(t *testing.T) {
		out, _, err := run(t, "", "version")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "ctxdump version "))
	})

	t.Run("topics list", func(t *testing.T) {
		out, _, err := run(t, "", "topics")
		require.NoError(t, err)
		assert.Contains(t, out, "  precedence\n")
		assert.Contains(t, out, "  --mode\n")
	})

	t.Run("topic", func(t *testing.T) {
		out, _, err := run(t, "", "topics", "rules")
		require.NoError(t, err)
		assert.Contains(t, out, "Rule files")
	})

	t.Run("unknown topic", func(t *testing.T) {
		_, _, err := run(t, "", "topics", "nope")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("completion", func(t *testing.T) {
		out, _, err := run(t, "", "completion", "bash")
		require.NoError(t, err)
		assert.Contains(t, out, "ctxdump")
	})

	t.Run("no command", func(t *testing.T) {
		_, _, err := run(t, "")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestTemplateFormatting(t *testing.T) {
	orig := stdoutIsTerminal
	defer func() { stdoutIsTerminal = orig }()

	stdoutIsTerminal = func() bool { return false }
	assert.Equal(t, "USAGE:", formatBoldUpper("usage:"))
	assert.Equal(t, "Flags", formatBold("Flags"))
	assert.Equal(t, "FLAGS", formatUpper("flags"))
}
