package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
)

// Environment variable names
const (
	// EnvRoot sets the processing root when --root is not given
	EnvRoot = "CTXDUMP_ROOT"

	// EnvConfigDir overrides the XDG config directory for ctxdump
	EnvConfigDir = "CTXDUMP_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for ctxdump
	EnvStateDir = "CTXDUMP_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names
const (
	// AppDirName is the directory name under the XDG base directories
	AppDirName = "ctxdump"

	// UserConfigFile is the user config file inside ConfigDir
	UserConfigFile = "config.toml"

	// ProjectConfigFile is the per-project config file at the root
	ProjectConfigFile = ".ctxdump.toml"

	// LogFileName is the name of the log file
	LogFileName = "ctxdump.log"
)

// Paths provides centralized path management for ctxdump
type Paths interface {
	Root() string
	UsedFallback() bool
	ConfigDir() string
	StateDir() string
	UserConfigPath() string
	ProjectConfigPath() string
	LogFilePath() string
	Rel(path string) (string, error)
	ResolveTarget(target string) (string, error)
}

type paths struct {
	root         string
	usedFallback bool
	xdgConfig    string
	xdgState     string
}

// New creates a Paths instance for root. An empty root is taken from
// CTXDUMP_ROOT, then the enclosing git repository, then the current
// directory. The root is made absolute, symlinks are resolved and it must
// be an existing directory.
func New(root string) (Paths, error) {
	p := &paths{}

	if root == "" {
		found, usedFallback, err := findRoot()
		if err != nil {
			return nil, err
		}
		root = found
		p.usedFallback = usedFallback
	}

	resolved, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	p.root = resolved

	p.setupXDGDirs()
	return p, nil
}

// ResolveRoot makes root absolute, resolves symlinks and checks that it is
// a directory
func ResolveRoot(root string) (string, error) {
	if err := ValidatePath(root); err != nil {
		return "", errors.Wrap(err, errors.ErrRootInvalid, "invalid root")
	}

	abs, err := filepath.Abs(expandHome(root))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRootInvalid, "cannot make root %s absolute", root)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRootInvalid, "root %s does not exist", abs).
			WithDetail("root", abs)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRootInvalid, "cannot stat root %s", resolved)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrRootInvalid, "root %s is not a directory", resolved).
			WithDetail("root", resolved)
	}
	return resolved, nil
}

func (p *paths) setupXDGDirs() {
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = expandHome(stateDir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, AppDirName)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}
}

// findRoot determines the root using the following priority:
// 1. CTXDUMP_ROOT environment variable
// 2. Git repository root
// 3. Current working directory (fallback)
func findRoot() (string, bool, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return expandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrRootInvalid, "failed to get current directory")
	}
	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	logger := logging.GetLogger("paths")

	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		logger.Trace().Err(err).Msg("Not inside a git repository")
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	logger.Debug().Str("root", gitRoot).Msg("Using git repository root")
	return gitRoot, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not expanded
	return path
}

// Root returns the resolved processing root
func (p *paths) Root() string {
	return p.root
}

// UsedFallback returns true if the current directory was used as root
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// ConfigDir returns the XDG config directory for ctxdump
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for ctxdump
func (p *paths) StateDir() string {
	return p.xdgState
}

// UserConfigPath returns the user-level config file
func (p *paths) UserConfigPath() string {
	return filepath.Join(p.xdgConfig, UserConfigFile)
}

// ProjectConfigPath returns the project config file at the root
func (p *paths) ProjectConfigPath() string {
	return filepath.Join(p.root, ProjectConfigFile)
}

// LogFilePath returns the log file location
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// Rel returns path relative to the root with forward slashes
func (p *paths) Rel(path string) (string, error) {
	if !ContainsPath(p.root, path) {
		return "", errors.Newf(errors.ErrTargetOutsideRoot, "%s is outside the root %s", path, p.root).
			WithDetail("root", p.root).
			WithDetail("path", path)
	}
	rel, err := RelativePath(p.root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// ResolveTarget turns a command line target into an absolute path under the
// root. Relative targets are taken from the current directory. Symlinks in
// the parent directories are resolved but the final element is left alone,
// so a target that is itself a link is still seen as one.
func (p *paths) ResolveTarget(target string) (string, error) {
	if err := ValidatePath(target); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expandHome(target))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot make %s absolute", target)
	}

	resolved := abs
	if abs != filepath.Dir(abs) {
		if parent, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
			resolved = filepath.Join(parent, filepath.Base(abs))
		}
	}

	if !ContainsPath(p.root, resolved) {
		return "", errors.Newf(errors.ErrTargetOutsideRoot, "target %s is outside the root %s", target, p.root).
			WithDetail("root", p.root).
			WithDetail("target", resolved)
	}
	return resolved, nil
}
