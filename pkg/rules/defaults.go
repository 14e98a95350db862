package rules

// DefaultSource labels rules coming from the built-in table
const DefaultSource = "defaults"

// defaultExcludes is the built-in exclusion table. Every entry is an
// Exclude; order only decides which pattern a reason names, so the broad
// hidden-file catch-all comes first.
var defaultExcludes = []string{
	// Hidden files, at the root and below
	"/.*",
	"**/.*",

	// Version control
	".git/",
	".svn/",
	".hg/",
	".bzr/",
	"CVS/",
	"_darcs/",
	".fossil",

	// Dependencies and virtual environments
	"node_modules/",
	"bower_components/",
	"jspm_packages/",
	"venv/",
	".venv/",
	"env/",
	"virtualenv/",
	"vendor/",
	"Pods/",

	// Build output
	"dist/",
	"build/",
	"target/",
	"out/",
	"bin/",
	"obj/",
	".gradle/",
	".next/",
	".nuxt/",
	".terraform/",
	"DerivedData/",
	"*.egg-info/",
	".eggs/",
	"coverage/",

	// Caches
	"__pycache__/",
	".pytest_cache/",
	".mypy_cache/",
	".ruff_cache/",
	".tox/",
	".nox/",
	".cache/",

	// IDE and editor state
	".idea/",
	".vscode/",
	".vs/",
	"*.iml",
	"*.sublime-project",
	"*.sublime-workspace",

	// Logs
	"logs/",
	"*.log",
	"npm-debug.log*",
	"yarn-debug.log*",
	"yarn-error.log*",

	// Temporary and backup files
	"*.tmp",
	"*.temp",
	"*.bak",
	"*.swp",
	"*.swo",
	"*~",
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",

	// Compiled objects and binaries
	"*.pyc",
	"*.pyo",
	"*.class",
	"*.o",
	"*.obj",
	"*.a",
	"*.lib",
	"*.so",
	"*.dylib",
	"*.dll",
	"*.exe",
	"*.bin",
	"*.wasm",
	"*.jar",
	"*.war",

	// Archives
	"*.zip",
	"*.tar",
	"*.gz",
	"*.tgz",
	"*.bz2",
	"*.xz",
	"*.7z",
	"*.rar",

	// Media and fonts
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.bmp",
	"*.ico",
	"*.webp",
	"*.tiff",
	"*.mp3",
	"*.mp4",
	"*.wav",
	"*.flac",
	"*.avi",
	"*.mov",
	"*.mkv",
	"*.pdf",
	"*.woff",
	"*.woff2",
	"*.ttf",
	"*.otf",
	"*.eot",

	// Databases and generated bundles
	"*.sqlite",
	"*.db",
	"*.min.js",
	"*.min.css",
	"*.map",
}

var defaultRuleset = buildDefaultRuleset()

func buildDefaultRuleset() Ruleset {
	rs := Ruleset{Source: DefaultSource, Rules: make([]Rule, 0, len(defaultExcludes))}
	for _, pattern := range defaultExcludes {
		rs.Rules = append(rs.Rules, MustRule(Exclude, pattern))
	}
	return rs
}

// DefaultRuleset returns a copy of the built-in exclusion table. Callers may
// append to the copy; the table itself never changes.
func DefaultRuleset() Ruleset {
	rules := make([]Rule, len(defaultRuleset.Rules))
	copy(rules, defaultRuleset.Rules)
	return Ruleset{Source: defaultRuleset.Source, Rules: rules}
}

// DefaultPatterns returns the patterns of the built-in table in order
func DefaultPatterns() []string {
	out := make([]string, len(defaultExcludes))
	copy(out, defaultExcludes)
	return out
}
