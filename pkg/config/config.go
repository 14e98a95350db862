package config

// Config is the effective ctxdump configuration
type Config struct {
	Rules   RulesConfig   `koanf:"rules" toml:"rules" json:"rules" yaml:"rules"`
	Output  OutputConfig  `koanf:"output" toml:"output" json:"output" yaml:"output"`
	Limits  LimitsConfig  `koanf:"limits" toml:"limits" json:"limits" yaml:"limits"`
	Content ContentConfig `koanf:"content" toml:"content" json:"content" yaml:"content"`
}

// RulesConfig selects rule sources and how they combine
type RulesConfig struct {
	FileName           string `koanf:"file_name" toml:"file_name" json:"fileName" yaml:"fileName"`
	GlobalFile         string `koanf:"global_file" toml:"global_file" json:"globalFile" yaml:"globalFile"`
	Mode               string `koanf:"mode" toml:"mode" json:"mode" yaml:"mode"`
	StrictClosestLocal bool   `koanf:"strict_closest_local" toml:"strict_closest_local" json:"strictClosestLocal" yaml:"strictClosestLocal"`
}

// OutputConfig controls what a dump prints and where
type OutputConfig struct {
	List   bool   `koanf:"list" toml:"list" json:"list" yaml:"list"`
	Sizes  bool   `koanf:"sizes" toml:"sizes" json:"sizes" yaml:"sizes"`
	File   string `koanf:"file" toml:"file" json:"file" yaml:"file"`
	Format string `koanf:"format" toml:"format" json:"format" yaml:"format"`
}

// LimitsConfig holds the size ceiling
type LimitsConfig struct {
	MaxSizeMB float64 `koanf:"max_size_mb" toml:"max_size_mb" json:"maxSizeMB" yaml:"maxSizeMB"`
}

// ContentConfig tunes how file content is read
type ContentConfig struct {
	Encodings        []string `koanf:"encodings" toml:"encodings" json:"encodings" yaml:"encodings"`
	BinarySniffBytes int      `koanf:"binary_sniff_bytes" toml:"binary_sniff_bytes" json:"binarySniffBytes" yaml:"binarySniffBytes"`
}

// Sections are the top-level keys, used to filter environment variables
var Sections = []string{"rules", "output", "limits", "content"}
