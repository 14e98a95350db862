// Package config handles configuration management for ctxdump.
// It layers the embedded defaults, TOML files, CTXDUMP_* environment
// variables and command-line flags with koanf, and decodes the result into
// a Config.
package config
