// Package config loads, normalizes, and validates the TOML configuration
// shared by the daemon and CLI. Paths are tilde-expanded and absolute after
// Load; API keys may come from the environment when absent from the file.
package config
