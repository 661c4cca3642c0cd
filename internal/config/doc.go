// Package config loads, normalizes, and validates ripkit configuration
// from TOML files.
package config
