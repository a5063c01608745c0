// Package config loads, validates, and normalizes wikibatch configuration
// from TOML files. Defaults live in defaults.go; path fields are expanded to
// absolute paths during load so downstream code never deals with "~".
package config
