// Package config loads, validates, and normalizes the convertx TOML
// configuration file.
package config
