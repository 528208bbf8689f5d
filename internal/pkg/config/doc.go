// Package config loads and validates the hole server configuration.
//
// Settings are read from a YAML file through viper, overridden by HOLE_* environment
// variables, and validated with go-playground/validator before use.
package config
