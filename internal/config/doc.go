// Package config loads, normalizes, and validates lectern configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENROUTER_API_KEY. The Config type centralizes every knob the CLI and
// pipeline need, from worker pool sizing to the scoring weight tables.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, validated weight tables, and clear validation errors.
package config
