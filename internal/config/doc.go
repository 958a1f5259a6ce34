// Package config loads, normalizes, and validates hypergctl configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and overlays HYPERG_-prefixed environment
// variables so scripted use never needs a config file. The Config type
// centralizes every knob the CLI needs: the daemon RPC port, the telemetry
// identity, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
