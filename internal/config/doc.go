// Package config loads, normalizes, and validates framescribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FRAMESCRIBE_GAP_THRESHOLD. The Config type centralizes every knob the CLI
// needs: where projects and logs live, how observations are clustered into
// segments, which recognition options are forwarded to OCR, and how exports
// are laid out.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical option values, and clear validation errors.
package config
