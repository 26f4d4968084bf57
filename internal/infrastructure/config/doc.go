// Package config loads and validates otaboot configuration.
//
// Configuration is layered: hardcoded defaults, then the YAML file,
// then OTABOOT_* environment variable overrides. Validation runs last
// so every layer is checked together.
//
// The configuration is read once at startup and treated as immutable
// afterwards; no component mutates it at runtime.
package config
