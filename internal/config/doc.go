// Package config loads the resolver's own settings from multiple sources
// (YAML files, environment variables, CLI flags) with precedence: CLI flags >
// YAML config > Environment variables > Defaults. Signing credentials are not
// configured here; only the paths and literal defaults the resolver uses.
package config
