// Package config loads and merges the tripmate server configuration from
// environment variables, command-line flags, and an optional JSON file.
//
// Sources are merged with mergo in priority order (environment first, then
// flags, then the JSON file), and the result is validated before use.
// The main entry point is [GetStructuredConfig].
package config
