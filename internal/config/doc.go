// Package config loads, normalizes, and validates searchtube configuration.
//
// Configuration comes from a TOML file resolved from an explicit path, the
// user config directory, or a project-local searchtube.toml. Defaults cover
// every field so the daemon runs without a config file. Path fields are
// expanded (~ and relative segments) during load.
package config
