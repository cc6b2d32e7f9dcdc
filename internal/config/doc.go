// Package config defines the installer run configuration: repository
// coordinates, endpoint base URLs, install paths, and timeouts.
//
// The configuration is built once at startup, either from the built-in
// defaults or from an optional YAML settings file, validated, and passed
// to every step unchanged.
package config
