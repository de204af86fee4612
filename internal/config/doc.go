// Package config loads scormbuilder settings from a TOML file and the
// SCORMBUILDER_* environment variables.
package config
