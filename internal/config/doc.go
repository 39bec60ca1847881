// Package config provides the configuration for a blacklist generation run:
// defaults, the match-ratio parse-or-default rule, validation, and the
// optional YAML configuration file.
package config
