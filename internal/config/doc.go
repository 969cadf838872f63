// Package config loads runtime configuration for the lightningpass CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     ".toml" are decoded as TOML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   database driver: sqlite or postgres
//	-d string   data source name (SQLite file path or PostgreSQL URL)
//	-p string   directory profile pictures are copied into
//	-l string   log level: debug, info, warn, error
//	-t int      reset token lifetime (minutes)
//
// # File schema
//
// Durations use timex.Duration, so they may be strings like "30m" or
// integer nanoseconds:
//
//	driver = "sqlite"
//	dsn = "lightningpass.db"
//	pictures_dir = "pictures"
//	log_level = "info"
//	log_format = "text"
//	reset_token_ttl = "30m"
package config
