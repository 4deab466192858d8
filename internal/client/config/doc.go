// Package config loads runtime configuration for the gophtodo CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .toml are decoded as TOML, anything else as JSON.
//  3. Environment variables with the TODO_ prefix.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string   path to the SQLite database file
//	-n int      toast lifetime in seconds (0 keeps toasts until dismissed)
//	-l string   log level: debug, info, warn, error
//	-seed bool  create the demo account on first start
//
// Environment
//
//	TODO_DB_PATH, TODO_TOAST_DURATION ("3s"), TODO_LOG_LEVEL, TODO_SEED_DEMO
//
// # File format
//
// Durations use timex.Duration, so they can be strings like "3s" or, in
// JSON, integer nanoseconds:
//
//	{
//	  "db_path": "data/todo.db",
//	  "toast_duration": "5s",
//	  "log_level": "debug",
//	  "seed_demo": false
//	}
package config
