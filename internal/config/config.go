// Package config provides hierarchical configuration loading for the prompt
// builder service. Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the service. User-facing app
// settings (default section type, markdown prompting, ...) live in the
// database, not here.
type Config struct {
	Server  Server  `yaml:"server"`
	SQLite  SQLite  `yaml:"sqlite"`
	Persist Persist `yaml:"persist"`
	Logging Logging `yaml:"logging"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// SQLite holds the backing store configuration.
type SQLite struct {
	Path string `yaml:"path"`
}

// Persist holds write-coalescing configuration.
type Persist struct {
	// Debounce is how long after the last mutation the trailing snapshot is
	// written through to the store.
	Debounce time.Duration `yaml:"debounce"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Defaults returns a Config with sensible default values for local use.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:5173",
		},
		SQLite: SQLite{
			Path: "prompt-builder.db",
		},
		Persist: Persist{
			Debounce: 1500 * time.Millisecond,
		},
		Logging: Logging{
			Level:   "info",
			Service: "prompt-builder",
		},
	}
}
