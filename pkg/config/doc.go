// Package config loads typed configuration structs from environment
// variables using `env:` struct tags, with optional .env file support for
// local development. Each component owns its Config struct and loads it
// through this package at startup.
package config
