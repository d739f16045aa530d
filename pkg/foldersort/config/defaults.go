// Package config provides configuration management for foldersort.
package config

import "time"

// Default configuration values.
const (
	// DefaultDateSource selects which timestamp feeds the date bucket.
	DefaultDateSource = "created"

	// DefaultNoExtensionDir is the folder that collects files without an extension.
	DefaultNoExtensionDir = "no.extension"

	// DefaultWatchDebounce is how long watch mode waits for the folder to settle.
	DefaultWatchDebounce = 2 * time.Second

	// DefaultLogLevel is the default file log level.
	DefaultLogLevel = "info"

	// DefaultLogMaxSize is the default rotation threshold.
	DefaultLogMaxSize = "10MB"

	// DefaultLogMaxAge is the default number of days rotated logs are kept.
	DefaultLogMaxAge = 30

	// DefaultLogMaxBackups is the default number of rotated logs kept.
	DefaultLogMaxBackups = 5

	configName = "config"
	configType = "yaml"
	envPrefix  = "FOLDERSORT"
	appDir     = "foldersort"
)

// DefaultExcludedSuffixes lists the name suffixes the enhanced policy leaves in place.
var DefaultExcludedSuffixes = []string{".lnk"}
