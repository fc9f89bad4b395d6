// Package config provides environment based configuration helpers.
package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for pipeline configuration
const (
	// DefaultOutputRoot is where the clip pipeline writes manifests and media
	DefaultOutputRoot = "clips_output"
	// DefaultCredentialsDir is where destination credential files live
	DefaultCredentialsDir = "."
	// DefaultPostInterval is the spacing between staggered posts
	DefaultPostInterval = 12 * time.Hour
)

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt retrieves an integer environment variable with a fallback value
func GetEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvDuration retrieves a duration environment variable with a fallback value
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// OutputRoot returns the root directory for generated clips and manifests
func OutputRoot() string {
	return GetEnv("CLIPFORGE_OUTPUT_ROOT", DefaultOutputRoot)
}

// CredentialsDir returns the directory holding destination credential files
func CredentialsDir() string {
	return GetEnv("CLIPFORGE_CREDENTIALS_DIR", DefaultCredentialsDir)
}
