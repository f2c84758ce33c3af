// Package config provides centralized configuration constants for tasksage.
// All default values should be defined here to ensure a single source of truth.
package config

import "time"

// EnvPrefix is prepended to every environment override (TASKSAGE_SERVER_PORT, ...).
const EnvPrefix = "TASKSAGE"

// ConfigFileName is the base name of the YAML config file.
const ConfigFileName = "config"

// DefaultEmbeddingProvider needs no network access.
const DefaultEmbeddingProvider = "hashing"

// Engine defaults
const (
	DefaultFixedRadius         = 0.5
	DefaultAdaptive            = true
	DefaultRadiusPercentile    = 30.0
	DefaultSimilarityThreshold = 0.7
	DefaultEmbedConcurrency    = 4
	DefaultEmbedBatchSize      = 32
	DefaultHashDimensions      = 256
)

// Service defaults
const (
	DefaultServerPort       = 8000
	DefaultRequestTimeout   = 30 * time.Second
	DefaultEstimatorTimeout = 5 * time.Second
	DefaultCalendarID       = "primary"
	DefaultTelemetryHost    = "https://us.i.posthog.com"
)
