// Package config provides policy configuration for the Compass core.
//
// The core itself has no I/O; the values here are the tunable policy knobs
// (alias review thresholds, paging) the embedding application loads once at
// startup and passes into the registries that need them.
package config

// Config represents the core Compass configuration
type Config struct {
	Alias   AliasConfig   `mapstructure:"alias"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AliasConfig configures the alias-mapping review workflow
type AliasConfig struct {
	// ConfidenceThreshold is the minimum AI confidence at which a pending
	// mapping is surfaced for batch approval. Approval itself is always an
	// explicit reviewer action; the threshold only filters the queue.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"` // default: 0.9

	// ReviewPageSize bounds a single review-queue page (default: 50)
	ReviewPageSize int `mapstructure:"review_page_size"`

	// DefaultPriority is assigned to proposals that do not specify one (default: 5)
	DefaultPriority int `mapstructure:"default_priority"`
}

// LoggingConfig configures the global logger
type LoggingConfig struct {
	JSON bool `mapstructure:"json"` // structured JSON output instead of console
}
