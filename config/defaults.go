package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Alias review defaults
	v.SetDefault("alias.confidence_threshold", 0.9) // below this, AI proposals stay in the manual queue
	v.SetDefault("alias.review_page_size", 50)
	v.SetDefault("alias.default_priority", 5) // middle of the 1..10 tie-break range

	// Logging defaults
	v.SetDefault("logging.json", false)
}
