package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/planner"
)

var validate = validator.New()

// EngineConfig tunes the planning engines.
type EngineConfig struct {
	// Grouping radius
	FixedRadius      float64 `mapstructure:"fixed_radius" validate:"gt=0"`
	Adaptive         bool    `mapstructure:"adaptive"`
	RadiusPercentile float64 `mapstructure:"radius_percentile" validate:"gt=0,lte=100"`

	// Cosine similarity above which two tasks count as batchable or similar
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" validate:"gt=0,lte=1"`

	// Oracle fan-out
	EmbedConcurrency int `mapstructure:"embed_concurrency" validate:"gte=1,lte=64"`
	EmbedBatchSize   int `mapstructure:"embed_batch_size" validate:"gte=1"`

	// Dimensions of the offline hashing oracle
	HashDimensions int `mapstructure:"hash_dimensions" validate:"gte=8"`
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		FixedRadius:         DefaultFixedRadius,
		Adaptive:            DefaultAdaptive,
		RadiusPercentile:    DefaultRadiusPercentile,
		SimilarityThreshold: DefaultSimilarityThreshold,
		EmbedConcurrency:    DefaultEmbedConcurrency,
		EmbedBatchSize:      DefaultEmbedBatchSize,
		HashDimensions:      DefaultHashDimensions,
	}
}

// LoadEngineConfig loads engine configuration from Viper with defaults.
func LoadEngineConfig() (EngineConfig, error) {
	defaults := DefaultEngineConfig()

	cfg := EngineConfig{
		FixedRadius:         getFloat64WithDefault("engine.grouping.fixed_radius", defaults.FixedRadius),
		Adaptive:            getBoolWithDefault("engine.grouping.adaptive", defaults.Adaptive),
		RadiusPercentile:    getFloat64WithDefault("engine.grouping.radius_percentile", defaults.RadiusPercentile),
		SimilarityThreshold: getFloat64WithDefault("engine.similarity_threshold", defaults.SimilarityThreshold),
		EmbedConcurrency:    getIntWithDefault("engine.embed.concurrency", defaults.EmbedConcurrency),
		EmbedBatchSize:      getIntWithDefault("engine.embed.batch_size", defaults.EmbedBatchSize),
		HashDimensions:      getIntWithDefault("engine.embed.hash_dimensions", defaults.HashDimensions),
	}
	if err := validateStruct("engine", cfg); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// PlannerOptions converts the config to planner options. Estimators are
// attached by the caller.
func (c EngineConfig) PlannerOptions() planner.Options {
	return planner.Options{
		Grouping: &grouping.Options{
			Adaptive:    c.Adaptive,
			FixedRadius: c.FixedRadius,
			Percentile:  c.RadiusPercentile,
		},
		SimilarityThreshold: c.SimilarityThreshold,
		EmbedConcurrency:    c.EmbedConcurrency,
		EmbedBatchSize:      c.EmbedBatchSize,
	}
}

// validateStruct formats validator errors as "section.field: rule" lines.
func validateStruct(section string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid %s config: %w", section, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s.%s: failed %q (got %v)", section, fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid %s config: %s", section, strings.Join(msgs, "; "))
}

// Helper functions for Viper with defaults

func getFloat64WithDefault(key string, defaultVal float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return defaultVal
}

func getIntWithDefault(key string, defaultVal int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return defaultVal
}

func getBoolWithDefault(key string, defaultVal bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return defaultVal
}

func getStringWithDefault(key string, defaultVal string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultVal
}

func getDurationWithDefault(key string, defaultVal time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return defaultVal
}

func getStringSliceWithDefault(key string, defaultVal []string) []string {
	if viper.IsSet(key) {
		return viper.GetStringSlice(key)
	}
	return defaultVal
}
