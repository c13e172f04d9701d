package engine

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/glowdesk/health-engine/pkg/insight"
	"github.com/glowdesk/health-engine/pkg/scoring"

	"gopkg.in/yaml.v3"
)

// DefaultBatchLimit caps GetBatchHealthScores requests when the config
// leaves it unset.
const DefaultBatchLimit = 20

// Config is the complete scoring configuration, loaded from YAML.
type Config struct {
	Weights      scoring.Weights      `yaml:"weights"`
	Cache        CacheConfig          `yaml:"cache"`
	Benchmark    BenchmarkConfig      `yaml:"benchmark"`
	InsightRules []insight.RuleConfig `yaml:"insightRules"`
	BatchLimit   int                  `yaml:"batchLimit"`
}

// Duration wraps time.Duration so YAML can carry values like "720h".
type Duration time.Duration

// UnmarshalYAML accepts either a Go duration string or a number of
// seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// CacheConfig tunes the score cache.
type CacheConfig struct {
	Capacity int      `yaml:"capacity"`
	TTL      Duration `yaml:"ttl"`
}

// BenchmarkConfig tunes the static benchmark provider.
type BenchmarkConfig struct {
	SegmentAverage float64 `yaml:"segmentAverage"`
}

// DefaultConfig returns a fully valid configuration with production
// weights, default cache capacity and all builtin insight rules enabled.
func DefaultConfig() *Config {
	return &Config{
		Weights: scoring.DefaultWeights(),
		Cache: CacheConfig{
			Capacity: 1000,
		},
		Benchmark: BenchmarkConfig{
			SegmentAverage: 65,
		},
		InsightRules: []insight.RuleConfig{
			{ID: "critical_alert", Type: "builtin.critical_alert", Enabled: true},
			{ID: "opportunity", Type: "builtin.opportunity", Enabled: true},
			{ID: "recommendation", Type: "builtin.recommendation", Enabled: true},
			{ID: "next_best_action", Type: "builtin.next_best_action", Enabled: true},
		},
		BatchLimit: DefaultBatchLimit,
	}
}

// LoadConfig loads the scoring configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or
// ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if config.BatchLimit == 0 {
		config.BatchLimit = DefaultBatchLimit
	}
	if config.Cache.Capacity == 0 {
		config.Cache.Capacity = 1000
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}

	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache capacity must be positive, got %d", c.Cache.Capacity)
	}

	if c.BatchLimit < 1 {
		return fmt.Errorf("batch limit must be at least 1, got %d", c.BatchLimit)
	}

	ruleIDs := make(map[string]bool)
	for _, rule := range c.InsightRules {
		if rule.ID == "" {
			return fmt.Errorf("insight rule with empty ID found")
		}
		if ruleIDs[rule.ID] {
			return fmt.Errorf("duplicate insight rule ID: %s", rule.ID)
		}
		ruleIDs[rule.ID] = true

		if rule.Type == "" {
			return fmt.Errorf("insight rule %s has empty type", rule.ID)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or
// ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
