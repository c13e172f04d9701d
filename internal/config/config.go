// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package config

// Config holds all application configuration loaded from environment
// variables, parsed with github.com/caarlos0/env.
//
// Scoring parameters (weights, insight rules, cache capacity) live in
// the YAML file referenced by SCORING_CONFIG_PATH, not here: they are
// tunables reviewed with the scoring team, while this struct carries
// deployment wiring.
type Config struct {
	// Server configuration
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"HealthScoringEngine"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Scoring configuration
	ScoringConfigPath string `env:"SCORING_CONFIG_PATH" envDefault:"config/scoring.yaml"`

	// Cache backend: "memory" for the bounded in-process cache,
	// "redis" for the shared multi-instance port.
	CacheBackend string `env:"CACHE_BACKEND" envDefault:"memory"`

	// Redis configuration (used when CacheBackend is "redis")
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisMaxRetries int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`

	// Telemetry configuration
	OtelEnabled bool `env:"OTEL_ENABLED" envDefault:"true"`
}
