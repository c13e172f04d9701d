// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/glowdesk/health-engine/internal/bootstrap"
	"github.com/glowdesk/health-engine/internal/config"
	"github.com/glowdesk/health-engine/internal/server"
	"github.com/glowdesk/health-engine/pkg/cache"
	"github.com/glowdesk/health-engine/pkg/engine"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application
// lifecycle.
//
// Components are initialized in dependency order:
// 1. Redis (only when the redis cache backend is selected)
// 2. Scoring configuration (YAML)
// 3. Collaborator stores
// 4. Health scoring engine (calculator → assessors → insights → cache)
// 5. Metrics server
// 6. Telemetry (OpenTelemetry tracing)
type App struct {
	cfg               *config.Config
	engine            *engine.Engine
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// Step 1: Redis, when the shared cache backend is selected
	if cfg.CacheBackend == "redis" {
		if err := app.initRedis(ctx); err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
	}

	// Step 2: Scoring configuration
	scoringCfg, err := engine.LoadConfig(cfg.ScoringConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring config from %s: %w", cfg.ScoringConfigPath, err)
	}
	logrus.Infof("loaded scoring configuration from %s", cfg.ScoringConfigPath)

	// Step 3: Collaborator stores
	//
	// Production deployments replace these with clients for the real
	// profile store, insights engine, communication summarizer and
	// enhanced profile engine.
	stores := bootstrap.InitDevStores()

	// Step 4: Engine
	metrics := engine.NewMetrics()
	scoreCache := app.initScoreCache(scoringCfg, metrics)

	app.engine, err = bootstrap.InitEngine(scoringCfg, stores, scoreCache, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to init engine: %w", err)
	}

	// Step 5: Metrics server
	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics", metrics.Collectors()...)
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// Step 6: Telemetry
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// Engine exposes the health scoring facade to the transport layer.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// initScoreCache selects the cache backend. The in-memory cache feeds
// eviction counts into the metrics; the redis backend is bounded by TTL
// instead.
func (a *App) initScoreCache(scoringCfg *engine.Config, metrics *engine.Metrics) cache.ScoreCache {
	if a.cfg.CacheBackend == "redis" {
		logrus.Info("using redis score cache")
		return cache.NewRedisScoreCache(a.redisClient, cache.RedisScoreCacheConfig{
			TTL: scoringCfg.Cache.TTL.Std(),
		})
	}

	logrus.Infof("using in-memory score cache (capacity %d)", scoringCfg.Cache.Capacity)
	return cache.NewMemoryScoreCache(scoringCfg.Cache.Capacity,
		cache.WithEvictionCallback(func(evicted int) {
			metrics.CacheEvictions.Add(float64(evicted))
		}),
	)
}

// initRedis initializes the Redis client with connection retry.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithMaxRetries(b, uint64(a.cfg.RedisMaxRetries))

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}
