// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/glowdesk/health-engine/pkg/cache"
	"github.com/glowdesk/health-engine/pkg/engine"
	"github.com/glowdesk/health-engine/pkg/predict"
	"github.com/glowdesk/health-engine/pkg/store"
	"github.com/sirupsen/logrus"
)

// Stores groups the collaborator implementations the engine reads from.
// Production deployments wire real store clients here; local
// development uses the in-memory stores from InitDevStores.
type Stores struct {
	Profiles store.CustomerProfileStore
	Insights store.CustomerInsightsEngine
	Comms    store.CommunicationHistoryProvider
	Enhanced store.EnhancedProfileEngine
}

// InitEngine wires the scoring components into the facade:
// calculator → aggregator → assessors → predictors → insight engine →
// cache → engine.
func InitEngine(cfg *engine.Config, stores Stores, scoreCache cache.ScoreCache, metrics *engine.Metrics) (*engine.Engine, error) {
	insightEngine, _, err := InitInsightEngine(cfg)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg, engine.Dependencies{
		Profiles:  stores.Profiles,
		Insights:  stores.Insights,
		Comms:     stores.Comms,
		Enhanced:  stores.Enhanced,
		Cache:     scoreCache,
		Benchmark: predict.NewStaticBenchmarkProvider(cfg.Benchmark.SegmentAverage),
		Insight:   insightEngine,
		Metrics:   metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build health engine: %w", err)
	}

	logrus.Info("initialized health scoring engine")
	return eng, nil
}

// InitDevStores returns empty in-memory collaborator stores for local
// development and tests.
func InitDevStores() Stores {
	return Stores{
		Profiles: store.NewMemoryProfileStore(),
		Insights: store.NewMemoryInsightsEngine(),
		Comms:    store.NewMemoryCommunicationProvider(),
		Enhanced: store.NewMemoryEnhancedProfileEngine(),
	}
}
