// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/glowdesk/health-engine/pkg/engine"
	"github.com/glowdesk/health-engine/pkg/insight"
	insightBuiltin "github.com/glowdesk/health-engine/pkg/insight/builtin"
	"github.com/sirupsen/logrus"
)

// InitInsightEngine creates the insight engine with rules from the
// scoring config.
//
// To add a new insight rule type:
// 1. Create the rule in pkg/insight/builtin (see the existing rules)
// 2. Implement the insight.Rule interface
// 3. Register the rule type in pkg/insight/builtin/init.go
// 4. Add the rule configuration to config/scoring.yaml
func InitInsightEngine(cfg *engine.Config) (*insight.Engine, *insight.Registry, error) {
	insightBuiltin.RegisterBuiltinRules()

	registry := insight.NewRegistry()
	if err := insight.RegisterRules(registry, cfg.InsightRules); err != nil {
		return nil, nil, fmt.Errorf("failed to register insight rules: %w", err)
	}

	logrus.Infof("initialized insight engine with %d rules", registry.Count())
	return insight.NewEngine(registry), registry, nil
}
