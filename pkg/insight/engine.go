package insight

import (
	"context"
	"fmt"

	"github.com/glowdesk/health-engine/pkg/model"
	"github.com/sirupsen/logrus"
)

// Engine evaluates a score context against all registered insight rules.
//
// Generate never fails: rule errors and panics are captured as warnings
// so a misbehaving rule cannot abort score computation. Output lists
// may be empty but are never nil.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new insight engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
	}
}

// Generate evaluates all enabled rules and collects their messages into
// the category lists.
func (e *Engine) Generate(ctx context.Context, sc ScoreContext) (model.AutomatedInsights, []Warning) {
	insights := model.AutomatedInsights{
		CriticalAlerts:  []string{},
		Opportunities:   []string{},
		Recommendations: []string{},
		NextBestActions: []string{},
	}

	var warnings []Warning

	for _, rule := range e.registry.GetAll() {
		messages, err := e.evaluateRule(ctx, rule, sc)
		if err != nil {
			logrus.Errorf("insight rule %s failed for customer %s: %v", rule.ID(), sc.CustomerID, err)
			warnings = append(warnings, Warning{RuleID: rule.ID(), Err: err})
			continue
		}

		switch rule.Category() {
		case CategoryCriticalAlert:
			insights.CriticalAlerts = append(insights.CriticalAlerts, messages...)
		case CategoryOpportunity:
			insights.Opportunities = append(insights.Opportunities, messages...)
		case CategoryRecommendation:
			insights.Recommendations = append(insights.Recommendations, messages...)
		case CategoryNextBestAction:
			insights.NextBestActions = append(insights.NextBestActions, messages...)
		default:
			logrus.Warnf("insight rule %s has unknown category %q, dropping %d messages",
				rule.ID(), rule.Category(), len(messages))
		}
	}

	return insights, warnings
}

// evaluateRule runs one rule, converting panics into errors.
func (e *Engine) evaluateRule(ctx context.Context, rule Rule, sc ScoreContext) (messages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			messages = nil
			err = fmt.Errorf("insight rule panicked: %v", r)
		}
	}()

	return rule.Evaluate(ctx, sc)
}

// GetRegistry returns the rule registry used by this engine.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
