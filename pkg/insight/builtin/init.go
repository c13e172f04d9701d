package builtin

import (
	"github.com/glowdesk/health-engine/pkg/insight"
)

// RegisterBuiltinRules registers all built-in insight rule types with
// the factory.
func RegisterBuiltinRules() {
	insight.RegisterRuleType(TypeCriticalAlert, func(config insight.RuleConfig) (insight.Rule, error) {
		return NewCriticalAlertRule(config), nil
	})

	insight.RegisterRuleType(TypeOpportunity, func(config insight.RuleConfig) (insight.Rule, error) {
		return NewOpportunityRule(config), nil
	})

	insight.RegisterRuleType(TypeRecommendation, func(config insight.RuleConfig) (insight.Rule, error) {
		return NewRecommendationRule(config), nil
	})

	insight.RegisterRuleType(TypeNextBestAction, func(config insight.RuleConfig) (insight.Rule, error) {
		return NewNextBestActionRule(config), nil
	})
}
