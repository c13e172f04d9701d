package builtin

import (
	"context"
	"fmt"

	"github.com/glowdesk/health-engine/pkg/insight"
	"github.com/glowdesk/health-engine/pkg/model"
)

// Rule type identifiers used in the scoring YAML.
const (
	TypeCriticalAlert  = "builtin.critical_alert"
	TypeOpportunity    = "builtin.opportunity"
	TypeRecommendation = "builtin.recommendation"
	TypeNextBestAction = "builtin.next_best_action"
)

// Default thresholds. All are overridable per rule via parameters.
const (
	defaultCriticalScore       = 40
	defaultCriticalChurn       = 70.0
	defaultRecommendScore      = 60
	defaultRecommendSatisfying = 70.0
	defaultActionAbsenceDays   = 30
	defaultActionLoyaltyPoints = 500
)

// CriticalAlertRule raises alerts for customers in immediate danger:
// critically low overall score or high churn probability.
type CriticalAlertRule struct {
	config         insight.RuleConfig
	scoreThreshold int
	churnThreshold float64
}

func NewCriticalAlertRule(config insight.RuleConfig) *CriticalAlertRule {
	return &CriticalAlertRule{
		config:         config,
		scoreThreshold: config.GetInt("score_threshold", defaultCriticalScore),
		churnThreshold: config.GetFloat("churn_threshold", defaultCriticalChurn),
	}
}

func (r *CriticalAlertRule) ID() string                 { return r.config.ID }
func (r *CriticalAlertRule) Name() string               { return "Critical Health Alert" }
func (r *CriticalAlertRule) Category() insight.Category { return insight.CategoryCriticalAlert }
func (r *CriticalAlertRule) Config() insight.RuleConfig { return r.config }

func (r *CriticalAlertRule) Evaluate(ctx context.Context, sc insight.ScoreContext) ([]string, error) {
	var messages []string

	if sc.OverallScore < r.scoreThreshold {
		messages = append(messages,
			fmt.Sprintf("Customer health is critical (score %d) - immediate attention required", sc.OverallScore))
	}
	if sc.ChurnProbability > r.churnThreshold {
		messages = append(messages,
			fmt.Sprintf("High churn risk (%.0f%%) - consider an immediate retention offer", sc.ChurnProbability))
	}

	return messages, nil
}

// OpportunityRule surfaces growth openings: rising spend or a highly
// engaged loyalty member.
type OpportunityRule struct {
	config insight.RuleConfig
}

func NewOpportunityRule(config insight.RuleConfig) *OpportunityRule {
	return &OpportunityRule{config: config}
}

func (r *OpportunityRule) ID() string                 { return r.config.ID }
func (r *OpportunityRule) Name() string               { return "Growth Opportunity" }
func (r *OpportunityRule) Category() insight.Category { return insight.CategoryOpportunity }
func (r *OpportunityRule) Config() insight.RuleConfig { return r.config }

func (r *OpportunityRule) Evaluate(ctx context.Context, sc insight.ScoreContext) ([]string, error) {
	var messages []string

	if sc.SpendingTrend == model.SpendingIncreasing {
		messages = append(messages,
			"Spending is trending up - a good moment to introduce premium services")
	}
	if sc.LoyaltyEngagement == model.LoyaltyEngagementHigh {
		messages = append(messages,
			"Highly engaged loyalty member - strong candidate for the referral program")
	}

	return messages, nil
}

// RecommendationRule suggests relationship repair work for customers
// below the fair band or with soft satisfaction.
type RecommendationRule struct {
	config                insight.RuleConfig
	scoreThreshold        int
	satisfactionThreshold float64
}

func NewRecommendationRule(config insight.RuleConfig) *RecommendationRule {
	return &RecommendationRule{
		config:                config,
		scoreThreshold:        config.GetInt("score_threshold", defaultRecommendScore),
		satisfactionThreshold: config.GetFloat("satisfaction_threshold", defaultRecommendSatisfying),
	}
}

func (r *RecommendationRule) ID() string                 { return r.config.ID }
func (r *RecommendationRule) Name() string               { return "Health Recommendation" }
func (r *RecommendationRule) Category() insight.Category { return insight.CategoryRecommendation }
func (r *RecommendationRule) Config() insight.RuleConfig { return r.config }

func (r *RecommendationRule) Evaluate(ctx context.Context, sc insight.ScoreContext) ([]string, error) {
	var messages []string

	if sc.OverallScore < r.scoreThreshold {
		messages = append(messages,
			"Schedule a personal follow-up to improve relationship health")
	}
	if sc.SatisfactionScore < r.satisfactionThreshold {
		messages = append(messages,
			"Collect detailed feedback to address satisfaction gaps")
	}

	return messages, nil
}

// NextBestActionRule proposes the next concrete touchpoint: win-back
// contact after prolonged absence, or a loyalty point reminder.
type NextBestActionRule struct {
	config          insight.RuleConfig
	absenceDays     int
	pointsThreshold int
}

func NewNextBestActionRule(config insight.RuleConfig) *NextBestActionRule {
	return &NextBestActionRule{
		config:          config,
		absenceDays:     config.GetInt("absence_days", defaultActionAbsenceDays),
		pointsThreshold: config.GetInt("points_threshold", defaultActionLoyaltyPoints),
	}
}

func (r *NextBestActionRule) ID() string                 { return r.config.ID }
func (r *NextBestActionRule) Name() string               { return "Next Best Action" }
func (r *NextBestActionRule) Category() insight.Category { return insight.CategoryNextBestAction }
func (r *NextBestActionRule) Config() insight.RuleConfig { return r.config }

func (r *NextBestActionRule) Evaluate(ctx context.Context, sc insight.ScoreContext) ([]string, error) {
	var messages []string

	if sc.DaysSinceLastVisit > r.absenceDays {
		messages = append(messages,
			fmt.Sprintf("Send a personalized we-miss-you message (%d days since last visit)", sc.DaysSinceLastVisit))
	}
	if sc.LoyaltyPoints > r.pointsThreshold {
		messages = append(messages,
			fmt.Sprintf("Remind the customer about %d redeemable loyalty points", sc.LoyaltyPoints))
	}

	return messages, nil
}
