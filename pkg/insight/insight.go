package insight

import (
	"context"

	"github.com/glowdesk/health-engine/pkg/model"
)

// Category decides which output list an insight rule feeds.
type Category string

const (
	CategoryCriticalAlert  Category = "critical_alert"
	CategoryOpportunity    Category = "opportunity"
	CategoryRecommendation Category = "recommendation"
	CategoryNextBestAction Category = "next_best_action"
)

// ScoreContext is the read-only view of a freshly computed score that
// insight rules evaluate against. DaysSinceLastVisit is -1 when the
// customer has never visited.
type ScoreContext struct {
	CustomerID         string
	OverallScore       int
	HealthLevel        model.HealthLevel
	ChurnProbability   float64
	SpendingTrend      model.SpendingTrend
	LoyaltyEngagement  model.LoyaltyEngagement
	SatisfactionScore  float64
	DaysSinceLastVisit int
	LoyaltyPoints      int
}

// Rule produces human-readable insight messages for one category.
// Rules are registered in a Registry and evaluated by the Engine.
type Rule interface {
	// ID returns the unique rule identifier.
	ID() string

	// Name returns a human-readable rule name.
	Name() string

	// Category returns which insight list this rule feeds.
	Category() Category

	// Evaluate returns zero or more messages for the score context.
	// Returns error only for unexpected failures, not for a rule that
	// simply has nothing to say.
	Evaluate(ctx context.Context, sc ScoreContext) ([]string, error)

	// Config returns the rule's configuration.
	Config() RuleConfig
}

// Warning records an insight rule that failed during evaluation. The
// engine never propagates rule failures; it reports them as warnings so
// score generation can complete.
type Warning struct {
	RuleID string
	Err    error
}
