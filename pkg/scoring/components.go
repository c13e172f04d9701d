package scoring

import (
	"math"
	"time"

	"github.com/glowdesk/health-engine/pkg/model"
)

const (
	// DefaultCommunicationScore is used when no communication summary
	// exists for the customer at all.
	DefaultCommunicationScore = 50

	// DefaultSatisfactionScore mirrors the insights engine's documented
	// default for customers with zero feedback.
	DefaultSatisfactionScore = 75
)

// ComponentInputs bundles the collaborator aggregates a calculation
// needs. Profile and Insights are required; Communication and Enhanced
// may be nil (degraded input, not an error).
type ComponentInputs struct {
	Profile       *model.CustomerProfile
	Insights      *model.CustomerInsights
	Communication *model.CommunicationSummary
	Enhanced      *model.EnhancedProfile
	Now           time.Time
}

// Calculator computes the six independent component sub-scores.
// All scores are produced by bucketed point accumulation and clamped to
// [0,100]; there are no linear formulas here on purpose, so individual
// buckets stay tunable without rescaling the whole component.
type Calculator struct{}

// NewCalculator creates a component score calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate produces all six component scores for one customer.
func (c *Calculator) Calculate(in ComponentInputs) model.ScoringComponents {
	return model.ScoringComponents{
		Engagement:    c.engagementScore(in),
		Loyalty:       c.loyaltyScore(in),
		Behavioral:    c.behavioralScore(in),
		Communication: c.communicationScore(in),
		Satisfaction:  c.satisfactionScore(in),
		Profitability: c.profitabilityScore(in),
	}
}

// engagementScore: visit-count tier + response-rate fraction +
// loyalty-engagement tier + feedback bonus + campaign-response fraction.
func (c *Calculator) engagementScore(in ComponentInputs) int {
	score := 0

	switch visits := in.Profile.VisitCount(); {
	case visits > 50:
		score += 30
	case visits > 20:
		score += 25
	case visits > 10:
		score += 20
	case visits > 5:
		score += 15
	default:
		score += 10
	}

	if in.Communication != nil {
		score += int(math.Round(in.Communication.ResponseRate * 0.25))
	}

	switch in.Insights.LoyaltyEngagement {
	case model.LoyaltyEngagementHigh:
		score += 20
	case model.LoyaltyEngagementMedium:
		score += 15
	default:
		score += 10
	}

	score += minInt(len(in.Profile.Feedback)*3, 15)
	score += int(math.Round(in.Insights.CampaignResponseRate * 0.1))

	return model.ClampScore(score)
}

// loyaltyScore: tier + points + spending trend + visit-frequency +
// transaction-count bonus.
func (c *Calculator) loyaltyScore(in ComponentInputs) int {
	score := 0

	switch in.Profile.LoyaltyTier {
	case model.TierPlatinum:
		score += 25
	case model.TierGold:
		score += 20
	case model.TierSilver:
		score += 15
	default:
		score += 10
	}

	switch points := in.Profile.LoyaltyPoints; {
	case points > 2000:
		score += 20
	case points > 1000:
		score += 15
	case points > 500:
		score += 10
	default:
		score += 5
	}

	switch in.Insights.SpendingTrend {
	case model.SpendingIncreasing:
		score += 25
	case model.SpendingStable:
		score += 20
	default:
		score += 10
	}

	score += int(math.Round(in.Insights.VisitFrequencyScore * 0.2))
	score += minInt(len(in.Profile.LoyaltyTransactions), 10)

	return model.ClampScore(score)
}

// behavioralScore: visit-day diversity + seasonal activity + price
// segment + order size + service-preference diversity. A missing
// enhanced profile scores like an empty one.
func (c *Calculator) behavioralScore(in ComponentInputs) int {
	enhanced := in.Enhanced
	if enhanced == nil {
		enhanced = &model.EnhancedProfile{}
	}

	score := minInt(len(enhanced.PreferredDays)*10, 30)

	if enhanced.SeasonalPattern != "" {
		score += 20
	} else {
		score += 10
	}

	switch enhanced.PriceSegment {
	case model.SegmentPremium:
		score += 25
	case model.SegmentModerate:
		score += 20
	default:
		score += 15
	}

	switch size := enhanced.AverageOrderSize; {
	case size > 200_000:
		score += 15
	case size > 100_000:
		score += 10
	default:
		score += 5
	}

	score += minInt(len(enhanced.ServicePreferences)*5, 10)

	return model.ClampScore(score)
}

// communicationScore: fixed default when no summary exists; otherwise
// response rate + engagement score + frequency tier + channel bonus.
func (c *Calculator) communicationScore(in ComponentInputs) int {
	s := in.Communication
	if s == nil {
		return DefaultCommunicationScore
	}

	score := int(math.Round(s.ResponseRate * 0.4))
	score += int(math.Round(s.EngagementScore * 0.3))

	switch freq := s.CommunicationFrequency; {
	case freq > 4:
		score += 20
	case freq > 2:
		score += 15
	case freq > 0:
		score += 10
	default:
		score += 5
	}

	if s.PreferredChannel != "" {
		score += 10
	} else {
		score += 5
	}

	return model.ClampScore(score)
}

// satisfactionScore passes the external insights signal through.
// The insights engine already defaults to 75 for zero feedback; the
// fallback here only covers a missing signal entirely.
func (c *Calculator) satisfactionScore(in ComponentInputs) int {
	if in.Insights.SatisfactionScore == 0 && len(in.Profile.Feedback) == 0 {
		return DefaultSatisfactionScore
	}
	return model.ClampScore(int(math.Round(in.Insights.SatisfactionScore)))
}

// profitabilityScore: lifetime value + avg order value + visit-count +
// spending trend tiers. Amounts are VND minor units.
func (c *Calculator) profitabilityScore(in ComponentInputs) int {
	score := 0

	switch ltv := in.Profile.LifetimeValue(); {
	case ltv > 10_000_000:
		score += 40
	case ltv > 5_000_000:
		score += 30
	case ltv > 2_000_000:
		score += 20
	case ltv > 500_000:
		score += 10
	default:
		score += 5
	}

	switch aov := in.Profile.AvgOrderValue(); {
	case aov > 300_000:
		score += 25
	case aov > 150_000:
		score += 20
	case aov > 75_000:
		score += 15
	default:
		score += 10
	}

	switch visits := in.Profile.VisitCount(); {
	case visits > 50:
		score += 20
	case visits > 20:
		score += 15
	case visits > 10:
		score += 10
	default:
		score += 5
	}

	switch in.Insights.SpendingTrend {
	case model.SpendingIncreasing:
		score += 15
	case model.SpendingStable:
		score += 10
	default:
		score += 5
	}

	return model.ClampScore(score)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
