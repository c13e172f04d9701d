package assess

import (
	"github.com/glowdesk/health-engine/pkg/model"
)

// Engagement composite weights. These are fixed, unlike the component
// weights: the engagement level is an internal classification, not part
// of the tunable overall score.
const (
	responseRateWeight    = 0.20
	visitFrequencyWeight  = 0.25
	loyaltyProxyWeight    = 0.15
	feedbackProxyWeight   = 0.15
	campaignWeight        = 0.15
	socialInfluenceWeight = 0.10
)

// Proxy values for signals the engine only observes indirectly.
const (
	loyaltyActiveProxy    = 80
	loyaltyInactiveProxy  = 20
	feedbackPresentProxy  = 70
	feedbackAbsentProxy   = 30
)

// EngagementInputs are the raw sub-signals behind the engagement level.
// ResponseRate is 0 when no communication summary exists.
type EngagementInputs struct {
	ResponseRate        float64
	VisitFrequencyScore float64
	LoyaltyPoints       int
	FeedbackCount       int
	CampaignEngagement  float64
	SocialInfluence     float64
}

// AnalyzeEngagement classifies the customer's engagement level from a
// weighted composite of communication, visit and loyalty signals.
func AnalyzeEngagement(in EngagementInputs) model.EngagementAnalysis {
	loyaltyProxy := float64(loyaltyInactiveProxy)
	if in.LoyaltyPoints > 0 {
		loyaltyProxy = loyaltyActiveProxy
	}

	feedbackProxy := float64(feedbackAbsentProxy)
	if in.FeedbackCount > 0 {
		feedbackProxy = feedbackPresentProxy
	}

	composite := responseRateWeight*model.ClampRate(in.ResponseRate) +
		visitFrequencyWeight*model.ClampRate(in.VisitFrequencyScore) +
		loyaltyProxyWeight*loyaltyProxy +
		feedbackProxyWeight*feedbackProxy +
		campaignWeight*model.ClampRate(in.CampaignEngagement) +
		socialInfluenceWeight*model.ClampRate(in.SocialInfluence)

	return model.EngagementAnalysis{
		Level:                engagementLevelFor(composite),
		ResponseRate:         model.ClampRate(in.ResponseRate),
		VisitFrequencyScore:  model.ClampRate(in.VisitFrequencyScore),
		LoyaltyParticipation: loyaltyProxy,
		FeedbackEngagement:   feedbackProxy,
		CampaignEngagement:   model.ClampRate(in.CampaignEngagement),
		SocialInfluence:      model.ClampRate(in.SocialInfluence),
	}
}

func engagementLevelFor(composite float64) model.EngagementLevel {
	switch {
	case composite >= 80:
		return model.HighlyEngaged
	case composite >= 60:
		return model.ModeratelyEngaged
	case composite >= 40:
		return model.LightlyEngaged
	default:
		return model.Disengaged
	}
}
