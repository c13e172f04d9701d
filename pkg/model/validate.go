// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package model

// Validation happens once at the engine boundary. Scoring code assumes
// rates are in [0,100] and lists are within their documented bounds, so
// everything here clamps and truncates rather than rejecting.

// ClampRate forces a 0-100 rate into range.
func ClampRate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampScore forces an integer score into [0,100].
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// NormalizeProfile truncates over-limit lists and backfills LastVisitAt
// from the newest visit when the store left it unset.
func NormalizeProfile(p *CustomerProfile) {
	if p == nil {
		return
	}
	if len(p.Visits) > MaxVisits {
		p.Visits = p.Visits[:MaxVisits]
	}
	if len(p.Feedback) > MaxFeedback {
		p.Feedback = p.Feedback[:MaxFeedback]
	}
	if len(p.CampaignDeliveries) > MaxCampaignDeliveries {
		p.CampaignDeliveries = p.CampaignDeliveries[:MaxCampaignDeliveries]
	}
	if len(p.LoyaltyTransactions) > MaxLoyaltyTransactions {
		p.LoyaltyTransactions = p.LoyaltyTransactions[:MaxLoyaltyTransactions]
	}
	if p.LastVisitAt.IsZero() {
		for _, v := range p.Visits {
			if v.VisitedAt.After(p.LastVisitAt) {
				p.LastVisitAt = v.VisitedAt
			}
		}
	}
}

// NormalizeInsights clamps every rate-like field and defaults the
// spending trend to STABLE when the upstream left it empty.
func NormalizeInsights(in *CustomerInsights) {
	if in == nil {
		return
	}
	in.ChurnProbability = ClampRate(in.ChurnProbability)
	in.SatisfactionScore = ClampRate(in.SatisfactionScore)
	in.VisitFrequencyScore = ClampRate(in.VisitFrequencyScore)
	in.CampaignResponseRate = ClampRate(in.CampaignResponseRate)
	in.ReferralPotentialScore = ClampRate(in.ReferralPotentialScore)
	in.Confidence = ClampRate(in.Confidence)
	if in.SpendingTrend == "" {
		in.SpendingTrend = SpendingStable
	}
	if in.LoyaltyEngagement == "" {
		in.LoyaltyEngagement = LoyaltyEngagementLow
	}
}

// NormalizeCommunication clamps rate fields. Frequency is per month and
// only needs a lower bound.
func NormalizeCommunication(s *CommunicationSummary) {
	if s == nil {
		return
	}
	s.ResponseRate = ClampRate(s.ResponseRate)
	s.EngagementScore = ClampRate(s.EngagementScore)
	if s.CommunicationFrequency < 0 {
		s.CommunicationFrequency = 0
	}
}
