// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package model

import (
	"time"
)

// Bounds on the collaborator-supplied lists. The profile store already
// bounds its responses; ingestion truncates anything beyond these so
// scoring never iterates unbounded data.
const (
	MaxVisits              = 100
	MaxFeedback            = 50
	MaxCampaignDeliveries  = 30
	MaxLoyaltyTransactions = 50
)

// LoyaltyTier is the customer's loyalty program tier.
type LoyaltyTier string

const (
	TierPlatinum LoyaltyTier = "PLATINUM"
	TierGold     LoyaltyTier = "GOLD"
	TierSilver   LoyaltyTier = "SILVER"
	TierBronze   LoyaltyTier = "BRONZE"
)

// SpendingTrend is the upstream-computed direction of customer spending.
type SpendingTrend string

const (
	SpendingIncreasing SpendingTrend = "INCREASING"
	SpendingStable     SpendingTrend = "STABLE"
	SpendingDecreasing SpendingTrend = "DECREASING"
)

// LoyaltyEngagement is the upstream-computed loyalty participation tier.
type LoyaltyEngagement string

const (
	LoyaltyEngagementHigh   LoyaltyEngagement = "HIGH"
	LoyaltyEngagementMedium LoyaltyEngagement = "MEDIUM"
	LoyaltyEngagementLow    LoyaltyEngagement = "LOW"
)

// PriceSegment classifies the customer's typical spend bracket.
type PriceSegment string

const (
	SegmentPremium  PriceSegment = "PREMIUM"
	SegmentModerate PriceSegment = "MODERATE"
	SegmentBudget   PriceSegment = "BUDGET"
)

// Visit is a single completed visit. Amount is in VND minor units.
type Visit struct {
	VisitedAt time.Time `json:"visitedAt"`
	Amount    int64     `json:"amount"`
	Services  []string  `json:"services"`
}

// Feedback is one piece of customer feedback.
type Feedback struct {
	SubmittedAt time.Time `json:"submittedAt"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
}

// CampaignDelivery records one marketing campaign delivery.
type CampaignDelivery struct {
	CampaignID  string    `json:"campaignId"`
	DeliveredAt time.Time `json:"deliveredAt"`
	Responded   bool      `json:"responded"`
}

// LoyaltyTransaction is one loyalty point movement.
type LoyaltyTransaction struct {
	OccurredAt time.Time `json:"occurredAt"`
	Points     int       `json:"points"`
	Kind       string    `json:"kind"`
}

// CustomerProfile is the read-only aggregate supplied by the profile
// store. Lists are newest-first and bounded (see Max* constants).
type CustomerProfile struct {
	CustomerID          string               `json:"customerId"`
	Name                string               `json:"name"`
	JoinedAt            time.Time            `json:"joinedAt"`
	LoyaltyTier         LoyaltyTier          `json:"loyaltyTier"`
	LoyaltyPoints       int                  `json:"loyaltyPoints"`
	LastVisitAt         time.Time            `json:"lastVisitAt"`
	Visits              []Visit              `json:"visits"`
	Feedback            []Feedback           `json:"feedback"`
	CampaignDeliveries  []CampaignDelivery   `json:"campaignDeliveries"`
	LoyaltyTransactions []LoyaltyTransaction `json:"loyaltyTransactions"`
}

// VisitCount returns the number of recorded visits.
func (p *CustomerProfile) VisitCount() int {
	return len(p.Visits)
}

// LifetimeValue sums all visit amounts.
func (p *CustomerProfile) LifetimeValue() int64 {
	var total int64
	for _, v := range p.Visits {
		total += v.Amount
	}
	return total
}

// AvgOrderValue is the mean visit amount, 0 when there are no visits.
func (p *CustomerProfile) AvgOrderValue() int64 {
	if len(p.Visits) == 0 {
		return 0
	}
	return p.LifetimeValue() / int64(len(p.Visits))
}

// DaysSinceLastVisit returns whole days since the last visit, or -1 when
// the customer has never visited.
func (p *CustomerProfile) DaysSinceLastVisit(now time.Time) int {
	if p.LastVisitAt.IsZero() {
		return -1
	}
	return int(now.Sub(p.LastVisitAt).Hours() / 24)
}

// CurrentMonthSpend sums visit amounts within the calendar month of now.
func (p *CustomerProfile) CurrentMonthSpend(now time.Time) int64 {
	var total int64
	for _, v := range p.Visits {
		if v.VisitedAt.Year() == now.Year() && v.VisitedAt.Month() == now.Month() {
			total += v.Amount
		}
	}
	return total
}

// CustomerInsights is the upstream signal bundle the engine consumes but
// never recomputes. Rates and scores are on a 0-100 scale.
type CustomerInsights struct {
	CustomerID             string            `json:"customerId"`
	ChurnProbability       float64           `json:"churnProbability"`
	SpendingTrend          SpendingTrend     `json:"spendingTrend"`
	SatisfactionScore      float64           `json:"satisfactionScore"`
	VisitFrequencyScore    float64           `json:"visitFrequencyScore"`
	LoyaltyEngagement      LoyaltyEngagement `json:"loyaltyEngagement"`
	CampaignResponseRate   float64           `json:"campaignResponseRate"`
	ReferralPotentialScore float64           `json:"referralPotentialScore"`
	LifetimeValueGrowth    float64           `json:"lifetimeValueGrowth"`
	Confidence             float64           `json:"confidence"`
}

// CommunicationSummary is the summarizer's view of two-way messaging.
// A nil summary means the provider has no record for the customer.
type CommunicationSummary struct {
	ResponseRate           float64 `json:"responseRate"`
	EngagementScore        float64 `json:"engagementScore"`
	CommunicationFrequency float64 `json:"communicationFrequency"`
	PreferredChannel       string  `json:"preferredChannel"`
}

// EnhancedProfile carries the behavioral-preference fields consumed by
// the behavioral component.
type EnhancedProfile struct {
	CustomerID         string       `json:"customerId"`
	PreferredDays      []string     `json:"preferredDays"`
	SeasonalPattern    string       `json:"seasonalPattern"`
	PriceSegment       PriceSegment `json:"priceSegment"`
	AverageOrderSize   int64        `json:"averageOrderSize"`
	ServicePreferences []string     `json:"servicePreferences"`
}
