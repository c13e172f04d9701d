// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package model

import (
	"testing"
	"time"
)

func TestClampRate(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{50.5, 50.5},
		{100, 100},
		{150, 100},
	}

	for _, tc := range cases {
		if got := ClampRate(tc.in); got != tc.want {
			t.Errorf("ClampRate(%f) = %f, expected %f", tc.in, got, tc.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	if got := ClampScore(-1); got != 0 {
		t.Errorf("ClampScore(-1) = %d, expected 0", got)
	}
	if got := ClampScore(101); got != 100 {
		t.Errorf("ClampScore(101) = %d, expected 100", got)
	}
	if got := ClampScore(42); got != 42 {
		t.Errorf("ClampScore(42) = %d, expected 42", got)
	}
}

func TestNormalizeProfile_TruncatesLists(t *testing.T) {
	profile := &CustomerProfile{
		Visits:              make([]Visit, MaxVisits+10),
		Feedback:            make([]Feedback, MaxFeedback+5),
		CampaignDeliveries:  make([]CampaignDelivery, MaxCampaignDeliveries+2),
		LoyaltyTransactions: make([]LoyaltyTransaction, MaxLoyaltyTransactions+1),
	}

	NormalizeProfile(profile)

	if len(profile.Visits) != MaxVisits {
		t.Errorf("Expected %d visits, got %d", MaxVisits, len(profile.Visits))
	}
	if len(profile.Feedback) != MaxFeedback {
		t.Errorf("Expected %d feedback entries, got %d", MaxFeedback, len(profile.Feedback))
	}
	if len(profile.CampaignDeliveries) != MaxCampaignDeliveries {
		t.Errorf("Expected %d deliveries, got %d", MaxCampaignDeliveries, len(profile.CampaignDeliveries))
	}
	if len(profile.LoyaltyTransactions) != MaxLoyaltyTransactions {
		t.Errorf("Expected %d transactions, got %d", MaxLoyaltyTransactions, len(profile.LoyaltyTransactions))
	}
}

func TestNormalizeProfile_BackfillsLastVisit(t *testing.T) {
	newest := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	profile := &CustomerProfile{
		Visits: []Visit{
			{VisitedAt: newest.AddDate(0, 0, -20)},
			{VisitedAt: newest},
			{VisitedAt: newest.AddDate(0, 0, -5)},
		},
	}

	NormalizeProfile(profile)

	if !profile.LastVisitAt.Equal(newest) {
		t.Errorf("Expected LastVisitAt %v, got %v", newest, profile.LastVisitAt)
	}
}

func TestNormalizeInsights_Defaults(t *testing.T) {
	in := &CustomerInsights{
		ChurnProbability:  120,
		SatisfactionScore: -3,
	}

	NormalizeInsights(in)

	if in.ChurnProbability != 100 {
		t.Errorf("Expected churn clamped to 100, got %f", in.ChurnProbability)
	}
	if in.SatisfactionScore != 0 {
		t.Errorf("Expected satisfaction clamped to 0, got %f", in.SatisfactionScore)
	}
	if in.SpendingTrend != SpendingStable {
		t.Errorf("Expected STABLE spending default, got %s", in.SpendingTrend)
	}
	if in.LoyaltyEngagement != LoyaltyEngagementLow {
		t.Errorf("Expected LOW engagement default, got %s", in.LoyaltyEngagement)
	}
}

func TestNormalizeCommunication(t *testing.T) {
	s := &CommunicationSummary{
		ResponseRate:           130,
		EngagementScore:        -5,
		CommunicationFrequency: -1,
	}

	NormalizeCommunication(s)

	if s.ResponseRate != 100 {
		t.Errorf("Expected response rate 100, got %f", s.ResponseRate)
	}
	if s.EngagementScore != 0 {
		t.Errorf("Expected engagement score 0, got %f", s.EngagementScore)
	}
	if s.CommunicationFrequency != 0 {
		t.Errorf("Expected frequency 0, got %f", s.CommunicationFrequency)
	}
}

func TestNormalize_NilSafe(t *testing.T) {
	NormalizeProfile(nil)
	NormalizeInsights(nil)
	NormalizeCommunication(nil)
}
