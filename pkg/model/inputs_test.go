// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package model

import (
	"testing"
	"time"
)

func TestCustomerProfile_Derivations(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	profile := CustomerProfile{
		CustomerID:  "cust-1",
		LastVisitAt: now.AddDate(0, 0, -10),
		Visits: []Visit{
			{VisitedAt: now.AddDate(0, 0, -10), Amount: 300_000},
			{VisitedAt: now.AddDate(0, 0, -40), Amount: 200_000},
			{VisitedAt: now.AddDate(0, -2, 0), Amount: 100_000},
		},
	}

	if got := profile.VisitCount(); got != 3 {
		t.Errorf("VisitCount() = %d, expected 3", got)
	}
	if got := profile.LifetimeValue(); got != 600_000 {
		t.Errorf("LifetimeValue() = %d, expected 600000", got)
	}
	if got := profile.AvgOrderValue(); got != 200_000 {
		t.Errorf("AvgOrderValue() = %d, expected 200000", got)
	}
	if got := profile.DaysSinceLastVisit(now); got != 10 {
		t.Errorf("DaysSinceLastVisit() = %d, expected 10", got)
	}
	// Only the visit inside June counts.
	if got := profile.CurrentMonthSpend(now); got != 300_000 {
		t.Errorf("CurrentMonthSpend() = %d, expected 300000", got)
	}
}

func TestCustomerProfile_NoVisits(t *testing.T) {
	now := time.Now()
	profile := CustomerProfile{CustomerID: "cust-1"}

	if got := profile.AvgOrderValue(); got != 0 {
		t.Errorf("AvgOrderValue() = %d, expected 0", got)
	}
	if got := profile.DaysSinceLastVisit(now); got != -1 {
		t.Errorf("DaysSinceLastVisit() = %d, expected -1 for never visited", got)
	}
	if got := profile.CurrentMonthSpend(now); got != 0 {
		t.Errorf("CurrentMonthSpend() = %d, expected 0", got)
	}
}

func TestUpdateFrequency_Interval(t *testing.T) {
	cases := []struct {
		freq     UpdateFrequency
		interval time.Duration
	}{
		{UpdateDaily, 24 * time.Hour},
		{UpdateWeekly, 7 * 24 * time.Hour},
		{UpdateMonthly, 30 * 24 * time.Hour},
	}

	for _, tc := range cases {
		if got := tc.freq.Interval(); got != tc.interval {
			t.Errorf("%s: expected %v, got %v", tc.freq, tc.interval, got)
		}
	}
}
