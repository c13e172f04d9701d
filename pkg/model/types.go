// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package model

import (
	"time"
)

// HealthLevel is the discrete classification of an overall health score.
type HealthLevel string

const (
	HealthExcellent HealthLevel = "EXCELLENT"
	HealthGood      HealthLevel = "GOOD"
	HealthFair      HealthLevel = "FAIR"
	HealthPoor      HealthLevel = "POOR"
	HealthCritical  HealthLevel = "CRITICAL"
)

// HealthTrend describes the direction of a score relative to the
// previously cached snapshot.
type HealthTrend string

const (
	TrendImproving HealthTrend = "IMPROVING"
	TrendStable    HealthTrend = "STABLE"
	TrendDeclining HealthTrend = "DECLINING"
)

// ChurnRisk is the churn risk tier derived from churn probability.
type ChurnRisk string

const (
	ChurnRiskLow      ChurnRisk = "LOW"
	ChurnRiskMedium   ChurnRisk = "MEDIUM"
	ChurnRiskHigh     ChurnRisk = "HIGH"
	ChurnRiskCritical ChurnRisk = "CRITICAL"
)

// EngagementLevel classifies how engaged a customer is.
type EngagementLevel string

const (
	HighlyEngaged     EngagementLevel = "HIGHLY_ENGAGED"
	ModeratelyEngaged EngagementLevel = "MODERATELY_ENGAGED"
	LightlyEngaged    EngagementLevel = "LIGHTLY_ENGAGED"
	Disengaged        EngagementLevel = "DISENGAGED"
)

// TrendDirection is the percentage-based direction used in health history.
type TrendDirection string

const (
	DirectionUp     TrendDirection = "UP"
	DirectionDown   TrendDirection = "DOWN"
	DirectionStable TrendDirection = "STABLE"
)

// UpdateFrequency determines how often a customer's score should be
// recomputed. It is derived from health severity.
type UpdateFrequency string

const (
	UpdateDaily   UpdateFrequency = "DAILY"
	UpdateWeekly  UpdateFrequency = "WEEKLY"
	UpdateMonthly UpdateFrequency = "MONTHLY"
)

// Interval returns how long after lastUpdated the next update is due.
func (f UpdateFrequency) Interval() time.Duration {
	switch f {
	case UpdateDaily:
		return 24 * time.Hour
	case UpdateWeekly:
		return 7 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// BenchmarkRanking positions a customer against the segment baseline.
type BenchmarkRanking string

const (
	RankTop10        BenchmarkRanking = "TOP_10"
	RankTop25        BenchmarkRanking = "TOP_25"
	RankAverage      BenchmarkRanking = "AVERAGE"
	RankBelowAverage BenchmarkRanking = "BELOW_AVERAGE"
	RankBottom10     BenchmarkRanking = "BOTTOM_10"
)

// ScoringComponents holds the six independent sub-scores, each in [0,100].
type ScoringComponents struct {
	Engagement    int `json:"engagement"`
	Loyalty       int `json:"loyalty"`
	Behavioral    int `json:"behavioral"`
	Communication int `json:"communication"`
	Satisfaction  int `json:"satisfaction"`
	Profitability int `json:"profitability"`
}

// RiskAssessment is the churn risk classification for a customer.
type RiskAssessment struct {
	ChurnRisk            ChurnRisk `json:"churnRisk"`
	ChurnProbability     int       `json:"churnProbability"`
	RiskFactors          []string  `json:"riskFactors"`
	MitigationStrategies []string  `json:"mitigationStrategies"`
}

// EngagementAnalysis carries the engagement level together with the raw
// sub-signals that produced it.
type EngagementAnalysis struct {
	Level                EngagementLevel `json:"level"`
	ResponseRate         float64         `json:"responseRate"`
	VisitFrequencyScore  float64         `json:"visitFrequencyScore"`
	LoyaltyParticipation float64         `json:"loyaltyParticipation"`
	FeedbackEngagement   float64         `json:"feedbackEngagement"`
	CampaignEngagement   float64         `json:"campaignEngagement"`
	SocialInfluence      float64         `json:"socialInfluence"`
}

// NextVisitPrediction estimates the likelihood of another visit.
type NextVisitPrediction struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// SpendingPrediction estimates near-term spending.
type SpendingPrediction struct {
	NextMonthSpending int64   `json:"nextMonthSpending"`
	Confidence        float64 `json:"confidence"`
}

// LifetimeValuePrediction carries the upstream lifetime-value growth
// estimate with a fixed projection horizon.
type LifetimeValuePrediction struct {
	ProjectedGrowth float64 `json:"projectedGrowth"`
	HorizonMonths   int     `json:"horizonMonths"`
	Confidence      float64 `json:"confidence"`
}

// PredictionModels groups the three forward-looking estimates.
type PredictionModels struct {
	NextVisit     NextVisitPrediction     `json:"nextVisitPrediction"`
	Spending      SpendingPrediction      `json:"spendingPrediction"`
	LifetimeValue LifetimeValuePrediction `json:"lifetimeValuePrediction"`
}

// SignificantChange records a notable score movement between snapshots.
type SignificantChange struct {
	Date     time.Time `json:"date"`
	OldScore int       `json:"oldScore"`
	NewScore int       `json:"newScore"`
	Reason   string    `json:"reason"`
}

// HealthHistory compares the current score against the prior snapshot.
type HealthHistory struct {
	CurrentScore       int                 `json:"currentScore"`
	PreviousScore      int                 `json:"previousScore"`
	ChangePercentage   float64             `json:"changePercentage"`
	TrendDirection     TrendDirection      `json:"trendDirection"`
	SignificantChanges []SignificantChange `json:"significantChanges"`
}

// AutomatedInsights is the rule-generated guidance attached to a score.
// Lists may be empty but are never nil.
type AutomatedInsights struct {
	CriticalAlerts  []string `json:"criticalAlerts"`
	Opportunities   []string `json:"opportunities"`
	Recommendations []string `json:"recommendations"`
	NextBestActions []string `json:"nextBestActions"`
}

// BenchmarkComparison positions the score against a segment baseline.
type BenchmarkComparison struct {
	SegmentAverage     float64          `json:"segmentAverage"`
	IndustryPercentile int              `json:"industryPercentile"`
	Ranking            BenchmarkRanking `json:"ranking"`
}

// CustomerHealthScore is the engine's output. It is immutable once
// produced; callers must not mutate a returned score.
type CustomerHealthScore struct {
	CustomerID          string              `json:"customerId"`
	OverallHealthScore  int                 `json:"overallHealthScore"`
	HealthLevel         HealthLevel         `json:"healthLevel"`
	HealthTrend         HealthTrend         `json:"healthTrend"`
	ScoringComponents   ScoringComponents   `json:"scoringComponents"`
	RiskAssessment      RiskAssessment      `json:"riskAssessment"`
	EngagementAnalysis  EngagementAnalysis  `json:"engagementAnalysis"`
	PredictionModels    PredictionModels    `json:"predictionModels"`
	HealthHistory       HealthHistory       `json:"healthHistory"`
	AutomatedInsights   AutomatedInsights   `json:"automatedInsights"`
	BenchmarkComparison BenchmarkComparison `json:"benchmarkComparison"`
	LastUpdated         time.Time           `json:"lastUpdated"`
	NextUpdateDue       time.Time           `json:"nextUpdateDue"`
	UpdateFrequency     UpdateFrequency     `json:"updateFrequency"`
}
