package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/glowdesk/health-engine/pkg/assess"
	"github.com/glowdesk/health-engine/pkg/cache"
	"github.com/glowdesk/health-engine/pkg/common"
	"github.com/glowdesk/health-engine/pkg/insight"
	"github.com/glowdesk/health-engine/pkg/model"
	"github.com/glowdesk/health-engine/pkg/predict"
	"github.com/glowdesk/health-engine/pkg/scoring"
	"github.com/glowdesk/health-engine/pkg/store"

	"github.com/sirupsen/logrus"
)

const (
	// communicationHistoryLimit is how many messages the summarizer is
	// asked to consider per customer.
	communicationHistoryLimit = 50

	// alertWindow bounds how old a cached snapshot may be before the
	// alert scan ignores it.
	alertWindow = 24 * time.Hour

	// Alert thresholds, matching the critical insight rule defaults.
	alertScoreThreshold = 40
	alertChurnThreshold = 70
)

// Dependencies are the collaborators and components the engine is built
// from. Profiles, Insights, Cache and Insight are required; the rest
// have working defaults.
type Dependencies struct {
	Profiles  store.CustomerProfileStore
	Insights  store.CustomerInsightsEngine
	Comms     store.CommunicationHistoryProvider
	Enhanced  store.EnhancedProfileEngine
	Cache     cache.ScoreCache
	Benchmark predict.BenchmarkProvider
	Insight   *insight.Engine
	Metrics   *Metrics

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Engine is the health scoring facade. It orchestrates the component
// calculator, aggregator, trend tracker, assessors, predictors, insight
// engine and benchmark comparator into one GenerateHealthScore call,
// and serves batch/metrics/alert queries over the cache.
//
// The engine owns no collaborator I/O policy: store failures propagate
// to the caller, whose timeout and retry strategy applies.
type Engine struct {
	cfg  *Config
	calc *scoring.Calculator
	deps Dependencies
	now  func() time.Time
}

// New creates a health scoring engine. The configuration must already
// be validated (LoadConfig does this; DefaultConfig is always valid).
func New(cfg *Config, deps Dependencies) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	if deps.Profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if deps.Insights == nil {
		return nil, fmt.Errorf("insights engine is required")
	}
	if deps.Cache == nil {
		return nil, fmt.Errorf("score cache is required")
	}
	if deps.Insight == nil {
		return nil, fmt.Errorf("insight engine is required")
	}
	if deps.Benchmark == nil {
		deps.Benchmark = predict.NewStaticBenchmarkProvider(cfg.Benchmark.SegmentAverage)
	}

	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	return &Engine{
		cfg:  cfg,
		calc: scoring.NewCalculator(),
		deps: deps,
		now:  now,
	}, nil
}

// collaboratorInputs is the result of the concurrent collaborator
// fan-out for one customer.
type collaboratorInputs struct {
	profile       *model.CustomerProfile
	insights      *model.CustomerInsights
	communication *model.CommunicationSummary
	enhanced      *model.EnhancedProfile
}

// fetchInputs reads all collaborators concurrently. The reads are
// independent, so they fan out; any error aborts scoring.
func (e *Engine) fetchInputs(ctx context.Context, customerID string) (*collaboratorInputs, error) {
	var (
		wg   sync.WaitGroup
		in   collaboratorInputs
		mu   sync.Mutex
		errs []error
	)

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, err := e.deps.Profiles.GetProfile(ctx, customerID)
		if err != nil {
			record(fmt.Errorf("profile store: %w", err))
			return
		}
		in.profile = profile
	}()
	go func() {
		defer wg.Done()
		insights, err := e.deps.Insights.GenerateInsights(ctx, customerID)
		if err != nil {
			record(fmt.Errorf("insights engine: %w", err))
			return
		}
		in.insights = insights
	}()

	if e.deps.Comms != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := e.deps.Comms.GetSummary(ctx, customerID, communicationHistoryLimit)
			if err != nil {
				record(fmt.Errorf("communication history provider: %w", err))
				return
			}
			in.communication = summary
		}()
	}
	if e.deps.Enhanced != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enhanced, err := e.deps.Enhanced.GenerateProfile(ctx, customerID)
			if err != nil {
				record(fmt.Errorf("enhanced profile engine: %w", err))
				return
			}
			in.enhanced = enhanced
		}()
	}

	wg.Wait()

	if len(errs) > 0 {
		// NotFound wins so callers can distinguish it from transient
		// dependency failures.
		for _, err := range errs {
			if isNotFound(err) {
				return nil, err
			}
		}
		return nil, errs[0]
	}

	return &in, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrCustomerNotFound)
}

// GenerateHealthScore computes and caches a fresh health score for one
// customer. A cache write failure is logged but does not fail the call;
// only trend tracking for future calls is affected.
func (e *Engine) GenerateHealthScore(ctx context.Context, customerID string) (*model.CustomerHealthScore, error) {
	scope := common.GetScopeFromContext(ctx, "HealthEngine.GenerateHealthScore")
	defer scope.Finish()
	scope.AddBaggage("customerId", customerID)

	started := e.now()

	inputs, err := e.fetchInputs(scope.Ctx, customerID)
	if err != nil {
		scope.TraceError(err)
		if e.deps.Metrics != nil {
			e.deps.Metrics.ScoringFailures.Inc()
		}
		return nil, fmt.Errorf("failed to fetch inputs for customer %s: %w", customerID, err)
	}

	score := e.computeScore(scope, customerID, inputs)

	// Trend detection and the snapshot write happen inside the cache's
	// per-key mutual exclusion domain, so concurrent scoring of the
	// same customer cannot interleave them.
	cacheErr := e.deps.Cache.Update(scope.Ctx, customerID, func(prev *cache.Entry) (model.CustomerHealthScore, error) {
		var prior *scoring.PriorSnapshot
		if prev != nil {
			prior = &scoring.PriorSnapshot{
				Score:     prev.Score.OverallHealthScore,
				Timestamp: prev.Timestamp,
				History:   prev.Score.HealthHistory.SignificantChanges,
			}
		}
		trend, history := scoring.TrackTrend(score.OverallHealthScore, prior, score.LastUpdated)
		score.HealthTrend = trend
		score.HealthHistory = history
		return *score, nil
	})
	if cacheErr != nil {
		// The computed score is still valid; only future trend
		// detection degrades.
		logrus.Warnf("failed to cache health score for customer %s: %v", customerID, cacheErr)
		scope.TraceEvent("cache write failed")
	}

	e.observeScoring(scope.Ctx, score, started)

	logrus.Infof("generated health score for customer %s: overall=%d level=%s trend=%s",
		customerID, score.OverallHealthScore, score.HealthLevel, score.HealthTrend)

	return score, nil
}

// computeScore runs the purely computational part of the pipeline:
// components → aggregate → risk/engagement/predictions/insights →
// benchmark → assembled result. Trend fields carry defaults until the
// cache read-modify-write fills them in.
func (e *Engine) computeScore(scope *common.Scope, customerID string, inputs *collaboratorInputs) *model.CustomerHealthScore {
	now := e.now()

	model.NormalizeProfile(inputs.profile)
	model.NormalizeInsights(inputs.insights)
	model.NormalizeCommunication(inputs.communication)

	components := e.calc.Calculate(scoring.ComponentInputs{
		Profile:       inputs.profile,
		Insights:      inputs.insights,
		Communication: inputs.communication,
		Enhanced:      inputs.enhanced,
		Now:           now,
	})

	overall := scoring.Aggregate(components, e.cfg.Weights)
	level := scoring.HealthLevelFor(overall)
	scope.SetAttributes("overallHealthScore", overall)

	daysSinceLastVisit := inputs.profile.DaysSinceLastVisit(now)

	risk := assess.AssessRisk(assess.RiskInputs{
		OverallScore:       overall,
		ChurnProbability:   inputs.insights.ChurnProbability,
		DaysSinceLastVisit: daysSinceLastVisit,
		SpendingTrend:      inputs.insights.SpendingTrend,
		SatisfactionScore:  inputs.insights.SatisfactionScore,
	})

	responseRate := 0.0
	if inputs.communication != nil {
		responseRate = inputs.communication.ResponseRate
	}
	engagement := assess.AnalyzeEngagement(assess.EngagementInputs{
		ResponseRate:        responseRate,
		VisitFrequencyScore: inputs.insights.VisitFrequencyScore,
		LoyaltyPoints:       inputs.profile.LoyaltyPoints,
		FeedbackCount:       len(inputs.profile.Feedback),
		CampaignEngagement:  inputs.insights.CampaignResponseRate,
		SocialInfluence:     inputs.insights.ReferralPotentialScore,
	})

	predictions := predict.Predict(predict.Inputs{
		ChurnProbability:    inputs.insights.ChurnProbability,
		SpendingTrend:       inputs.insights.SpendingTrend,
		CurrentMonthSpend:   inputs.profile.CurrentMonthSpend(now),
		LifetimeValueGrowth: inputs.insights.LifetimeValueGrowth,
		UpstreamConfidence:  inputs.insights.Confidence,
	})

	insights, warnings := e.deps.Insight.Generate(scope.Ctx, insight.ScoreContext{
		CustomerID:         customerID,
		OverallScore:       overall,
		HealthLevel:        level,
		ChurnProbability:   inputs.insights.ChurnProbability,
		SpendingTrend:      inputs.insights.SpendingTrend,
		LoyaltyEngagement:  inputs.insights.LoyaltyEngagement,
		SatisfactionScore:  inputs.insights.SatisfactionScore,
		DaysSinceLastVisit: daysSinceLastVisit,
		LoyaltyPoints:      inputs.profile.LoyaltyPoints,
	})
	for _, w := range warnings {
		logrus.Warnf("insight rule %s failed for customer %s: %v", w.RuleID, customerID, w.Err)
	}

	segmentAverage, err := e.deps.Benchmark.SegmentAverage(scope.Ctx, customerID)
	if err != nil {
		logrus.Warnf("benchmark provider failed for customer %s, using static baseline: %v", customerID, err)
		segmentAverage = e.cfg.Benchmark.SegmentAverage
	}
	benchmark := predict.Compare(overall, segmentAverage)

	frequency := scoring.UpdateFrequencyFor(level, overall)

	// Trend defaults for the no-prior-snapshot case; the cache update
	// callback overwrites them when a prior snapshot exists.
	trend, history := scoring.TrackTrend(overall, nil, now)

	return &model.CustomerHealthScore{
		CustomerID:          customerID,
		OverallHealthScore:  overall,
		HealthLevel:         level,
		HealthTrend:         trend,
		ScoringComponents:   components,
		RiskAssessment:      risk,
		EngagementAnalysis:  engagement,
		PredictionModels:    predictions,
		HealthHistory:       history,
		AutomatedInsights:   insights,
		BenchmarkComparison: benchmark,
		LastUpdated:         now,
		NextUpdateDue:       now.Add(frequency.Interval()),
		UpdateFrequency:     frequency,
	}
}

// observeScoring feeds the Prometheus instruments after a successful
// score computation.
func (e *Engine) observeScoring(ctx context.Context, score *model.CustomerHealthScore, started time.Time) {
	if e.deps.Metrics == nil {
		return
	}

	e.deps.Metrics.ScoresComputed.WithLabelValues(string(score.HealthLevel)).Inc()
	e.deps.Metrics.ScoringDuration.Observe(e.now().Sub(started).Seconds())

	if size, err := e.deps.Cache.Len(ctx); err == nil {
		e.deps.Metrics.CacheEntries.Set(float64(size))
	}
}

// BatchResult is one per-customer outcome of a batch request. Results
// are independent: one customer's failure never affects another's.
type BatchResult struct {
	CustomerID string
	Score      *model.CustomerHealthScore
	Err        error
}

// GetBatchHealthScores scores multiple customers, preserving input
// order. The configured batch limit is enforced here as well as at the
// transport layer.
func (e *Engine) GetBatchHealthScores(ctx context.Context, customerIDs []string) ([]BatchResult, error) {
	if len(customerIDs) > e.cfg.BatchLimit {
		return nil, fmt.Errorf("batch size %d exceeds limit %d", len(customerIDs), e.cfg.BatchLimit)
	}

	results := make([]BatchResult, len(customerIDs))
	for i, id := range customerIDs {
		score, err := e.GenerateHealthScore(ctx, id)
		results[i] = BatchResult{
			CustomerID: id,
			Score:      score,
			Err:        err,
		}
	}

	return results, nil
}

// ScoringMetrics is the aggregate distribution over cache contents.
type ScoringMetrics struct {
	TotalCustomers   int                           `json:"totalCustomers"`
	AverageScore     float64                       `json:"averageScore"`
	HealthLevels     map[model.HealthLevel]int     `json:"healthLevels"`
	ChurnRisks       map[model.ChurnRisk]int       `json:"churnRisks"`
	EngagementLevels map[model.EngagementLevel]int `json:"engagementLevels"`
	Trends           map[model.HealthTrend]int     `json:"trends"`
}

// GetHealthScoringMetrics aggregates histograms over all cached scores.
func (e *Engine) GetHealthScoringMetrics(ctx context.Context) (*ScoringMetrics, error) {
	entries, err := e.deps.Cache.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read score cache: %w", err)
	}

	metrics := &ScoringMetrics{
		TotalCustomers:   len(entries),
		HealthLevels:     make(map[model.HealthLevel]int),
		ChurnRisks:       make(map[model.ChurnRisk]int),
		EngagementLevels: make(map[model.EngagementLevel]int),
		Trends:           make(map[model.HealthTrend]int),
	}

	total := 0
	for _, entry := range entries {
		s := entry.Score
		metrics.HealthLevels[s.HealthLevel]++
		metrics.ChurnRisks[s.RiskAssessment.ChurnRisk]++
		metrics.EngagementLevels[s.EngagementAnalysis.Level]++
		metrics.Trends[s.HealthTrend]++
		total += s.OverallHealthScore
	}
	if len(entries) > 0 {
		metrics.AverageScore = float64(total) / float64(len(entries))
	}

	return metrics, nil
}

// Alert is a customer-facing health alert rendered from a recent cached
// snapshot.
type Alert struct {
	CustomerID string    `json:"customerId"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	Score      int       `json:"score"`
	RaisedAt   time.Time `json:"raisedAt"`
}

// GetHealthScoreAlerts scans cache entries written within the last 24
// hours and renders alerts for critically low scores, high churn
// probability and declining trends.
func (e *Engine) GetHealthScoreAlerts(ctx context.Context) ([]Alert, error) {
	entries, err := e.deps.Cache.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read score cache: %w", err)
	}

	cutoff := e.now().Add(-alertWindow)
	alerts := []Alert{}

	for _, entry := range entries {
		if entry.Timestamp.Before(cutoff) {
			continue
		}

		s := entry.Score
		if s.OverallHealthScore < alertScoreThreshold {
			alerts = append(alerts, Alert{
				CustomerID: entry.CustomerID,
				Severity:   "critical",
				Message:    fmt.Sprintf("Customer health score dropped to %d - immediate attention required", s.OverallHealthScore),
				Score:      s.OverallHealthScore,
				RaisedAt:   entry.Timestamp,
			})
		}
		if s.RiskAssessment.ChurnProbability > alertChurnThreshold {
			alerts = append(alerts, Alert{
				CustomerID: entry.CustomerID,
				Severity:   "high",
				Message:    fmt.Sprintf("Churn probability at %d%% - retention action recommended", s.RiskAssessment.ChurnProbability),
				Score:      s.OverallHealthScore,
				RaisedAt:   entry.Timestamp,
			})
		}
		if s.HealthTrend == model.TrendDeclining {
			alerts = append(alerts, Alert{
				CustomerID: entry.CustomerID,
				Severity:   "warning",
				Message:    "Customer health is declining - review recent activity",
				Score:      s.OverallHealthScore,
				RaisedAt:   entry.Timestamp,
			})
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].CustomerID != alerts[j].CustomerID {
			return alerts[i].CustomerID < alerts[j].CustomerID
		}
		return alerts[i].Severity < alerts[j].Severity
	})

	if e.deps.Metrics != nil {
		e.deps.Metrics.ActiveAlerts.Set(float64(len(alerts)))
	}

	return alerts, nil
}

// GetCustomersNeedingHealthUpdates returns the ids of customers whose
// cached score is due for recomputation.
func (e *Engine) GetCustomersNeedingHealthUpdates(ctx context.Context) ([]string, error) {
	entries, err := e.deps.Cache.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read score cache: %w", err)
	}

	now := e.now()
	due := []string{}
	for _, entry := range entries {
		if !entry.Score.NextUpdateDue.After(now) {
			due = append(due, entry.CustomerID)
		}
	}

	sort.Strings(due)
	return due, nil
}
