package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glowdesk/health-engine/pkg/cache"
	"github.com/glowdesk/health-engine/pkg/insight"
	"github.com/glowdesk/health-engine/pkg/insight/builtin"
	"github.com/glowdesk/health-engine/pkg/model"
	"github.com/glowdesk/health-engine/pkg/store"
)

// testClock is a settable clock shared between test and engine.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	profiles *store.MemoryProfileStore
	insights *store.MemoryInsightsEngine
	comms    *store.MemoryCommunicationProvider
	enhanced *store.MemoryEnhancedProfileEngine
	cache    *cache.MemoryScoreCache
	clock    *testClock
	engine   *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	builtin.RegisterBuiltinRules()

	cfg := DefaultConfig()
	registry := insight.NewRegistry()
	if err := insight.RegisterRules(registry, cfg.InsightRules); err != nil {
		t.Fatalf("failed to register insight rules: %v", err)
	}

	f := &fixture{
		profiles: store.NewMemoryProfileStore(),
		insights: store.NewMemoryInsightsEngine(),
		comms:    store.NewMemoryCommunicationProvider(),
		enhanced: store.NewMemoryEnhancedProfileEngine(),
		clock:    &testClock{t: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)},
	}
	f.cache = cache.NewMemoryScoreCache(cfg.Cache.Capacity, cache.WithClock(f.clock.Now))

	eng, err := New(cfg, Dependencies{
		Profiles: f.profiles,
		Insights: f.insights,
		Comms:    f.comms,
		Enhanced: f.enhanced,
		Cache:    f.cache,
		Insight:  insight.NewEngine(registry),
		Metrics:  NewMetrics(),
		Clock:    f.clock.Now,
	})
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	f.engine = eng
	return f
}

// seedBrandNewCustomer seeds the minimal fixture: a just-joined customer
// with no visits, default upstream insights, and an SMS contact channel.
func (f *fixture) seedBrandNewCustomer(customerID string) {
	f.profiles.Seed(model.CustomerProfile{
		CustomerID:  customerID,
		Name:        "New Customer",
		JoinedAt:    f.clock.Now(),
		LoyaltyTier: model.TierBronze,
	})
	f.comms.Seed(customerID, model.CommunicationSummary{
		PreferredChannel: "SMS",
	})
}

func TestGenerateHealthScore_BrandNewCustomer(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-1")

	score, err := f.engine.GenerateHealthScore(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("GenerateHealthScore() error = %v", err)
	}

	if score.OverallHealthScore != 33 {
		t.Errorf("Expected overall 33, got %d", score.OverallHealthScore)
	}
	if score.HealthLevel != model.HealthCritical {
		t.Errorf("Expected CRITICAL, got %s", score.HealthLevel)
	}
	if score.HealthTrend != model.TrendStable {
		t.Errorf("Expected STABLE trend for first score, got %s", score.HealthTrend)
	}

	expected := model.ScoringComponents{
		Engagement:    20,
		Loyalty:       35,
		Behavioral:    30,
		Communication: 15,
		Satisfaction:  75,
		Profitability: 30,
	}
	if score.ScoringComponents != expected {
		t.Errorf("Expected components %+v, got %+v", expected, score.ScoringComponents)
	}

	// Low health floors churn probability to 70 and classifies HIGH.
	if score.RiskAssessment.ChurnProbability != 70 {
		t.Errorf("Expected churn probability 70, got %d", score.RiskAssessment.ChurnProbability)
	}
	if score.RiskAssessment.ChurnRisk != model.ChurnRiskHigh {
		t.Errorf("Expected HIGH churn risk, got %s", score.RiskAssessment.ChurnRisk)
	}

	if score.UpdateFrequency != model.UpdateDaily {
		t.Errorf("Expected DAILY updates, got %s", score.UpdateFrequency)
	}
	wantDue := f.clock.Now().Add(24 * time.Hour)
	if !score.NextUpdateDue.Equal(wantDue) {
		t.Errorf("Expected next update %v, got %v", wantDue, score.NextUpdateDue)
	}

	if len(score.AutomatedInsights.CriticalAlerts) == 0 {
		t.Error("Expected at least one critical alert for a critical score")
	}
	if score.BenchmarkComparison.Ranking != model.RankBelowAverage {
		t.Errorf("Expected BELOW_AVERAGE ranking, got %s", score.BenchmarkComparison.Ranking)
	}
	if score.BenchmarkComparison.IndustryPercentile != 33 {
		t.Errorf("Expected percentile 33, got %d", score.BenchmarkComparison.IndustryPercentile)
	}
}

func TestGenerateHealthScore_IdempotentRescore(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-1")

	first, err := f.engine.GenerateHealthScore(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("GenerateHealthScore() error = %v", err)
	}

	second, err := f.engine.GenerateHealthScore(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("GenerateHealthScore() error = %v", err)
	}

	if second.OverallHealthScore != first.OverallHealthScore {
		t.Errorf("Expected identical score on rescore, got %d then %d",
			first.OverallHealthScore, second.OverallHealthScore)
	}
	if second.HealthTrend != model.TrendStable {
		t.Errorf("Expected STABLE trend, got %s", second.HealthTrend)
	}
	if second.HealthHistory.ChangePercentage != 0 {
		t.Errorf("Expected 0%% change, got %f", second.HealthHistory.ChangePercentage)
	}
	if second.HealthHistory.PreviousScore != first.OverallHealthScore {
		t.Errorf("Expected previous score %d, got %d",
			first.OverallHealthScore, second.HealthHistory.PreviousScore)
	}
	if len(second.HealthHistory.SignificantChanges) != 0 {
		t.Errorf("Expected no significant changes, got %v", second.HealthHistory.SignificantChanges)
	}
}

func TestGenerateHealthScore_ImprovementDetected(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-1")

	if _, err := f.engine.GenerateHealthScore(context.Background(), "cust-1"); err != nil {
		t.Fatalf("GenerateHealthScore() error = %v", err)
	}

	// The customer warms up considerably before the next scoring run.
	f.insights.Seed(model.CustomerInsights{
		CustomerID:           "cust-1",
		ChurnProbability:     10,
		SpendingTrend:        model.SpendingIncreasing,
		SatisfactionScore:    95,
		VisitFrequencyScore:  80,
		LoyaltyEngagement:    model.LoyaltyEngagementHigh,
		CampaignResponseRate: 80,
	})
	f.comms.Seed("cust-1", model.CommunicationSummary{
		ResponseRate:           90,
		EngagementScore:        85,
		CommunicationFrequency: 5,
		PreferredChannel:       "EMAIL",
	})
	f.enhanced.Seed(model.EnhancedProfile{
		CustomerID:         "cust-1",
		PreferredDays:      []string{"FRI", "SAT", "SUN"},
		SeasonalPattern:    "SUMMER_PEAK",
		PriceSegment:       model.SegmentPremium,
		AverageOrderSize:   250_000,
		ServicePreferences: []string{"color", "cut"},
	})
	f.clock.Advance(24 * time.Hour)

	score, err := f.engine.GenerateHealthScore(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("GenerateHealthScore() error = %v", err)
	}

	if score.OverallHealthScore != 73 {
		t.Errorf("Expected overall 73, got %d", score.OverallHealthScore)
	}
	if score.HealthTrend != model.TrendImproving {
		t.Errorf("Expected IMPROVING trend, got %s", score.HealthTrend)
	}
	if score.HealthHistory.TrendDirection != model.DirectionUp {
		t.Errorf("Expected UP direction, got %s", score.HealthHistory.TrendDirection)
	}
	if len(score.HealthHistory.SignificantChanges) != 1 {
		t.Fatalf("Expected 1 significant change, got %d", len(score.HealthHistory.SignificantChanges))
	}
	change := score.HealthHistory.SignificantChanges[0]
	if change.Reason != "major improvement in customer health" {
		t.Errorf("Unexpected change reason: %q", change.Reason)
	}
	if change.OldScore != 33 || change.NewScore != 73 {
		t.Errorf("Expected change 33 -> 73, got %d -> %d", change.OldScore, change.NewScore)
	}
}

func TestGenerateHealthScore_CustomerNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.GenerateHealthScore(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error for unknown customer")
	}
	if !errors.Is(err, store.ErrCustomerNotFound) {
		t.Errorf("Expected ErrCustomerNotFound, got %v", err)
	}
}

// failingCache always rejects writes but serves reads normally.
type failingCache struct {
	cache.ScoreCache
}

func (f *failingCache) Update(ctx context.Context, customerID string, fn func(prev *cache.Entry) (model.CustomerHealthScore, error)) error {
	return errors.New("cache unavailable")
}

func TestGenerateHealthScore_CacheFailureStillReturnsScore(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-1")

	cfg := DefaultConfig()
	registry := insight.NewRegistry()
	if err := insight.RegisterRules(registry, cfg.InsightRules); err != nil {
		t.Fatalf("failed to register insight rules: %v", err)
	}
	eng, err := New(cfg, Dependencies{
		Profiles: f.profiles,
		Insights: f.insights,
		Comms:    f.comms,
		Enhanced: f.enhanced,
		Cache:    &failingCache{ScoreCache: f.cache},
		Insight:  insight.NewEngine(registry),
		Clock:    f.clock.Now,
	})
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}

	score, err := eng.GenerateHealthScore(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("Expected score despite cache failure, got error %v", err)
	}
	if score.OverallHealthScore != 33 {
		t.Errorf("Expected overall 33, got %d", score.OverallHealthScore)
	}
}

func TestGetBatchHealthScores(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-a")
	f.seedBrandNewCustomer("cust-b")

	results, err := f.engine.GetBatchHealthScores(context.Background(), []string{"cust-a", "missing", "cust-b"})
	if err != nil {
		t.Fatalf("GetBatchHealthScores() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// Input order preserved.
	for i, id := range []string{"cust-a", "missing", "cust-b"} {
		if results[i].CustomerID != id {
			t.Errorf("Result %d: expected customer %s, got %s", i, id, results[i].CustomerID)
		}
	}

	if results[0].Err != nil || results[2].Err != nil {
		t.Error("Expected seeded customers to score successfully")
	}
	if results[1].Err == nil {
		t.Error("Expected error for missing customer")
	}
	if !errors.Is(results[1].Err, store.ErrCustomerNotFound) {
		t.Errorf("Expected ErrCustomerNotFound, got %v", results[1].Err)
	}
	if results[1].Score != nil {
		t.Error("Expected nil score for failed customer")
	}
}

func TestGetBatchHealthScores_LimitEnforced(t *testing.T) {
	f := newFixture(t)

	ids := make([]string, DefaultBatchLimit+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("cust-%d", i)
	}

	_, err := f.engine.GetBatchHealthScores(context.Background(), ids)
	if err == nil {
		t.Error("Expected error when batch exceeds limit")
	}
}

func TestGetHealthScoringMetrics(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-a")
	f.seedBrandNewCustomer("cust-b")

	for _, id := range []string{"cust-a", "cust-b"} {
		if _, err := f.engine.GenerateHealthScore(context.Background(), id); err != nil {
			t.Fatalf("GenerateHealthScore(%s) error = %v", id, err)
		}
	}

	metrics, err := f.engine.GetHealthScoringMetrics(context.Background())
	if err != nil {
		t.Fatalf("GetHealthScoringMetrics() error = %v", err)
	}

	if metrics.TotalCustomers != 2 {
		t.Errorf("Expected 2 customers, got %d", metrics.TotalCustomers)
	}
	if metrics.AverageScore != 33 {
		t.Errorf("Expected average 33, got %f", metrics.AverageScore)
	}
	if metrics.HealthLevels[model.HealthCritical] != 2 {
		t.Errorf("Expected 2 critical customers, got %d", metrics.HealthLevels[model.HealthCritical])
	}
	if metrics.ChurnRisks[model.ChurnRiskHigh] != 2 {
		t.Errorf("Expected 2 high-risk customers, got %d", metrics.ChurnRisks[model.ChurnRiskHigh])
	}
	if metrics.Trends[model.TrendStable] != 2 {
		t.Errorf("Expected 2 stable trends, got %d", metrics.Trends[model.TrendStable])
	}
}

func TestGetHealthScoringMetrics_EmptyCache(t *testing.T) {
	f := newFixture(t)

	metrics, err := f.engine.GetHealthScoringMetrics(context.Background())
	if err != nil {
		t.Fatalf("GetHealthScoringMetrics() error = %v", err)
	}
	if metrics.TotalCustomers != 0 {
		t.Errorf("Expected 0 customers, got %d", metrics.TotalCustomers)
	}
	if metrics.AverageScore != 0 {
		t.Errorf("Expected average 0, got %f", metrics.AverageScore)
	}
}

func TestGetHealthScoreAlerts(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-1")

	if _, err := f.engine.GenerateHealthScore(context.Background(), "cust-1"); err != nil {
		t.Fatalf("GenerateHealthScore() error = %v", err)
	}

	alerts, err := f.engine.GetHealthScoreAlerts(context.Background())
	if err != nil {
		t.Fatalf("GetHealthScoreAlerts() error = %v", err)
	}

	// Score 33 < 40 raises a critical alert. Churn probability is exactly
	// 70, which does not cross the strict high-churn threshold.
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].Severity != "critical" {
		t.Errorf("Expected critical severity, got %s", alerts[0].Severity)
	}
	if alerts[0].CustomerID != "cust-1" {
		t.Errorf("Expected cust-1, got %s", alerts[0].CustomerID)
	}
	if alerts[0].Score != 33 {
		t.Errorf("Expected score 33, got %d", alerts[0].Score)
	}
}

func TestGetHealthScoreAlerts_IgnoresStaleEntries(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-1")

	if _, err := f.engine.GenerateHealthScore(context.Background(), "cust-1"); err != nil {
		t.Fatalf("GenerateHealthScore() error = %v", err)
	}

	f.clock.Advance(25 * time.Hour)

	alerts, err := f.engine.GetHealthScoreAlerts(context.Background())
	if err != nil {
		t.Fatalf("GetHealthScoreAlerts() error = %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("Expected no alerts from stale snapshots, got %d", len(alerts))
	}
}

func TestGetCustomersNeedingHealthUpdates(t *testing.T) {
	f := newFixture(t)
	f.seedBrandNewCustomer("cust-b")
	f.seedBrandNewCustomer("cust-a")

	for _, id := range []string{"cust-b", "cust-a"} {
		if _, err := f.engine.GenerateHealthScore(context.Background(), id); err != nil {
			t.Fatalf("GenerateHealthScore(%s) error = %v", id, err)
		}
	}

	due, err := f.engine.GetCustomersNeedingHealthUpdates(context.Background())
	if err != nil {
		t.Fatalf("GetCustomersNeedingHealthUpdates() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("Expected nothing due immediately after scoring, got %v", due)
	}

	// Both customers are on DAILY updates; a day later they are due,
	// sorted by customer id.
	f.clock.Advance(25 * time.Hour)

	due, err = f.engine.GetCustomersNeedingHealthUpdates(context.Background())
	if err != nil {
		t.Fatalf("GetCustomersNeedingHealthUpdates() error = %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("Expected 2 due customers, got %d", len(due))
	}
	if due[0] != "cust-a" || due[1] != "cust-b" {
		t.Errorf("Expected sorted ids [cust-a cust-b], got %v", due)
	}
}

func TestNew_RequiredDependencies(t *testing.T) {
	cfg := DefaultConfig()
	registry := insight.NewRegistry()
	valid := Dependencies{
		Profiles: store.NewMemoryProfileStore(),
		Insights: store.NewMemoryInsightsEngine(),
		Cache:    cache.NewMemoryScoreCache(10),
		Insight:  insight.NewEngine(registry),
	}

	if _, err := New(cfg, valid); err != nil {
		t.Fatalf("Unexpected error with all required deps: %v", err)
	}

	missing := []func(Dependencies) Dependencies{
		func(d Dependencies) Dependencies { d.Profiles = nil; return d },
		func(d Dependencies) Dependencies { d.Insights = nil; return d },
		func(d Dependencies) Dependencies { d.Cache = nil; return d },
		func(d Dependencies) Dependencies { d.Insight = nil; return d },
	}
	for i, strip := range missing {
		if _, err := New(cfg, strip(valid)); err == nil {
			t.Errorf("Case %d: expected error for missing dependency", i)
		}
	}
}
