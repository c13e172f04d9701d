package insight

import (
	"context"
	"errors"
	"testing"
)

// testRule is a configurable rule for engine tests.
type testRule struct {
	id          string
	category    Category
	config      RuleConfig
	messages    []string
	shouldError bool
	shouldPanic bool
}

func (r *testRule) ID() string         { return r.id }
func (r *testRule) Name() string       { return "Test Rule" }
func (r *testRule) Category() Category { return r.category }
func (r *testRule) Config() RuleConfig { return r.config }

func (r *testRule) Evaluate(ctx context.Context, sc ScoreContext) ([]string, error) {
	if r.shouldPanic {
		panic("boom")
	}
	if r.shouldError {
		return nil, errors.New("test error")
	}
	return r.messages, nil
}

func enabledConfig(id string) RuleConfig {
	return RuleConfig{ID: id, Type: "test", Enabled: true}
}

func TestEngine_Generate_NoRules(t *testing.T) {
	engine := NewEngine(NewRegistry())

	insights, warnings := engine.Generate(context.Background(), ScoreContext{CustomerID: "cust-1"})

	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %d", len(warnings))
	}
	if insights.CriticalAlerts == nil || insights.Opportunities == nil ||
		insights.Recommendations == nil || insights.NextBestActions == nil {
		t.Error("Expected all insight lists non-nil")
	}
	if len(insights.CriticalAlerts) != 0 {
		t.Errorf("Expected empty critical alerts, got %v", insights.CriticalAlerts)
	}
}

func TestEngine_Generate_RoutesByCategory(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&testRule{
		id:       "alert",
		category: CategoryCriticalAlert,
		config:   enabledConfig("alert"),
		messages: []string{"alert message"},
	})
	registry.Register(&testRule{
		id:       "action",
		category: CategoryNextBestAction,
		config:   enabledConfig("action"),
		messages: []string{"action message"},
	})

	engine := NewEngine(registry)
	insights, warnings := engine.Generate(context.Background(), ScoreContext{CustomerID: "cust-1"})

	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}
	if len(insights.CriticalAlerts) != 1 || insights.CriticalAlerts[0] != "alert message" {
		t.Errorf("Expected alert message, got %v", insights.CriticalAlerts)
	}
	if len(insights.NextBestActions) != 1 || insights.NextBestActions[0] != "action message" {
		t.Errorf("Expected action message, got %v", insights.NextBestActions)
	}
	if len(insights.Opportunities) != 0 || len(insights.Recommendations) != 0 {
		t.Error("Expected other lists empty")
	}
}

func TestEngine_Generate_RuleErrorBecomesWarning(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&testRule{
		id:          "broken",
		category:    CategoryOpportunity,
		config:      enabledConfig("broken"),
		shouldError: true,
	})
	registry.Register(&testRule{
		id:       "ok",
		category: CategoryOpportunity,
		config:   enabledConfig("ok"),
		messages: []string{"still works"},
	})

	engine := NewEngine(registry)
	insights, warnings := engine.Generate(context.Background(), ScoreContext{CustomerID: "cust-1"})

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].RuleID != "broken" {
		t.Errorf("Expected warning from rule 'broken', got %s", warnings[0].RuleID)
	}
	if len(insights.Opportunities) != 1 {
		t.Errorf("Expected healthy rule to still contribute, got %v", insights.Opportunities)
	}
}

func TestEngine_Generate_RulePanicBecomesWarning(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&testRule{
		id:          "panicky",
		category:    CategoryRecommendation,
		config:      enabledConfig("panicky"),
		shouldPanic: true,
	})

	engine := NewEngine(registry)
	insights, warnings := engine.Generate(context.Background(), ScoreContext{CustomerID: "cust-1"})

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning from panicking rule, got %d", len(warnings))
	}
	if warnings[0].Err == nil {
		t.Error("Expected non-nil warning error")
	}
	if len(insights.Recommendations) != 0 {
		t.Errorf("Expected no recommendations, got %v", insights.Recommendations)
	}
}

func TestEngine_Generate_SkipsDisabledRules(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&testRule{
		id:       "disabled",
		category: CategoryOpportunity,
		config:   RuleConfig{ID: "disabled", Type: "test", Enabled: false},
		messages: []string{"should not appear"},
	})

	engine := NewEngine(registry)
	insights, _ := engine.Generate(context.Background(), ScoreContext{CustomerID: "cust-1"})

	if len(insights.Opportunities) != 0 {
		t.Errorf("Expected disabled rule skipped, got %v", insights.Opportunities)
	}
}
