package predict

import (
	"context"
	"testing"

	"github.com/glowdesk/health-engine/pkg/model"
)

func TestStaticBenchmarkProvider(t *testing.T) {
	provider := NewStaticBenchmarkProvider(72)

	avg, err := provider.SegmentAverage(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if avg != 72 {
		t.Errorf("Expected segment average 72, got %f", avg)
	}
}

func TestStaticBenchmarkProvider_DefaultFallback(t *testing.T) {
	provider := NewStaticBenchmarkProvider(0)

	avg, _ := provider.SegmentAverage(context.Background(), "cust-1")
	if avg != DefaultSegmentAverage {
		t.Errorf("Expected default average %f, got %f", DefaultSegmentAverage, avg)
	}
}

func TestCompare_PercentileMirrorsScore(t *testing.T) {
	comparison := Compare(68, 65)

	if comparison.IndustryPercentile != 68 {
		t.Errorf("Expected percentile 68, got %d", comparison.IndustryPercentile)
	}
	if comparison.SegmentAverage != 65 {
		t.Errorf("Expected segment average 65, got %f", comparison.SegmentAverage)
	}
}

func TestCompare_RankingBands(t *testing.T) {
	cases := []struct {
		score   int
		ranking model.BenchmarkRanking
	}{
		{100, model.RankTop10},
		{90, model.RankTop10},
		{89, model.RankTop25},
		{75, model.RankTop25},
		{74, model.RankAverage},
		{40, model.RankAverage},
		{39, model.RankBelowAverage},
		{25, model.RankBelowAverage},
		{24, model.RankBottom10},
		{0, model.RankBottom10},
	}

	for _, tc := range cases {
		comparison := Compare(tc.score, 65)
		if comparison.Ranking != tc.ranking {
			t.Errorf("Score %d: expected %s, got %s", tc.score, tc.ranking, comparison.Ranking)
		}
	}
}
