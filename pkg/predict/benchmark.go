package predict

import (
	"context"

	"github.com/glowdesk/health-engine/pkg/model"
)

// DefaultSegmentAverage is the static baseline used when no segment
// statistics source is wired in.
const DefaultSegmentAverage = 65.0

// BenchmarkProvider supplies the segment average a customer's score is
// compared against. The static implementation below is a placeholder;
// production deployments should back this with real segment statistics.
type BenchmarkProvider interface {
	// SegmentAverage returns the average health score for the
	// customer's segment.
	SegmentAverage(ctx context.Context, customerID string) (float64, error)
}

// StaticBenchmarkProvider returns a fixed segment average for every
// customer.
type StaticBenchmarkProvider struct {
	average float64
}

// NewStaticBenchmarkProvider creates a provider with a fixed baseline.
// A non-positive average falls back to DefaultSegmentAverage.
func NewStaticBenchmarkProvider(average float64) *StaticBenchmarkProvider {
	if average <= 0 {
		average = DefaultSegmentAverage
	}
	return &StaticBenchmarkProvider{average: average}
}

func (p *StaticBenchmarkProvider) SegmentAverage(ctx context.Context, customerID string) (float64, error) {
	return p.average, nil
}

// Compare positions an overall score against the segment average.
func Compare(overall int, segmentAverage float64) model.BenchmarkComparison {
	return model.BenchmarkComparison{
		SegmentAverage:     segmentAverage,
		IndustryPercentile: model.ClampScore(overall),
		Ranking:            rankingFor(overall),
	}
}

func rankingFor(overall int) model.BenchmarkRanking {
	switch {
	case overall >= 90:
		return model.RankTop10
	case overall >= 75:
		return model.RankTop25
	case overall >= 40:
		return model.RankAverage
	case overall >= 25:
		return model.RankBelowAverage
	default:
		return model.RankBottom10
	}
}
