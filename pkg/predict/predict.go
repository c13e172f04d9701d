package predict

import (
	"math"

	"github.com/glowdesk/health-engine/pkg/model"
)

const (
	// DefaultConfidence is used whenever the upstream insights engine
	// supplies no confidence value of its own.
	DefaultConfidence = 70

	// ltvHorizonMonths is the fixed projection horizon for the
	// lifetime-value growth estimate.
	ltvHorizonMonths = 24

	increasingMultiplier = 1.1
	decreasingMultiplier = 0.9
)

// Inputs are the upstream signals the prediction model projects from.
// CurrentMonthSpend is in VND minor units. UpstreamConfidence of 0
// means the insights engine supplied none.
type Inputs struct {
	ChurnProbability    float64
	SpendingTrend       model.SpendingTrend
	CurrentMonthSpend   int64
	LifetimeValueGrowth float64
	UpstreamConfidence  float64
}

// Predict projects next-visit likelihood, near-term spending and
// lifetime-value growth. All outputs are deterministic functions of the
// inputs; nothing here is trained.
func Predict(in Inputs) model.PredictionModels {
	confidence := in.UpstreamConfidence
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	visitProbability := 100 - model.ClampRate(in.ChurnProbability)
	if visitProbability < 0 {
		visitProbability = 0
	}

	multiplier := 1.0
	switch in.SpendingTrend {
	case model.SpendingIncreasing:
		multiplier = increasingMultiplier
	case model.SpendingDecreasing:
		multiplier = decreasingMultiplier
	}

	return model.PredictionModels{
		NextVisit: model.NextVisitPrediction{
			Probability: visitProbability,
			Confidence:  confidence,
		},
		Spending: model.SpendingPrediction{
			NextMonthSpending: int64(math.Round(float64(in.CurrentMonthSpend) * multiplier)),
			Confidence:        confidence,
		},
		LifetimeValue: model.LifetimeValuePrediction{
			ProjectedGrowth: in.LifetimeValueGrowth,
			HorizonMonths:   ltvHorizonMonths,
			Confidence:      confidence,
		},
	}
}
