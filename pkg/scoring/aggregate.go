package scoring

import (
	"fmt"
	"math"

	"github.com/glowdesk/health-engine/pkg/model"
)

// weightSumTolerance absorbs float representation noise when validating
// that configured weights sum to exactly 1.0.
const weightSumTolerance = 1e-9

// Weights are the six component weights. They must sum to exactly 1.0.
type Weights struct {
	Engagement    float64 `yaml:"engagement"`
	Loyalty       float64 `yaml:"loyalty"`
	Behavioral    float64 `yaml:"behavioral"`
	Communication float64 `yaml:"communication"`
	Satisfaction  float64 `yaml:"satisfaction"`
	Profitability float64 `yaml:"profitability"`
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Engagement:    0.25,
		Loyalty:       0.20,
		Behavioral:    0.15,
		Communication: 0.15,
		Satisfaction:  0.15,
		Profitability: 0.10,
	}
}

// Sum returns the total of all six weights.
func (w Weights) Sum() float64 {
	return w.Engagement + w.Loyalty + w.Behavioral + w.Communication + w.Satisfaction + w.Profitability
}

// Validate rejects weight sets that do not sum to 1.0 or contain
// negative entries.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"engagement":    w.Engagement,
		"loyalty":       w.Loyalty,
		"behavioral":    w.Behavioral,
		"communication": w.Communication,
		"satisfaction":  w.Satisfaction,
		"profitability": w.Profitability,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %f", name, v)
		}
	}

	if diff := math.Abs(w.Sum() - 1.0); diff > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %f", w.Sum())
	}
	return nil
}

// Aggregate combines the six component scores into the overall health
// score. For any component tuple in [0,100]^6 and valid weights the
// result is an integer in [0,100].
func Aggregate(c model.ScoringComponents, w Weights) int {
	overall := w.Engagement*float64(c.Engagement) +
		w.Loyalty*float64(c.Loyalty) +
		w.Behavioral*float64(c.Behavioral) +
		w.Communication*float64(c.Communication) +
		w.Satisfaction*float64(c.Satisfaction) +
		w.Profitability*float64(c.Profitability)

	return model.ClampScore(int(math.Round(overall)))
}

// HealthLevelFor maps an overall score onto the five contiguous,
// non-overlapping health bands.
func HealthLevelFor(overall int) model.HealthLevel {
	switch {
	case overall >= 90:
		return model.HealthExcellent
	case overall >= 75:
		return model.HealthGood
	case overall >= 60:
		return model.HealthFair
	case overall >= 40:
		return model.HealthPoor
	default:
		return model.HealthCritical
	}
}

// UpdateFrequencyFor derives how often a score should be refreshed from
// its severity: critical customers daily, poor weekly, the rest monthly.
func UpdateFrequencyFor(level model.HealthLevel, overall int) model.UpdateFrequency {
	switch {
	case level == model.HealthCritical || overall < 40:
		return model.UpdateDaily
	case level == model.HealthPoor || overall < 60:
		return model.UpdateWeekly
	default:
		return model.UpdateMonthly
	}
}
