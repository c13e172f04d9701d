package assess

import (
	"math"

	"github.com/glowdesk/health-engine/pkg/model"
)

const (
	// lowHealthProbabilityFloor is the minimum churn probability once
	// the overall score drops below the poor band.
	lowHealthProbabilityFloor = 70

	// Factor thresholds.
	absenceDays          = 60
	lowSatisfactionScore = 50
)

// RiskInputs are the signals the risk assessor reads. The churn
// probability comes from the upstream insights engine and is only ever
// raised here, never lowered. DaysSinceLastVisit is -1 when the
// customer has never visited.
type RiskInputs struct {
	OverallScore       int
	ChurnProbability   float64
	DaysSinceLastVisit int
	SpendingTrend      model.SpendingTrend
	SatisfactionScore  float64
}

// AssessRisk derives the churn risk tier, adjusted probability, risk
// factors and matching mitigation strategies. Factor and mitigation
// lists are index-aligned and never nil.
func AssessRisk(in RiskInputs) model.RiskAssessment {
	probability := model.ClampRate(in.ChurnProbability)
	factors := []string{}
	mitigations := []string{}

	if in.OverallScore < 40 {
		if probability < lowHealthProbabilityFloor {
			probability = lowHealthProbabilityFloor
		}
		factors = append(factors, "Low overall health score")
		mitigations = append(mitigations, "Schedule an immediate account review")
	}

	if in.DaysSinceLastVisit > absenceDays {
		factors = append(factors, "Prolonged absence since last visit")
		mitigations = append(mitigations, "Send a re-engagement contact")
	}

	if in.SpendingTrend == model.SpendingDecreasing {
		factors = append(factors, "Declining spending trend")
		mitigations = append(mitigations, "Offer a targeted discount")
	}

	if in.SatisfactionScore < lowSatisfactionScore {
		factors = append(factors, "Low satisfaction score")
		mitigations = append(mitigations, "Run a service quality review")
	}

	return model.RiskAssessment{
		ChurnRisk:            RiskTierFor(probability),
		ChurnProbability:     int(math.Round(probability)),
		RiskFactors:          factors,
		MitigationStrategies: mitigations,
	}
}

// RiskTierFor maps a churn probability onto its tier. Tiers are
// monotonic in probability: a higher probability never maps to a lower
// tier.
func RiskTierFor(probability float64) model.ChurnRisk {
	switch {
	case probability > 80:
		return model.ChurnRiskCritical
	case probability > 60:
		return model.ChurnRiskHigh
	case probability > 30:
		return model.ChurnRiskMedium
	default:
		return model.ChurnRiskLow
	}
}
