package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/glowdesk/health-engine/pkg/model"
)

const (
	// trendDelta is the absolute score change needed before a trend is
	// reported as anything but STABLE.
	trendDelta = 5

	// directionPct is the percentage change needed before the history
	// direction leaves STABLE.
	directionPct = 2.0

	// significantDelta is the absolute change that produces a
	// significant-change record; above majorDelta it is tagged major.
	significantDelta = 10
	majorDelta       = 20
)

// PriorSnapshot is the previously cached score for a customer, if any.
type PriorSnapshot struct {
	Score     int
	Timestamp time.Time
	History   []model.SignificantChange
}

// TrackTrend compares the freshly computed score against the prior
// cached snapshot. A missing prior snapshot yields STABLE with an empty
// history delta.
func TrackTrend(current int, prior *PriorSnapshot, now time.Time) (model.HealthTrend, model.HealthHistory) {
	history := model.HealthHistory{
		CurrentScore:       current,
		TrendDirection:     model.DirectionStable,
		SignificantChanges: []model.SignificantChange{},
	}

	if prior == nil {
		return model.TrendStable, history
	}

	history.PreviousScore = prior.Score
	history.SignificantChanges = append(history.SignificantChanges, prior.History...)

	delta := current - prior.Score

	trend := model.TrendStable
	switch {
	case delta > trendDelta:
		trend = model.TrendImproving
	case delta < -trendDelta:
		trend = model.TrendDeclining
	}

	if prior.Score != 0 {
		history.ChangePercentage = float64(delta) / float64(prior.Score) * 100
	}
	switch {
	case history.ChangePercentage > directionPct:
		history.TrendDirection = model.DirectionUp
	case history.ChangePercentage < -directionPct:
		history.TrendDirection = model.DirectionDown
	}

	if absInt(delta) > significantDelta {
		history.SignificantChanges = append(history.SignificantChanges, model.SignificantChange{
			Date:     now,
			OldScore: prior.Score,
			NewScore: current,
			Reason:   changeReason(delta),
		})
	}

	return trend, history
}

// changeReason renders a human-readable tag for a significant change:
// "major" above the major threshold, "moderate" otherwise.
func changeReason(delta int) string {
	magnitude := "moderate"
	if absInt(delta) > majorDelta {
		magnitude = "major"
	}
	direction := "improvement"
	if delta < 0 {
		direction = "decline"
	}
	return fmt.Sprintf("%s %s in customer health", magnitude, direction)
}

func absInt(v int) int {
	return int(math.Abs(float64(v)))
}
