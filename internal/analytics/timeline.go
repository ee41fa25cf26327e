package analytics

import (
	"math"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/features"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// timelineYears are the projection horizons reported to clinicians.
var timelineYears = [...]int{1, 2, 3, 5}

// ProgressionTimeline projects severity forward at the predicted annual
// rate. The untreated trajectory reverses the lens treatment factor, so
// saved diopters grow linearly with the horizon.
func ProgressionTimeline(annualProgression, currentAge, currentSeverity float64) []domain.TimelinePoint {
	withoutRate := annualProgression / features.StellestFactor

	timeline := make([]domain.TimelinePoint, 0, len(timelineYears))
	for _, year := range timelineYears {
		withTreatment := currentSeverity + annualProgression*float64(year)
		withoutTreatment := currentSeverity + withoutRate*float64(year)

		timeline = append(timeline, domain.TimelinePoint{
			Year:                     year,
			ProjectedAge:             round1(currentAge + float64(year)),
			SeverityWithTreatment:    round2(withTreatment),
			SeverityWithoutTreatment: round2(withoutTreatment),
			SavedDiopters:            round2(withoutTreatment - withTreatment),
		})
	}
	return timeline
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
