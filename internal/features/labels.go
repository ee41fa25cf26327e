package features

import (
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// BaseProgression is the baseline annual progression (diopters/year) before
// the multiplicative factors are applied.
const BaseProgression = 0.5

// StellestFactor models the fixed treatment effect: full-compliance Stellest
// wear reduces annual progression to 40% of the untreated rate.
const StellestFactor = 0.4

// MaxProgressionRate caps the derived annual progression (diopters/year).
const MaxProgressionRate = 2.0

// RiskScore computes the weighted clinical rule score that defines the
// training ground truth for the risk classifier.
func RiskScore(v domain.FeatureVector) float64 {
	score := 0.0

	// Younger children progress faster.
	switch {
	case v[domain.FeatAge] < 10:
		score += 2
	case v[domain.FeatAge] < 12:
		score += 1
	}

	score += v[domain.FeatMyopicParents]

	if v[domain.FeatScreenHours] > 3 {
		score += 1
	}
	// Outdoor time is protective.
	if v[domain.FeatOutdoorHours] > 2 {
		score -= 1
	}

	switch severity := v[domain.FeatMyopiaSeverity]; {
	case severity > 3:
		score += 2
	case severity > 1.5:
		score += 1
	}

	if v[domain.FeatAvgAxialLength] > AxialLengthThreshold {
		score += 2
	}

	return score
}

// RiskCategory buckets a rule score into the three classifier target
// categories: score<=2 Low, <=4 Medium, else High.
func RiskCategory(score float64) int {
	switch {
	case score <= 2:
		return domain.RiskLow
	case score <= 4:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

// ProgressionRate derives the continuous regression target: baseline
// progression scaled by age, genetic, environmental and treatment factors,
// clamped to [0, MaxProgressionRate] diopters/year.
func ProgressionRate(v domain.FeatureVector) float64 {
	ageFactor := 0.8
	switch {
	case v[domain.FeatAge] < 10:
		ageFactor = 1.5
	case v[domain.FeatAge] < 12:
		ageFactor = 1.2
	}

	geneticFactor := 1 + 0.2*v[domain.FeatMyopicParents]
	envFactor := 1 + v[domain.FeatScreenHours]/10 - v[domain.FeatOutdoorHours]/10
	treatmentFactor := StellestFactor * v[domain.FeatComplianceScore]

	rate := BaseProgression * ageFactor * geneticFactor * envFactor * treatmentFactor
	return clamp(rate, 0, MaxProgressionRate)
}
