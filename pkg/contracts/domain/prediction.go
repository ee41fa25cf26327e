package domain

// Risk categories produced by the progression classifier.
const (
	RiskLow = iota
	RiskMedium
	RiskHigh
)

// RiskLabels maps category index to the label used in API responses.
var RiskLabels = [3]string{"Low Risk", "Medium Risk", "High Risk"}

// RiskProbabilities holds the per-category classifier probabilities.
// The three values sum to 1.
type RiskProbabilities struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// TreatmentBenefit estimates progression with and without Stellest wear.
type TreatmentBenefit struct {
	WithoutStellest     float64 `json:"without_stellest"`
	WithStellest        float64 `json:"with_stellest"`
	ReductionPercentage float64 `json:"reduction_percentage"`
}

// PredictionResult is the two-headed model output for one patient.
// EstimatedProgression is in diopters/year, rounded to 2 decimal places
// and clamped to [0, 2].
type PredictionResult struct {
	RiskCategory         string            `json:"risk_category"`
	RiskScore            int               `json:"risk_score"`
	RiskProbabilities    RiskProbabilities `json:"risk_probabilities"`
	EstimatedProgression float64           `json:"estimated_progression"`
	StellestBenefit      TreatmentBenefit  `json:"stellest_effectiveness"`
}
