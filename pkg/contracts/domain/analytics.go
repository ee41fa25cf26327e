package domain

// RiskFactor is one scored contributor to overall progression risk.
// Score is 0, 0.5, 1 or 2 against fixed clinical thresholds; Impact is the
// matching Low/Medium/High label.
type RiskFactor struct {
	Factor      string  `json:"factor"`
	Score       float64 `json:"score"`
	Impact      string  `json:"impact"`
	Description string  `json:"description"`
}

// RiskFactorReport is the per-factor breakdown plus totals out of a fixed
// maximum of 10.
type RiskFactorReport struct {
	Factors          []RiskFactor `json:"factors"`
	TotalScore       float64      `json:"total_score"`
	MaxPossibleScore float64      `json:"max_possible_score"`
	RiskPercentage   float64      `json:"risk_percentage"`
}

// TimelinePoint projects severity at a future horizon, with and without
// treatment.
type TimelinePoint struct {
	Year                     int     `json:"year"`
	ProjectedAge             float64 `json:"projected_age"`
	SeverityWithTreatment    float64 `json:"severity_with_treatment"`
	SeverityWithoutTreatment float64 `json:"severity_without_treatment"`
	SavedDiopters            float64 `json:"saved_diopters"`
}

// ComparativeStats positions the patient against population norms for
// their age band.
type ComparativeStats struct {
	AgeGroup              string  `json:"age_group"`
	PopulationAvgSeverity float64 `json:"population_avg_severity"`
	PatientSeverity       float64 `json:"patient_severity"`
	SeverityDifference    float64 `json:"severity_difference"`
	SeverityPercentile    float64 `json:"severity_percentile"`
	NormalAxialLength     float64 `json:"normal_axial_length"`
	PatientAxialLength    float64 `json:"patient_axial_length"`
	AxialLengthDifference float64 `json:"axial_length_difference"`
	Comparison            string  `json:"comparison"`
}
