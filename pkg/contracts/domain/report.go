package domain

// PatientInfo echoes the request back with every derived clinical
// metric filled in, so report consumers never recompute them.
type PatientInfo struct {
	Name                string  `json:"name"`
	Age                 float64 `json:"age"`
	Gender              string  `json:"gender"`
	AgeDiagnosis        float64 `json:"age_diagnosis"`
	MyopicParents       int     `json:"myopic_parents"`
	OutdoorHours        float64 `json:"outdoor_hours"`
	ScreenHours         float64 `json:"screen_hours"`
	RESpherical         float64 `json:"re_spherical"`
	RECylinder          float64 `json:"re_cylinder"`
	LESpherical         float64 `json:"le_spherical"`
	LECylinder          float64 `json:"le_cylinder"`
	REAxialLength       float64 `json:"re_axial_length"`
	LEAxialLength       float64 `json:"le_axial_length"`
	AvgAxialLength      float64 `json:"avg_axial_length"`
	MyopiaSeverity      float64 `json:"myopia_severity"`
	WearingHours        float64 `json:"wearing_hours"`
	ComplianceScore     float64 `json:"compliance_score"`
	QoLScore            float64 `json:"qol_score"`
	YearsSinceDiagnosis float64 `json:"years_since_diagnosis"`
	ScreenOutdoorRatio  float64 `json:"screen_outdoor_ratio"`
	HasAstigmatism      int     `json:"has_astigmatism"`
}

// PredictionReport is the full response for a prediction request:
// the model output plus the explanatory analytics.
type PredictionReport struct {
	Prediction          *PredictionResult `json:"prediction"`
	PatientInfo         PatientInfo       `json:"patient_info"`
	RiskFactors         RiskFactorReport  `json:"risk_factors"`
	ProgressionTimeline []TimelinePoint   `json:"progression_timeline"`
	ComparativeStats    ComparativeStats  `json:"comparative_stats"`
}
