package domain

// NumFeatures is the width of the model feature vector.
const NumFeatures = 15

// Feature indices. The order is contract-frozen: training and inference
// must build vectors in exactly this order or predictions are silently
// wrong.
const (
	FeatAge = iota
	FeatAgeAtDiagnosis
	FeatYearsSinceDiagnosis
	FeatGender
	FeatMyopicParents
	FeatOutdoorHours
	FeatScreenHours
	FeatScreenOutdoorRatio
	FeatHadMyopiaControl
	FeatMyopiaSeverity
	FeatHasAstigmatism
	FeatAvgAxialLength
	FeatAxialLengthAbnormal
	FeatWearingHours
	FeatComplianceScore
)

// FeatureNames lists the canonical feature names in vector order.
var FeatureNames = [NumFeatures]string{
	"age",
	"age_at_diagnosis",
	"years_since_diagnosis",
	"gender",
	"myopic_parents",
	"outdoor_hours",
	"screen_hours",
	"screen_outdoor_ratio",
	"had_myopia_control",
	"myopia_severity",
	"has_astigmatism",
	"avg_axial_length",
	"axial_length_abnormal",
	"wearing_hours",
	"compliance_score",
}

// FeatureVector is an ordered numeric feature row in the frozen order above.
type FeatureVector [NumFeatures]float64

// DerivedMetrics carries the intermediate quantities computed alongside the
// feature vector. The reporting layer consumes these verbatim.
type DerivedMetrics struct {
	AvgSpherical        float64 `json:"avg_spherical"`
	MyopiaSeverity      float64 `json:"myopia_severity"`
	AvgAxialLength      float64 `json:"avg_axial_length"`
	YearsSinceDiagnosis float64 `json:"years_since_diagnosis"`
	ScreenOutdoorRatio  float64 `json:"screen_outdoor_ratio"`
	ComplianceScore     float64 `json:"compliance_score"`
	HasAstigmatism      int     `json:"has_astigmatism"`
	AxialLengthAbnormal int     `json:"axial_length_abnormal"`
	MyopicParents       int     `json:"myopic_parents"`
}
