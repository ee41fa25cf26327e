package domain

// PatientInput is the validated per-request clinical record used for
// inference. Required numeric fields carry validate tags; optional fields
// have declared defaults applied by the serving layer.
type PatientInput struct {
	Name          string  `json:"name,omitempty"`
	Age           float64 `json:"age" validate:"required,gt=0,lte=25"`
	Gender        string  `json:"gender" validate:"required"`
	AgeDiagnosis  float64 `json:"age_diagnosis" validate:"gte=0"`
	MyopicParents string  `json:"myopic_parents"`
	OutdoorHours  float64 `json:"outdoor_hours" validate:"gte=0,lte=24"`
	ScreenHours   float64 `json:"screen_hours" validate:"gte=0,lte=24"`
	HadControl    bool    `json:"had_myopia_control"`

	RESpherical   float64 `json:"re_spherical"`
	RECylinder    float64 `json:"re_cylinder"`
	LESpherical   float64 `json:"le_spherical"`
	LECylinder    float64 `json:"le_cylinder"`
	REAxialLength float64 `json:"re_axial_length" validate:"required,gt=0"`
	LEAxialLength float64 `json:"le_axial_length" validate:"required,gt=0"`

	WearingHours float64  `json:"wearing_hours" validate:"gte=0,lte=24"`
	QoLScore     *float64 `json:"qol_score,omitempty"`
}

// DisplayName returns the patient name or a generic fallback.
func (p *PatientInput) DisplayName() string {
	if p.Name == "" {
		return "Patient"
	}
	return p.Name
}

// RawClinicalRecord is one row of the retrospective training workbook.
// Fields are kept as raw strings because the source spreadsheet mixes
// free text, unit suffixes and plain numbers; the clinical parsers own
// the conversion.
type RawClinicalRecord struct {
	Age           string
	Gender        string
	AgeDiagnosis  string
	MyopicParents string
	OutdoorTime   string
	ScreenTime    string
	MyopiaControl string
	RESpherical   string
	RECylinder    string
	LESpherical   string
	LECylinder    string
	REAxialLength string
	LEAxialLength string
	WearingTime   string
	QoLScore      string
}
