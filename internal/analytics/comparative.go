package analytics

import "github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"

// Population severity averages per age band, from clinical literature.
var populationSeverity = map[string]float64{
	"8-10":  1.5,
	"10-12": 2.5,
	"12-14": 3.2,
	"14+":   3.8,
}

// ageGroup buckets a patient age into the reporting bands.
func ageGroup(age float64) string {
	switch {
	case age < 10:
		return "8-10"
	case age < 12:
		return "10-12"
	case age < 14:
		return "12-14"
	default:
		return "14+"
	}
}

// CompareToPopulation positions the patient against age-band norms. The
// percentile treats twice the population average as the top of the
// scale, which is coarse but stable for a screening report.
func CompareToPopulation(age, myopiaSeverity, avgAxialLength float64) domain.ComparativeStats {
	group := ageGroup(age)
	popSeverity := populationSeverity[group]

	percentile := 50.0
	if popSeverity > 0 {
		percentile = round1(myopiaSeverity / (popSeverity * 2) * 100)
	}

	comparison := "Below Average"
	if myopiaSeverity > popSeverity {
		comparison = "Above Average"
	}

	// Normal axial length grows roughly 0.15 mm per year from a 22 mm base.
	normalAxial := 22.0 + age*0.15

	return domain.ComparativeStats{
		AgeGroup:              group,
		PopulationAvgSeverity: popSeverity,
		PatientSeverity:       myopiaSeverity,
		SeverityDifference:    round2(myopiaSeverity - popSeverity),
		SeverityPercentile:    percentile,
		NormalAxialLength:     round2(normalAxial),
		PatientAxialLength:    round2(avgAxialLength),
		AxialLengthDifference: round2(avgAxialLength - normalAxial),
		Comparison:            comparison,
	}
}
