// Package features builds the canonical model feature vector from parsed
// clinical fields. The derivation formulas here are the single source of
// truth for both training and inference; the two paths share deriveVector
// so the contract-frozen ordering cannot drift.
package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/clinical"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// AxialLengthThreshold is the avg axial length (mm) above which elongation
// is flagged abnormal.
const AxialLengthThreshold = 24.5

// IdealWearingHours is the daily Stellest wearing target; compliance is the
// achieved fraction of it, clamped to [0, 1].
const IdealWearingHours = 12.0

// rawInputs carries the parsed base fields for one subject. NaN marks a
// missing value awaiting imputation; inference inputs never contain NaN.
type rawInputs struct {
	age, ageDiagnosis, gender, myopicParents float64
	outdoorHours, screenHours, hadControl    float64
	reSpherical, leSpherical                 float64
	reCylinder, leCylinder                   float64
	reAxialLength, leAxialLength             float64
	wearingHours                             float64
}

// deriveVector computes the 15-feature vector and the reporting
// intermediates from base fields. NaN inputs propagate into the vector so
// the training pipeline can impute them column-wise.
func deriveVector(in rawInputs) (domain.FeatureVector, domain.DerivedMetrics) {
	avgSpherical := (in.reSpherical + in.leSpherical) / 2
	severity := math.Abs(avgSpherical)
	avgAxial := (in.reAxialLength + in.leAxialLength) / 2

	hasAstigmatism := 0.0
	if in.reCylinder != 0 || in.leCylinder != 0 {
		hasAstigmatism = 1.0
	}
	axialAbnormal := 0.0
	if avgAxial > AxialLengthThreshold {
		axialAbnormal = 1.0
	}

	// The +0.1 offset is part of the feature definition, not just a
	// division-by-zero guard; it shifts every ratio value.
	ratio := in.screenHours / (in.outdoorHours + 0.1)
	compliance := clamp(in.wearingHours/IdealWearingHours, 0, 1)
	yearsSince := in.age - in.ageDiagnosis

	var v domain.FeatureVector
	v[domain.FeatAge] = in.age
	v[domain.FeatAgeAtDiagnosis] = in.ageDiagnosis
	v[domain.FeatYearsSinceDiagnosis] = yearsSince
	v[domain.FeatGender] = in.gender
	v[domain.FeatMyopicParents] = in.myopicParents
	v[domain.FeatOutdoorHours] = in.outdoorHours
	v[domain.FeatScreenHours] = in.screenHours
	v[domain.FeatScreenOutdoorRatio] = ratio
	v[domain.FeatHadMyopiaControl] = in.hadControl
	v[domain.FeatMyopiaSeverity] = severity
	v[domain.FeatHasAstigmatism] = hasAstigmatism
	v[domain.FeatAvgAxialLength] = avgAxial
	v[domain.FeatAxialLengthAbnormal] = axialAbnormal
	v[domain.FeatWearingHours] = in.wearingHours
	v[domain.FeatComplianceScore] = compliance

	d := domain.DerivedMetrics{
		AvgSpherical:        avgSpherical,
		MyopiaSeverity:      severity,
		AvgAxialLength:      avgAxial,
		YearsSinceDiagnosis: yearsSince,
		ScreenOutdoorRatio:  ratio,
		ComplianceScore:     compliance,
		HasAstigmatism:      int(hasAstigmatism),
		AxialLengthAbnormal: int(axialAbnormal),
		MyopicParents:       int(in.myopicParents),
	}
	return v, d
}

// BuildFromPatient produces the inference-time feature vector and the
// derived intermediates for a validated patient input.
func BuildFromPatient(p *domain.PatientInput) (domain.FeatureVector, domain.DerivedMetrics) {
	gender, _ := clinical.EncodeGender(p.Gender)
	hadControl := 0.0
	if p.HadControl {
		hadControl = 1.0
	}
	return deriveVector(rawInputs{
		age:           p.Age,
		ageDiagnosis:  p.AgeDiagnosis,
		gender:        gender,
		myopicParents: float64(clinical.EncodeParentalHistory(p.MyopicParents)),
		outdoorHours:  p.OutdoorHours,
		screenHours:   p.ScreenHours,
		hadControl:    hadControl,
		reSpherical:   p.RESpherical,
		leSpherical:   p.LESpherical,
		reCylinder:    p.RECylinder,
		leCylinder:    p.LECylinder,
		reAxialLength: p.REAxialLength,
		leAxialLength: p.LEAxialLength,
		wearingHours:  p.WearingHours,
	})
}

// TrainingSet is the fully imputed, labeled feature matrix for one
// training run.
type TrainingSet struct {
	Features        []domain.FeatureVector
	RiskCategory    []int
	ProgressionRate []float64
}

// BuildTrainingSet parses every raw record, imputes remaining missing
// values with per-column medians over the whole set, then derives the two
// training targets. Imputation is a batch operation: medians depend on the
// dataset currently loaded, and the same workbook always reproduces the
// same matrix.
func BuildTrainingSet(records []domain.RawClinicalRecord) (*TrainingSet, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no clinical records to build features from")
	}

	vectors := make([]domain.FeatureVector, 0, len(records))
	for _, rec := range records {
		vectors = append(vectors, buildRawVector(rec))
	}

	imputeMedians(vectors)

	set := &TrainingSet{
		Features:        vectors,
		RiskCategory:    make([]int, len(vectors)),
		ProgressionRate: make([]float64, len(vectors)),
	}
	for i, v := range vectors {
		set.RiskCategory[i] = RiskCategory(RiskScore(v))
		set.ProgressionRate[i] = ProgressionRate(v)
	}
	return set, nil
}

// buildRawVector converts a raw record into a feature vector, with NaN
// standing in for every missing base field.
func buildRawVector(rec domain.RawClinicalRecord) domain.FeatureVector {
	in := rawInputs{
		age:           missingOr(clinical.ParseAge(rec.Age)),
		ageDiagnosis:  missingOr(clinical.ParseAge(rec.AgeDiagnosis)),
		gender:        missingOr(clinical.EncodeGender(rec.Gender)),
		myopicParents: float64(clinical.EncodeMyopicParents(rec.MyopicParents)),
		outdoorHours:  missingOr(clinical.ParseHours(rec.OutdoorTime)),
		screenHours:   missingOr(clinical.ParseHours(rec.ScreenTime)),
		hadControl:    clinical.HadMyopiaControl(rec.MyopiaControl),
		reSpherical:   clinical.ParseDiopters(rec.RESpherical),
		leSpherical:   clinical.ParseDiopters(rec.LESpherical),
		reCylinder:    clinical.ParseDiopters(rec.RECylinder),
		leCylinder:    clinical.ParseDiopters(rec.LECylinder),
		reAxialLength: missingOr(clinical.ParseAxialLength(rec.REAxialLength)),
		leAxialLength: missingOr(clinical.ParseAxialLength(rec.LEAxialLength)),
		wearingHours:  missingOr(clinical.ParseHours(rec.WearingTime)),
	}
	v, _ := deriveVector(in)
	return v
}

// imputeMedians replaces NaN cells with the per-column median computed over
// the non-missing values of that column.
func imputeMedians(vectors []domain.FeatureVector) {
	for col := 0; col < domain.NumFeatures; col++ {
		present := make([]float64, 0, len(vectors))
		for _, v := range vectors {
			if !math.IsNaN(v[col]) {
				present = append(present, v[col])
			}
		}
		med := median(present)
		for i := range vectors {
			if math.IsNaN(vectors[i][col]) {
				vectors[i][col] = med
			}
		}
	}
}

// median returns the pandas-style median (mean of the two middle values for
// even lengths), or 0 for an empty column.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func missingOr(v float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
