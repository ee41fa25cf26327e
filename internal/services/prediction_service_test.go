package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/features"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/model"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func validPatient() *domain.PatientInput {
	return &domain.PatientInput{
		Name:          "Test Patient",
		Age:           9,
		Gender:        "M",
		AgeDiagnosis:  7,
		MyopicParents: "Both",
		OutdoorHours:  1,
		ScreenHours:   5,
		RESpherical:   -4.0,
		LESpherical:   -4.0,
		REAxialLength: 25.0,
		LEAxialLength: 25.0,
		WearingHours:  6,
	}
}

// fitTestModel trains a small model across the labeled parameter space.
func fitTestModel(t *testing.T) *model.Model {
	t.Helper()

	var x []domain.FeatureVector
	var categories []int
	var rates []float64

	for _, age := range []float64{8, 10, 12, 15} {
		for _, par := range []string{"No", "One", "Both"} {
			for _, sph := range []float64{-1.0, -4.0} {
				for _, screen := range []float64{1, 5} {
					p := &domain.PatientInput{
						Age:           age,
						Gender:        "F",
						AgeDiagnosis:  age - 2,
						MyopicParents: par,
						OutdoorHours:  1,
						ScreenHours:   screen,
						RESpherical:   sph,
						LESpherical:   sph,
						REAxialLength: 24.0,
						LEAxialLength: 24.0,
						WearingHours:  8,
					}
					v, _ := features.BuildFromPatient(p)
					x = append(x, v)
					categories = append(categories, features.RiskCategory(features.RiskScore(v)))
					rates = append(rates, features.ProgressionRate(v))
				}
			}
		}
	}

	m := model.New()
	require.NoError(t, m.Fit(x, categories, rates))
	return m
}

func TestPredictWithoutModel(t *testing.T) {
	svc := NewPredictionService(testLogger(), nil)

	_, err := svc.Predict(context.Background(), validPatient())
	assert.ErrorIs(t, err, ErrModelNotLoaded)
	assert.False(t, svc.ModelReady())
}

func TestPredictValidation(t *testing.T) {
	svc := NewPredictionService(testLogger(), nil)
	svc.SetModel(fitTestModel(t))

	p := validPatient()
	p.Age = 0

	_, err := svc.Predict(context.Background(), p)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Age", verrs[0].Field())
}

func TestPredictFullReport(t *testing.T) {
	svc := NewPredictionService(testLogger(), nil)
	svc.SetModel(fitTestModel(t))
	require.True(t, svc.ModelReady())

	report, err := svc.Predict(context.Background(), validPatient())
	require.NoError(t, err)
	require.NotNil(t, report.Prediction)

	assert.Contains(t, domain.RiskLabels[:], report.Prediction.RiskCategory)
	assert.GreaterOrEqual(t, report.Prediction.EstimatedProgression, 0.0)

	// Derived metrics echoed back in patient info.
	assert.Equal(t, "Test Patient", report.PatientInfo.Name)
	assert.Equal(t, 4.0, report.PatientInfo.MyopiaSeverity)
	assert.Equal(t, 25.0, report.PatientInfo.AvgAxialLength)
	assert.Equal(t, 2, report.PatientInfo.MyopicParents)
	assert.Equal(t, 0.5, report.PatientInfo.ComplianceScore)
	assert.Equal(t, 3.0, report.PatientInfo.QoLScore)

	// Analytics layers present and consistent with the inputs.
	assert.Len(t, report.RiskFactors.Factors, 7)
	assert.Len(t, report.ProgressionTimeline, 4)
	assert.Equal(t, "8-10", report.ComparativeStats.AgeGroup)
}

func TestPredictQoLOverride(t *testing.T) {
	svc := NewPredictionService(testLogger(), nil)
	svc.SetModel(fitTestModel(t))

	qol := 4.5
	p := validPatient()
	p.QoLScore = &qol

	report, err := svc.Predict(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 4.5, report.PatientInfo.QoLScore)
}

func TestHealthService(t *testing.T) {
	pred := NewPredictionService(testLogger(), nil)
	health := NewHealthService("1.2.3", pred)

	status := health.Health(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.ModelLoaded)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, health.Ready(context.Background()))

	pred.SetModel(fitTestModel(t))
	status = health.Health(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.ModelLoaded)
	assert.True(t, health.Ready(context.Background()))
}
