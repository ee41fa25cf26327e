package model

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/features"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// trainingGrid builds a deterministic labeled training set spanning the
// clinically relevant parameter space.
func trainingGrid(t *testing.T) ([]domain.FeatureVector, []int, []float64) {
	t.Helper()

	var x []domain.FeatureVector
	var categories []int
	var rates []float64

	ages := []float64{8, 9, 11, 13, 15}
	parents := []string{"No", "One", "Both"}
	screens := []float64{1, 5}
	spheres := []float64{-1.0, -4.0}
	axials := []float64{23.5, 25.0}

	for _, age := range ages {
		for _, par := range parents {
			for _, screen := range screens {
				for _, sph := range spheres {
					for _, axial := range axials {
						p := &domain.PatientInput{
							Age:           age,
							Gender:        "M",
							AgeDiagnosis:  age - 2,
							MyopicParents: par,
							OutdoorHours:  1,
							ScreenHours:   screen,
							RESpherical:   sph,
							LESpherical:   sph,
							REAxialLength: axial,
							LEAxialLength: axial,
							WearingHours:  6,
						}
						v, _ := features.BuildFromPatient(p)
						x = append(x, v)
						categories = append(categories, features.RiskCategory(features.RiskScore(v)))
						rates = append(rates, features.ProgressionRate(v))
					}
				}
			}
		}
	}
	return x, categories, rates
}

func fittedModel(t *testing.T) (*Model, []domain.FeatureVector, []int, []float64) {
	t.Helper()
	x, categories, rates := trainingGrid(t)
	m := New()
	require.NoError(t, m.Fit(x, categories, rates))
	return m, x, categories, rates
}

func TestFitValidation(t *testing.T) {
	m := New()

	err := m.Fit(nil, nil, nil)
	assert.Error(t, err)
	assert.False(t, m.IsFitted())

	x, categories, rates := trainingGrid(t)
	err = m.Fit(x, categories[:len(categories)-1], rates)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
	assert.False(t, m.IsFitted())
}

func TestPredictBeforeFit(t *testing.T) {
	m := New()
	_, err := m.Predict(domain.FeatureVector{})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestPredictRejectsNonFinite(t *testing.T) {
	m, x, _, _ := fittedModel(t)

	bad := x[0]
	bad[domain.FeatScreenOutdoorRatio] = math.NaN()
	_, err := m.Predict(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen_outdoor_ratio")

	bad = x[0]
	bad[domain.FeatAvgAxialLength] = math.Inf(1)
	_, err = m.Predict(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "avg_axial_length")
}

func TestPredictInvariants(t *testing.T) {
	m, x, _, _ := fittedModel(t)

	for _, v := range x[:20] {
		result, err := m.Predict(v)
		require.NoError(t, err)

		probSum := result.RiskProbabilities.Low + result.RiskProbabilities.Medium + result.RiskProbabilities.High
		assert.InDelta(t, 1.0, probSum, 1e-9)

		assert.GreaterOrEqual(t, result.EstimatedProgression, 0.0)
		assert.LessOrEqual(t, result.EstimatedProgression, features.MaxProgressionRate)
		assert.Contains(t, domain.RiskLabels[:], result.RiskCategory)
	}
}

func TestPredictHighRiskScenario(t *testing.T) {
	m, _, _, _ := fittedModel(t)

	// Young patient, both parents myopic, high screen time, -4 D severity,
	// elongated eyes, 50% compliance: squarely a high-risk profile.
	p := &domain.PatientInput{
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
	v, _ := features.BuildFromPatient(p)
	result, err := m.Predict(v)
	require.NoError(t, err)

	assert.Equal(t, domain.RiskLabels[domain.RiskHigh], result.RiskCategory)
	assert.Equal(t, domain.RiskHigh, result.RiskScore)
	assert.Greater(t, result.RiskProbabilities.High, result.RiskProbabilities.Low)
}

func TestPredictDeterministic(t *testing.T) {
	x, categories, rates := trainingGrid(t)

	m1 := New()
	require.NoError(t, m1.Fit(x, categories, rates))
	m2 := New()
	require.NoError(t, m2.Fit(x, categories, rates))

	r1, err := m1.Predict(x[7])
	require.NoError(t, err)
	r2, err := m2.Predict(x[7])
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestStellestBenefit(t *testing.T) {
	benefit := stellestBenefit(0.3, 0.5)
	// without = 0.3 / (0.4 * 0.5) = 1.5
	assert.Equal(t, 1.5, benefit.WithoutStellest)
	assert.Equal(t, 0.3, benefit.WithStellest)
	assert.Equal(t, 80.0, benefit.ReductionPercentage)

	// Zero compliance divides by the bare treatment factor.
	benefit = stellestBenefit(0.4, 0)
	assert.Equal(t, 1.0, benefit.WithoutStellest)

	// No measured progression means no reported reduction.
	benefit = stellestBenefit(0, 1)
	assert.Equal(t, 0.0, benefit.ReductionPercentage)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, x, _, _ := fittedModel(t)
	path := filepath.Join(t.TempDir(), "stellest_model.json")

	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.IsFitted())

	// Persistence must not drift predictions.
	for _, v := range x[:10] {
		want, err := m.Predict(v)
		require.NoError(t, err)
		got, err := loaded.Predict(v)
		require.NoError(t, err)
		assert.Equal(t, want.RiskCategory, got.RiskCategory)
		assert.Equal(t, want.EstimatedProgression, got.EstimatedProgression)
		assert.InDelta(t, want.RiskProbabilities.High, got.RiskProbabilities.High, 1e-12)
	}
}

func TestSaveRequiresFit(t *testing.T) {
	m := New()
	err := m.Save(filepath.Join(t.TempDir(), "model.json"))
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("corrupted blob", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "corrupted")
	})

	t.Run("version mismatch", func(t *testing.T) {
		path := filepath.Join(dir, "oldversion.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":99}`), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "version mismatch")
	})

	t.Run("incomplete state", func(t *testing.T) {
		m, _, _, _ := fittedModel(t)
		path := filepath.Join(dir, "partial.json")
		require.NoError(t, m.Save(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		// Strip the regressor to simulate a blob written by a buggy saver.
		var state map[string]any
		require.NoError(t, json.Unmarshal(data, &state))
		delete(state, "regressor")
		mutated, err := json.Marshal(state)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, mutated, 0o644))

		_, err = Load(path)
		assert.Error(t, err)
	})
}
