// Package model implements the two-headed progression model: a random
// forest risk classifier and a gradient-boosted progression regressor over
// a shared standard scaler. The three are fitted, saved and loaded as one
// atomic unit because both heads operate in the scaler's output space.
package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/features"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// Training hyperparameters. RandomSeed pins both ensembles so the same
// training set always produces the same fitted model.
const (
	NumTrees        = 100
	ClassifierDepth = 10
	RegressorDepth  = 5
	LearningRate    = 0.1
	RandomSeed      = 42
)

// ErrNotFitted is returned when Predict is called before Fit or Load.
var ErrNotFitted = errors.New("progression model is not fitted")

// Model owns the fitted scaler, classifier and regressor. It is read-only
// after Fit or Load; inference never mutates it, so a single instance is
// safe to share across concurrent requests under the load-once-then-freeze
// discipline.
type Model struct {
	scaler     *StandardScaler
	classifier *RandomForest
	regressor  *GradientBoosting
	fitted     bool
}

// New returns an unfitted model.
func New() *Model {
	return &Model{}
}

// IsFitted reports whether the model can serve predictions.
func (m *Model) IsFitted() bool {
	return m.fitted
}

// Fit trains the scaler, classifier and regressor on the full training
// matrix. A failed fit leaves the receiver exactly as it was, so a serving
// model is never corrupted by a bad retrain attempt.
func (m *Model) Fit(x []domain.FeatureVector, riskCategory []int, progressionRate []float64) error {
	if len(x) == 0 {
		return fmt.Errorf("training set is empty")
	}
	if len(x) != len(riskCategory) || len(x) != len(progressionRate) {
		return fmt.Errorf("training shape mismatch: %d features, %d categories, %d rates",
			len(x), len(riskCategory), len(progressionRate))
	}

	raw := mat.NewDense(len(x), domain.NumFeatures, nil)
	for i, row := range x {
		raw.SetRow(i, row[:])
	}

	scaler := &StandardScaler{}
	if err := scaler.Fit(raw); err != nil {
		return fmt.Errorf("failed to fit scaler: %w", err)
	}
	scaledDense, err := scaler.TransformMatrix(raw)
	if err != nil {
		return fmt.Errorf("failed to scale training matrix: %w", err)
	}
	scaled := make([][]float64, len(x))
	for i := range scaled {
		scaled[i] = scaledDense.RawRowView(i)
	}

	classifier := NewRandomForest(NumTrees, ClassifierDepth, len(domain.RiskLabels))
	if err := classifier.Fit(scaled, riskCategory, rand.New(rand.NewSource(RandomSeed))); err != nil {
		return fmt.Errorf("failed to fit risk classifier: %w", err)
	}

	regressor := NewGradientBoosting(NumTrees, RegressorDepth, LearningRate)
	if err := regressor.Fit(scaled, progressionRate, rand.New(rand.NewSource(RandomSeed))); err != nil {
		return fmt.Errorf("failed to fit progression regressor: %w", err)
	}

	m.scaler = scaler
	m.classifier = classifier
	m.regressor = regressor
	m.fitted = true
	return nil
}

// Predict runs both model heads over one feature vector and derives the
// treatment-benefit estimate. NaN or infinite inputs fail fast with the
// offending feature name rather than producing a degenerate prediction.
func (m *Model) Predict(v domain.FeatureVector) (*domain.PredictionResult, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	for i, val := range v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("invalid value for feature %q: %v", domain.FeatureNames[i], val)
		}
	}

	scaled, err := m.scaler.Transform(v[:])
	if err != nil {
		return nil, err
	}

	category, probs, err := m.classifier.Predict(scaled)
	if err != nil {
		return nil, err
	}
	rate, err := m.regressor.Predict(scaled)
	if err != nil {
		return nil, err
	}
	rate = round2(clampRate(rate))

	return &domain.PredictionResult{
		RiskCategory: domain.RiskLabels[category],
		RiskScore:    category,
		RiskProbabilities: domain.RiskProbabilities{
			Low:    probs[domain.RiskLow],
			Medium: probs[domain.RiskMedium],
			High:   probs[domain.RiskHigh],
		},
		EstimatedProgression: rate,
		StellestBenefit:      stellestBenefit(rate, v[domain.FeatComplianceScore]),
	}, nil
}

// stellestBenefit estimates the progression the patient would see without
// treatment by inverting the fixed Stellest factor, scaled by compliance.
// Zero compliance divides by the bare factor so the estimate stays finite.
func stellestBenefit(withTreatment, compliance float64) domain.TreatmentBenefit {
	divisor := features.StellestFactor * compliance
	if compliance <= 0 {
		divisor = features.StellestFactor
	}
	without := withTreatment / divisor

	reduction := 0.0
	if without > 0 {
		reduction = (without - withTreatment) / without * 100
	}
	return domain.TreatmentBenefit{
		WithoutStellest:     round2(without),
		WithStellest:        round2(withTreatment),
		ReductionPercentage: round1(reduction),
	}
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > features.MaxProgressionRate {
		return features.MaxProgressionRate
	}
	return rate
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
