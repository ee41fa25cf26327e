// Package services implements the application services behind the HTTP
// handlers: prediction, training and health.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/analytics"
	apierrors "github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/errors"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/features"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/infrastructure"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/model"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// ErrModelNotLoaded is returned when a prediction is requested before a
// fitted model is available. It is the errors package's 503 sentinel, so
// the error handler maps it without string matching.
var ErrModelNotLoaded error = apierrors.ErrModelNotReady

// defaultQoLScore is assumed when the request omits a quality-of-life score.
const defaultQoLScore = 3.0

// PredictionService turns validated patient records into predictions
// with the full analytics breakdown. The model can be swapped at
// runtime after a retrain.
type PredictionService struct {
	mu      sync.RWMutex
	model   *model.Model
	validat *validator.Validate
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewPredictionService creates a prediction service without a model.
// Call SetModel once one is loaded or trained.
func NewPredictionService(logger *slog.Logger, metrics *infrastructure.Metrics) *PredictionService {
	return &PredictionService{
		validat: validator.New(),
		metrics: metrics,
		logger:  logger,
	}
}

// SetModel installs a fitted model for serving.
func (s *PredictionService) SetModel(m *model.Model) {
	s.mu.Lock()
	s.model = m
	s.mu.Unlock()

	if s.metrics != nil {
		if m != nil && m.IsFitted() {
			s.metrics.ModelLoaded.Set(1)
		} else {
			s.metrics.ModelLoaded.Set(0)
		}
	}
}

// ModelReady reports whether a fitted model is installed.
func (s *PredictionService) ModelReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model != nil && s.model.IsFitted()
}

// Predict validates the input, runs the model and assembles the full
// report. Validation failures are returned as validator.ValidationErrors
// for the transport layer to map field by field.
func (s *PredictionService) Predict(ctx context.Context, p *domain.PatientInput) (*domain.PredictionReport, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	if err := s.validat.Struct(p); err != nil {
		logger.WarnContext(ctx, "patient input validation failed", "error", err)
		return nil, err
	}

	s.mu.RLock()
	m := s.model
	s.mu.RUnlock()
	if m == nil || !m.IsFitted() {
		return nil, ErrModelNotLoaded
	}

	vector, derived := features.BuildFromPatient(p)

	result, err := m.Predict(vector)
	if err != nil {
		logger.ErrorContext(ctx, "prediction failed", "error", err)
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	if s.metrics != nil {
		s.metrics.PredictionsTotal.WithLabelValues(result.RiskCategory).Inc()
	}

	logger.InfoContext(ctx, "prediction served",
		"risk_category", result.RiskCategory,
		"estimated_progression", result.EstimatedProgression,
	)

	return &domain.PredictionReport{
		Prediction:          result,
		PatientInfo:         buildPatientInfo(p, derived),
		RiskFactors:         analytics.RiskFactors(p, derived),
		ProgressionTimeline: analytics.ProgressionTimeline(result.EstimatedProgression, p.Age, derived.MyopiaSeverity),
		ComparativeStats:    analytics.CompareToPopulation(p.Age, derived.MyopiaSeverity, derived.AvgAxialLength),
	}, nil
}

func buildPatientInfo(p *domain.PatientInput, m domain.DerivedMetrics) domain.PatientInfo {
	qol := defaultQoLScore
	if p.QoLScore != nil {
		qol = *p.QoLScore
	}

	return domain.PatientInfo{
		Name:                p.DisplayName(),
		Age:                 p.Age,
		Gender:              p.Gender,
		AgeDiagnosis:        p.AgeDiagnosis,
		MyopicParents:       m.MyopicParents,
		OutdoorHours:        p.OutdoorHours,
		ScreenHours:         p.ScreenHours,
		RESpherical:         p.RESpherical,
		RECylinder:          p.RECylinder,
		LESpherical:         p.LESpherical,
		LECylinder:          p.LECylinder,
		REAxialLength:       p.REAxialLength,
		LEAxialLength:       p.LEAxialLength,
		AvgAxialLength:      m.AvgAxialLength,
		MyopiaSeverity:      m.MyopiaSeverity,
		WearingHours:        p.WearingHours,
		ComplianceScore:     m.ComplianceScore,
		QoLScore:            qol,
		YearsSinceDiagnosis: m.YearsSinceDiagnosis,
		ScreenOutdoorRatio:  m.ScreenOutdoorRatio,
		HasAstigmatism:      m.HasAstigmatism,
	}
}
