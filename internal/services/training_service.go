package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/clinical"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/config"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/exporter"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/features"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/infrastructure"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/model"
)

// TrainingSummary describes one completed training run.
type TrainingSummary struct {
	Patients      int           `json:"patients"`
	ModelPath     string        `json:"model_path"`
	ProcessedPath string        `json:"processed_path,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// TrainingService runs the full retrospective pipeline: workbook to
// features to fitted model on disk.
type TrainingService struct {
	cfg      *config.Config
	exporter *exporter.ProcessedExporter
	metrics  *infrastructure.Metrics
	logger   *slog.Logger
}

// NewTrainingService creates a training service.
func NewTrainingService(cfg *config.Config, metrics *infrastructure.Metrics, logger *slog.Logger) *TrainingService {
	return &TrainingService{
		cfg:      cfg,
		exporter: exporter.NewProcessedExporter(),
		metrics:  metrics,
		logger:   logger,
	}
}

// Train loads the workbook, builds the training set, fits a model and
// persists it atomically. The processed feature matrix is exported
// alongside for offline analysis.
func (s *TrainingService) Train(ctx context.Context) (*model.Model, *TrainingSummary, error) {
	start := time.Now()
	logger := infrastructure.LoggerFromContext(ctx)

	logger.InfoContext(ctx, "training started", "data_file", s.cfg.Model.DataFile)

	records, err := clinical.LoadWorkbook(s.cfg.Model.DataFile)
	if err != nil {
		s.countTraining("error")
		return nil, nil, fmt.Errorf("failed to load workbook: %w", err)
	}

	set, err := features.BuildTrainingSet(records)
	if err != nil {
		s.countTraining("error")
		return nil, nil, fmt.Errorf("failed to build training set: %w", err)
	}

	m := model.New()
	if err := m.Fit(set.Features, set.RiskCategory, set.ProgressionRate); err != nil {
		s.countTraining("error")
		return nil, nil, fmt.Errorf("failed to fit model: %w", err)
	}

	if err := m.Save(s.cfg.Model.ModelFile); err != nil {
		s.countTraining("error")
		return nil, nil, fmt.Errorf("failed to save model: %w", err)
	}

	summary := &TrainingSummary{
		Patients:  len(set.Features),
		ModelPath: s.cfg.Model.ModelFile,
		Duration:  time.Since(start),
	}

	// Export failure is not fatal; the fitted model is already saved.
	processedPath := s.cfg.GetReportPath("processed_data.csv")
	if err := s.exporter.ExportTrainingSet(set, processedPath); err != nil {
		logger.WarnContext(ctx, "processed dataset export failed", "error", err)
	} else {
		summary.ProcessedPath = processedPath
	}

	s.countTraining("success")
	logger.InfoContext(ctx, "training completed",
		"patients", summary.Patients,
		"model_path", summary.ModelPath,
		"duration", summary.Duration.String(),
	)

	return m, summary, nil
}

// LoadOrTrain loads the persisted model if present and valid, training
// from scratch otherwise.
func (s *TrainingService) LoadOrTrain(ctx context.Context) (*model.Model, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	m, err := model.Load(s.cfg.Model.ModelFile)
	if err == nil {
		logger.InfoContext(ctx, "loaded existing model", "model_path", s.cfg.Model.ModelFile)
		return m, nil
	}

	logger.WarnContext(ctx, "model load failed, training new model",
		"model_path", s.cfg.Model.ModelFile,
		"error", err,
	)

	m, _, err = s.Train(ctx)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TrainingService) countTraining(outcome string) {
	if s.metrics != nil {
		s.metrics.TrainingRunsTotal.WithLabelValues(outcome).Inc()
	}
}
