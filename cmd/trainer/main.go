package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/config"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/infrastructure"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/services"
)

func main() {
	dataFile := flag.String("data", "", "path to the clinical workbook (.xlsx), defaults to the configured data file")
	modelFile := flag.String("model", "", "output path for the trained model, defaults to the configured model file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	if *dataFile != "" {
		cfg.Model.DataFile = *dataFile
	}
	if *modelFile != "" {
		cfg.Model.ModelFile = *modelFile
	}

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting model training",
		slog.String("data_file", cfg.Model.DataFile),
		slog.String("model_file", cfg.Model.ModelFile))

	trainer := services.NewTrainingService(cfg, infrastructure.NewMetrics(), logger)
	_, summary, err := trainer.Train(context.Background())
	if err != nil {
		logger.Error("Training failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Training complete",
		slog.Int("patients", summary.Patients),
		slog.String("model_path", summary.ModelPath),
		slog.String("processed_path", summary.ProcessedPath),
		slog.Duration("duration", summary.Duration))

	fmt.Printf("Trained on %d patients in %s\n", summary.Patients, summary.Duration)
	fmt.Printf("Model saved to %s\n", summary.ModelPath)
	if summary.ProcessedPath != "" {
		fmt.Printf("Processed dataset exported to %s\n", summary.ProcessedPath)
	}
}
