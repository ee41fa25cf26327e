package exporter

import (
	"fmt"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/features"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// ProcessedExporter writes the imputed feature matrix and derived
// labels produced by a training run.
type ProcessedExporter struct {
	csvWriter *CSVWriter
}

// NewProcessedExporter creates a new processed dataset exporter
func NewProcessedExporter() *ProcessedExporter {
	return &ProcessedExporter{csvWriter: NewCSVWriter()}
}

// ExportTrainingSet writes one row per patient: every model feature in
// canonical order followed by the two training labels.
func (e *ProcessedExporter) ExportTrainingSet(set *features.TrainingSet, outputPath string) error {
	records := make([][]string, 0, len(set.Features))
	for i, v := range set.Features {
		row := make([]string, 0, domain.NumFeatures+2)
		for _, value := range v {
			row = append(row, formatFloat(value))
		}
		row = append(row, formatInt(int64(set.RiskCategory[i])))
		row = append(row, formatFloat(set.ProgressionRate[i]))
		records = append(records, row)
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, e.getHeaders(), records); err != nil {
		return fmt.Errorf("failed to write processed dataset: %w", err)
	}
	return nil
}

// getHeaders returns the CSV headers for the processed dataset
func (e *ProcessedExporter) getHeaders() []string {
	headers := make([]string, 0, domain.NumFeatures+2)
	headers = append(headers, domain.FeatureNames[:]...)
	headers = append(headers, "risk_category", "progression_rate")
	return headers
}
