package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/features"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

func TestCSVWriter_WriteCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter()

	tests := []struct {
		name    string
		options WriteOptions
		wantBOM bool
	}{
		{
			name: "headers and records with BOM",
			options: WriteOptions{
				Headers:   []string{"a", "b"},
				Records:   [][]string{{"1", "2"}, {"3", "4"}},
				BOMPrefix: true,
			},
			wantBOM: true,
		},
		{
			name: "no BOM",
			options: WriteOptions{
				Headers: []string{"a", "b"},
				Records: [][]string{{"1", "2"}},
			},
			wantBOM: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			require.NoError(t, writer.WriteCSV(path, tt.options))

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			hasBOM := bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF})
			assert.Equal(t, tt.wantBOM, hasBOM)

			reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
			rows, err := reader.ReadAll()
			require.NoError(t, err)
			assert.Len(t, rows, 1+len(tt.options.Records))
			assert.Equal(t, tt.options.Headers, rows[0])
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter()
	path := filepath.Join(tempDir, "append.csv")

	require.NoError(t, writer.WriteSimpleCSV(path, []string{"x"}, [][]string{{"1"}}))
	require.NoError(t, writer.WriteCSV(path, WriteOptions{
		Records: [][]string{{"2"}},
		Append:  true,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"2"}, rows[2])
}

func TestProcessedExporter_ExportTrainingSet(t *testing.T) {
	tempDir := t.TempDir()
	exporter := NewProcessedExporter()

	var v domain.FeatureVector
	v[domain.FeatAge] = 10
	v[domain.FeatMyopiaSeverity] = 2.5

	set := &features.TrainingSet{
		Features:        []domain.FeatureVector{v},
		RiskCategory:    []int{domain.RiskMedium},
		ProgressionRate: []float64{0.62},
	}

	path := filepath.Join(tempDir, "processed_data.csv")
	require.NoError(t, exporter.ExportTrainingSet(set, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	require.Len(t, header, domain.NumFeatures+2)
	assert.Equal(t, "age", header[0])
	assert.Equal(t, "risk_category", header[domain.NumFeatures])
	assert.Equal(t, "progression_rate", header[domain.NumFeatures+1])

	row := rows[1]
	assert.Equal(t, "10.0000", row[domain.FeatAge])
	assert.Equal(t, "2.5000", row[domain.FeatMyopiaSeverity])
	assert.Equal(t, "1", row[domain.NumFeatures])
	assert.Equal(t, "0.6200", row[domain.NumFeatures+1])
}
