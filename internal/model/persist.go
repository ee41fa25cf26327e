package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// blobVersion guards against loading state written by an incompatible
// build. Bump when the persisted layout changes.
const blobVersion = 1

// persistedState is the on-disk layout of a fitted model. The scaler,
// classifier and regressor travel together: loading any of them in
// isolation would silently desynchronize the scaled feature space.
type persistedState struct {
	Version      int               `json:"version"`
	FeatureNames []string          `json:"feature_names"`
	Scaler       *StandardScaler   `json:"scaler"`
	Classifier   *RandomForest     `json:"classifier"`
	Regressor    *GradientBoosting `json:"regressor"`
}

// Save writes the fitted model atomically: the blob is staged to a temp
// file in the target directory and renamed into place, so a crash mid-write
// never leaves a truncated model behind.
func (m *Model) Save(path string) error {
	if !m.fitted {
		return ErrNotFitted
	}

	state := persistedState{
		Version:      blobVersion,
		FeatureNames: domain.FeatureNames[:],
		Scaler:       m.scaler,
		Classifier:   m.classifier,
		Regressor:    m.regressor,
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode model state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("failed to stage model file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write model state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush model state: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move model into place: %w", err)
	}
	return nil
}

// Load reads a persisted model. A corrupted, incompatible or partially
// written blob is a hard failure; there is no silent fallback to an unfit
// model.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("model file is corrupted: %w", err)
	}
	if state.Version != blobVersion {
		return nil, fmt.Errorf("model version mismatch: blob is v%d, this build expects v%d", state.Version, blobVersion)
	}
	if len(state.FeatureNames) != domain.NumFeatures {
		return nil, fmt.Errorf("model was trained on %d features, this build expects %d", len(state.FeatureNames), domain.NumFeatures)
	}
	for i, name := range state.FeatureNames {
		if name != domain.FeatureNames[i] {
			return nil, fmt.Errorf("feature order mismatch at %d: blob has %q, expected %q", i, name, domain.FeatureNames[i])
		}
	}
	if state.Scaler == nil || state.Classifier == nil || state.Regressor == nil {
		return nil, fmt.Errorf("model file is incomplete: scaler, classifier and regressor must all be present")
	}
	if len(state.Classifier.Trees) == 0 || len(state.Regressor.Trees) == 0 {
		return nil, fmt.Errorf("model file holds an unfitted ensemble")
	}

	return &Model{
		scaler:     state.Scaler,
		classifier: state.Classifier,
		regressor:  state.Regressor,
		fitted:     true,
	}, nil
}
