package model

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// GradientBoosting is a squared-loss boosted ensemble of regression CART
// trees predicting the annual progression rate. Each stage fits the
// residual of the running prediction.
type GradientBoosting struct {
	NumTrees     int         `json:"num_trees"`
	MaxDepth     int         `json:"max_depth"`
	LearningRate float64     `json:"learning_rate"`
	InitValue    float64     `json:"init_value"`
	Trees        []*treeNode `json:"trees"`
}

// NewGradientBoosting configures an unfitted boosted regressor.
func NewGradientBoosting(numTrees, maxDepth int, learningRate float64) *GradientBoosting {
	return &GradientBoosting{NumTrees: numTrees, MaxDepth: maxDepth, LearningRate: learningRate}
}

// Fit trains the ensemble on the scaled feature matrix.
func (b *GradientBoosting) Fit(x [][]float64, y []float64, rng *rand.Rand) error {
	if len(x) == 0 {
		return fmt.Errorf("cannot fit regressor on empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("feature/target length mismatch: %d vs %d", len(x), len(y))
	}

	b.InitValue = stat.Mean(y, nil)

	current := make([]float64, len(y))
	for i := range current {
		current[i] = b.InitValue
	}

	indices := make([]int, len(x))
	for i := range indices {
		indices[i] = i
	}

	residuals := make([]float64, len(y))
	b.Trees = make([]*treeNode, 0, b.NumTrees)
	for t := 0; t < b.NumTrees; t++ {
		for i := range y {
			residuals[i] = y[i] - current[i]
		}
		grower := &treeGrower{
			x:          x,
			maxDepth:   b.MaxDepth,
			minSamples: 2,
			rng:        rng,
		}
		tree := growRegression(grower, residuals, indices, 0)
		b.Trees = append(b.Trees, tree)

		for i, row := range x {
			current[i] += b.LearningRate * tree.descend(row).Value
		}
	}
	return nil
}

// Predict returns the boosted estimate for one scaled row.
func (b *GradientBoosting) Predict(row []float64) (float64, error) {
	if len(b.Trees) == 0 {
		return 0, fmt.Errorf("regressor is not fitted")
	}
	out := b.InitValue
	for _, tree := range b.Trees {
		out += b.LearningRate * tree.descend(row).Value
	}
	return out, nil
}
