package model

import (
	"fmt"
	"math"
	"math/rand"
)

// RandomForest is a bagged ensemble of gini CART trees predicting the risk
// category. Probabilities are the average of the per-tree leaf
// distributions, so they always sum to 1.
type RandomForest struct {
	NumTrees   int         `json:"num_trees"`
	MaxDepth   int         `json:"max_depth"`
	NumClasses int         `json:"num_classes"`
	Trees      []*treeNode `json:"trees"`
}

// NewRandomForest configures an unfitted forest.
func NewRandomForest(numTrees, maxDepth, numClasses int) *RandomForest {
	return &RandomForest{NumTrees: numTrees, MaxDepth: maxDepth, NumClasses: numClasses}
}

// Fit trains the forest on the scaled feature matrix. Each tree sees a
// bootstrap resample and scans sqrt(d) random features per split.
func (f *RandomForest) Fit(x [][]float64, y []int, rng *rand.Rand) error {
	if len(x) == 0 {
		return fmt.Errorf("cannot fit forest on empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("feature/label length mismatch: %d vs %d", len(x), len(y))
	}
	for _, label := range y {
		if label < 0 || label >= f.NumClasses {
			return fmt.Errorf("label %d outside [0,%d)", label, f.NumClasses)
		}
	}

	numFeatures := len(x[0])
	featsPerCut := int(math.Sqrt(float64(numFeatures)))
	if featsPerCut < 1 {
		featsPerCut = 1
	}

	f.Trees = make([]*treeNode, 0, f.NumTrees)
	for t := 0; t < f.NumTrees; t++ {
		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}
		grower := &treeGrower{
			x:           x,
			maxDepth:    f.MaxDepth,
			minSamples:  2,
			featsPerCut: featsPerCut,
			rng:         rng,
		}
		f.Trees = append(f.Trees, growClassification(grower, y, f.NumClasses, sample, 0))
	}
	return nil
}

// Predict returns the majority category and the averaged per-class
// probabilities for one scaled row.
func (f *RandomForest) Predict(row []float64) (int, []float64, error) {
	if len(f.Trees) == 0 {
		return 0, nil, fmt.Errorf("forest is not fitted")
	}

	probs := make([]float64, f.NumClasses)
	for _, tree := range f.Trees {
		leaf := tree.descend(row)
		for c, p := range leaf.Dist {
			probs[c] += p
		}
	}

	total := 0.0
	for _, p := range probs {
		total += p
	}
	best := 0
	for c := range probs {
		if total > 0 {
			probs[c] /= total
		}
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best, probs, nil
}
