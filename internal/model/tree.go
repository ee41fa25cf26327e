package model

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a CART tree. Leaves carry either a class
// distribution (classification) or a single mean value (regression);
// internal nodes split on Feature <= Threshold going left.
type treeNode struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
	Leaf      bool      `json:"leaf,omitempty"`
	// Dist is the class probability distribution at a classification leaf.
	Dist []float64 `json:"dist,omitempty"`
	// Value is the mean target at a regression leaf.
	Value float64 `json:"value,omitempty"`
}

func (n *treeNode) descend(row []float64) *treeNode {
	node := n
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

// splitCandidate is the outcome of scanning one feature for its best
// threshold.
type splitCandidate struct {
	feature   int
	threshold float64
	score     float64
	valid     bool
}

// treeGrower holds the shared knobs for recursive CART construction.
type treeGrower struct {
	x           [][]float64
	maxDepth    int
	minSamples  int
	featsPerCut int // number of candidate features per split; 0 = all
	rng         *rand.Rand
}

// candidateFeatures picks the feature subset scanned at one split. Random
// forests use sqrt(d) features per cut; boosting scans them all.
func (g *treeGrower) candidateFeatures(numFeatures int) []int {
	if g.featsPerCut <= 0 || g.featsPerCut >= numFeatures {
		all := make([]int, numFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := g.rng.Perm(numFeatures)
	return perm[:g.featsPerCut]
}

// thresholds returns midpoint split thresholds for the given feature over
// the sample subset.
func (g *treeGrower) thresholds(indices []int, feature int) []float64 {
	values := make([]float64, 0, len(indices))
	for _, i := range indices {
		values = append(values, g.x[i][feature])
	}
	sort.Float64s(values)

	cuts := make([]float64, 0, len(values))
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			cuts = append(cuts, (values[i]+values[i-1])/2)
		}
	}
	return cuts
}

func (g *treeGrower) partition(indices []int, feature int, threshold float64) (left, right []int) {
	for _, i := range indices {
		if g.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

// growClassification builds a gini-impurity CART over integer labels.
func growClassification(g *treeGrower, y []int, numClasses int, indices []int, depth int) *treeNode {
	counts := make([]float64, numClasses)
	for _, i := range indices {
		counts[y[i]]++
	}

	if depth >= g.maxDepth || len(indices) < g.minSamples || isPure(counts) {
		return classLeaf(counts)
	}

	best := splitCandidate{score: math.Inf(1)}
	for _, feature := range g.candidateFeatures(len(g.x[0])) {
		for _, threshold := range g.thresholds(indices, feature) {
			left, right := g.partition(indices, feature, threshold)
			if len(left) == 0 || len(right) == 0 {
				continue
			}
			score := weightedGini(y, numClasses, left, right)
			if score < best.score {
				best = splitCandidate{feature: feature, threshold: threshold, score: score, valid: true}
			}
		}
	}
	if !best.valid {
		return classLeaf(counts)
	}

	left, right := g.partition(indices, best.feature, best.threshold)
	return &treeNode{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      growClassification(g, y, numClasses, left, depth+1),
		Right:     growClassification(g, y, numClasses, right, depth+1),
	}
}

// growRegression builds a variance-reduction CART over float targets.
func growRegression(g *treeGrower, y []float64, indices []int, depth int) *treeNode {
	if depth >= g.maxDepth || len(indices) < g.minSamples {
		return &treeNode{Leaf: true, Value: meanAt(y, indices)}
	}

	best := splitCandidate{score: math.Inf(1)}
	for _, feature := range g.candidateFeatures(len(g.x[0])) {
		for _, threshold := range g.thresholds(indices, feature) {
			left, right := g.partition(indices, feature, threshold)
			if len(left) == 0 || len(right) == 0 {
				continue
			}
			score := sse(y, left) + sse(y, right)
			if score < best.score {
				best = splitCandidate{feature: feature, threshold: threshold, score: score, valid: true}
			}
		}
	}
	if !best.valid {
		return &treeNode{Leaf: true, Value: meanAt(y, indices)}
	}

	left, right := g.partition(indices, best.feature, best.threshold)
	return &treeNode{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      growRegression(g, y, left, depth+1),
		Right:     growRegression(g, y, right, depth+1),
	}
}

func classLeaf(counts []float64) *treeNode {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	dist := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			dist[i] = c / total
		}
	}
	return &treeNode{Leaf: true, Dist: dist}
}

func isPure(counts []float64) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func weightedGini(y []int, numClasses int, left, right []int) float64 {
	total := float64(len(left) + len(right))
	return float64(len(left))/total*gini(y, numClasses, left) +
		float64(len(right))/total*gini(y, numClasses, right)
}

func gini(y []int, numClasses int, indices []int) float64 {
	counts := make([]float64, numClasses)
	for _, i := range indices {
		counts[y[i]]++
	}
	n := float64(len(indices))
	impurity := 1.0
	for _, c := range counts {
		p := c / n
		impurity -= p * p
	}
	return impurity
}

func meanAt(y []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range indices {
		sum += y[i]
	}
	return sum / float64(len(indices))
}

func sse(y []float64, indices []int) float64 {
	m := meanAt(y, indices)
	total := 0.0
	for _, i := range indices {
		d := y[i] - m
		total += d * d
	}
	return total
}
