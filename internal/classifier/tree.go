// Package classifier implements the multi-class gradient-boosted tree
// ensemble trained on the walk-forward feature table. There is no suitable
// training library in the Go ecosystem, so the ensemble is built from first
// principles: second-order boosting with L2-regularized leaf values.
package classifier

import "sort"

// TreeNode is one node of a regression tree. Leaf nodes carry the additive
// score contribution; internal nodes route on a single feature threshold.
type TreeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
}

// Predict walks the tree for one feature vector.
func (n *TreeNode) Predict(x []float64) float64 {
	node := n
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

type treeConfig struct {
	maxDepth       int
	minSamplesLeaf int
	lambda         float64
}

// buildTree fits a regression tree to the given gradient/hessian statistics
// over the sample indices in idx. Split gain and leaf values follow the
// standard second-order formulation: value = -G/(H+lambda).
func buildTree(idx []int, x [][]float64, grad, hess []float64, depth int, cfg treeConfig) *TreeNode {
	var sumG, sumH float64
	for _, i := range idx {
		sumG += grad[i]
		sumH += hess[i]
	}

	if depth >= cfg.maxDepth || len(idx) < 2*cfg.minSamplesLeaf {
		return leafNode(sumG, sumH, cfg.lambda)
	}

	feature, threshold, gain := bestSplit(idx, x, grad, hess, sumG, sumH, cfg)
	if gain <= 0 {
		return leafNode(sumG, sumH, cfg.lambda)
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(left, x, grad, hess, depth+1, cfg),
		Right:     buildTree(right, x, grad, hess, depth+1, cfg),
	}
}

func leafNode(sumG, sumH, lambda float64) *TreeNode {
	return &TreeNode{Leaf: true, Value: -sumG / (sumH + lambda)}
}

// bestSplit scans every feature for the threshold with the highest gain.
// Thresholds are midpoints between consecutive distinct sorted values.
func bestSplit(idx []int, x [][]float64, grad, hess []float64, sumG, sumH float64, cfg treeConfig) (int, float64, float64) {
	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0
	parentScore := sumG * sumG / (sumH + cfg.lambda)

	nFeatures := len(x[idx[0]])
	order := make([]int, len(idx))

	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		var leftG, leftH float64
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftG += grad[i]
			leftH += hess[i]

			cur := x[i][f]
			next := x[order[pos+1]][f]
			if cur == next {
				continue
			}
			if pos+1 < cfg.minSamplesLeaf || len(order)-pos-1 < cfg.minSamplesLeaf {
				continue
			}

			rightG := sumG - leftG
			rightH := sumH - leftH
			gain := leftG*leftG/(leftH+cfg.lambda) + rightG*rightG/(rightH+cfg.lambda) - parentScore
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}
