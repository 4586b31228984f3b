package classifier

import (
	"math"
	"math/rand"
)

// Model is a trained multi-class gradient-boosted tree ensemble. Rounds holds
// one tree per class per boosting iteration. BaseScores are the initial
// per-class log-odds the ensemble corrects from. The struct is fully
// JSON-serializable for artifact persistence.
type Model struct {
	NClasses     int           `json:"n_classes"`
	LearningRate float64       `json:"learning_rate"`
	BaseScores   []float64     `json:"base_scores"`
	Rounds       [][]*TreeNode `json:"rounds"`
}

// RawScores returns the pre-softmax score per class for one feature vector.
func (m *Model) RawScores(x []float64) []float64 {
	scores := make([]float64, m.NClasses)
	copy(scores, m.BaseScores)
	for _, round := range m.Rounds {
		for k, tree := range round {
			scores[k] += m.LearningRate * tree.Predict(x)
		}
	}
	return scores
}

// Proba returns the softmax class probabilities for one feature vector.
func (m *Model) Proba(x []float64) []float64 {
	return softmax(m.RawScores(x))
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// fitConfig are the boosting hyperparameters used by fitModel.
type fitConfig struct {
	trees        int
	maxDepth     int
	learningRate float64
	subsample    float64
	lambda       float64
	seed         int64
}

// fitModel runs second-order multi-class boosting. x is the feature matrix, y
// the class index per row, w the per-sample weight. Each iteration fits one
// tree per class on the softmax gradient/hessian of the weighted log loss,
// over a row subsample drawn from the seeded source.
func fitModel(x [][]float64, y []int, w []float64, nClasses int, cfg fitConfig) *Model {
	n := len(x)
	model := &Model{
		NClasses:     nClasses,
		LearningRate: cfg.learningRate,
		BaseScores:   make([]float64, nClasses),
		Rounds:       make([][]*TreeNode, 0, cfg.trees),
	}

	// scores[i][k] is the current raw score of sample i for class k.
	scores := make([][]float64, n)
	for i := range scores {
		scores[i] = make([]float64, nClasses)
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	treeCfg := treeConfig{
		maxDepth:       cfg.maxDepth,
		minSamplesLeaf: 5,
		lambda:         cfg.lambda,
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	for t := 0; t < cfg.trees; t++ {
		idx := sampleRows(all, cfg.subsample, rng)
		round := make([]*TreeNode, nClasses)

		for k := 0; k < nClasses; k++ {
			for _, i := range idx {
				p := softmax(scores[i])[k]
				target := 0.0
				if y[i] == k {
					target = 1.0
				}
				grad[i] = w[i] * (p - target)
				hess[i] = w[i] * p * (1 - p)
			}
			round[k] = buildTree(idx, x, grad, hess, 0, treeCfg)
		}

		// Update every sample's scores, not just the subsample, so the
		// next iteration's gradients see the full ensemble.
		for i := 0; i < n; i++ {
			for k := 0; k < nClasses; k++ {
				scores[i][k] += cfg.learningRate * round[k].Predict(x[i])
			}
		}

		model.Rounds = append(model.Rounds, round)
	}

	return model
}

// sampleRows draws a subsample of rows without replacement. A fraction at or
// above 1.0 returns the full set unshuffled, keeping training deterministic
// against the common default.
func sampleRows(all []int, fraction float64, rng *rand.Rand) []int {
	if fraction >= 1.0 {
		return all
	}
	size := int(float64(len(all)) * fraction)
	if size < 1 {
		size = 1
	}
	perm := rng.Perm(len(all))
	idx := make([]int, size)
	for i := 0; i < size; i++ {
		idx[i] = all[perm[i]]
	}
	return idx
}
