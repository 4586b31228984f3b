package classifier

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

// TrainerConfig are the boosting hyperparameters exposed to configuration.
type TrainerConfig struct {
	Trees        int
	MaxDepth     int
	LearningRate float64
	Subsample    float64
	L2Lambda     float64
	Seed         int64
}

// DefaultTrainerConfig returns the tuned training parameters.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Trees:        300,
		MaxDepth:     3,
		LearningRate: 0.1,
		Subsample:    0.8,
		L2Lambda:     1.0,
		Seed:         42,
	}
}

// Artifact bundles a trained model with everything needed to score new
// fixtures: the exact feature column order and the label order the output
// probabilities map onto. It round-trips through JSON for persistence.
type Artifact struct {
	ID             uuid.UUID `json:"id"`
	Model          *Model    `json:"model"`
	FeatureColumns []string  `json:"feature_columns"`
	LabelOrder     []string  `json:"label_order"`
	TrainedAt      time.Time `json:"trained_at"`
	NRows          int       `json:"n_rows"`
	FirstMatch     time.Time `json:"first_match"`
	LastMatch      time.Time `json:"last_match"`
}

// PredictProba scores one feature row and returns probabilities keyed by
// label, in artifact label order.
func (a *Artifact) PredictProba(row models.FeatureRow) map[string]float64 {
	probs := a.Model.Proba(row.Vector(a.FeatureColumns))
	out := make(map[string]float64, len(a.LabelOrder))
	for i, label := range a.LabelOrder {
		out[label] = probs[i]
	}
	return out
}

// Train fits the ensemble on the walk-forward feature table. Labels are
// mapped through the lexicographically sorted set of distinct label strings,
// and each sample is weighted inversely to its class frequency so the draw
// class is not drowned out by home wins.
func Train(rows []models.FeatureRow, cfg TrainerConfig, logger *logrus.Logger) (*Artifact, error) {
	if len(rows) == 0 {
		return nil, models.ErrNoTrainingData
	}

	labelOrder := labelOrderOf(rows)
	labelIndex := make(map[string]int, len(labelOrder))
	for i, label := range labelOrder {
		labelIndex[label] = i
	}

	columns := models.FeatureColumns()
	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	counts := make([]float64, len(labelOrder))
	for i, row := range rows {
		x[i] = row.Vector(columns)
		y[i] = labelIndex[string(row.Label)]
		counts[y[i]]++
	}

	// Balanced sample weights: total / (n_classes * class_count).
	total := float64(len(rows))
	k := float64(len(labelOrder))
	w := make([]float64, len(rows))
	for i := range rows {
		w[i] = total / (k * counts[y[i]])
	}

	model := fitModel(x, y, w, len(labelOrder), fitConfig{
		trees:        cfg.Trees,
		maxDepth:     cfg.MaxDepth,
		learningRate: cfg.LearningRate,
		subsample:    cfg.Subsample,
		lambda:       cfg.L2Lambda,
		seed:         cfg.Seed,
	})

	first, last := rows[0].Date, rows[0].Date
	for _, row := range rows[1:] {
		if row.Date.Before(first) {
			first = row.Date
		}
		if row.Date.After(last) {
			last = row.Date
		}
	}

	artifact := &Artifact{
		ID:             uuid.New(),
		Model:          model,
		FeatureColumns: columns,
		LabelOrder:     labelOrder,
		TrainedAt:      time.Now().UTC(),
		NRows:          len(rows),
		FirstMatch:     first,
		LastMatch:      last,
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"model_id": artifact.ID,
			"rows":     len(rows),
			"classes":  len(labelOrder),
			"trees":    cfg.Trees,
		}).Info("Classifier training completed")
	}

	return artifact, nil
}

// labelOrderOf returns the sorted distinct labels present in the table. The
// classifier's probability columns follow this order.
func labelOrderOf(rows []models.FeatureRow) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, row := range rows {
		label := string(row.Label)
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}
