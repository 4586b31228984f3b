package classifier

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

// syntheticRows builds a separable training table: large positive elo_diff
// leans home win, large negative leans away win, near zero leans draw.
func syntheticRows(n int, seed int64) []models.FeatureRow {
	rng := rand.New(rand.NewSource(seed))
	rows := make([]models.FeatureRow, 0, n)
	for i := 0; i < n; i++ {
		diff := (rng.Float64() - 0.5) * 400
		label := models.OutcomeDraw
		if diff > 60 {
			label = models.OutcomeHome
		} else if diff < -60 {
			label = models.OutcomeAway
		}
		rows = append(rows, models.FeatureRow{
			MatchID:  int64(i),
			Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			HomeTeam: "Arsenal FC",
			AwayTeam: "Chelsea FC",
			EloHome:  1500 + diff/2 + 60,
			EloAway:  1500 - diff/2,
			EloDiff:  diff,
			Label:    label,
		})
	}
	return rows
}

func fastConfig() TrainerConfig {
	return TrainerConfig{
		Trees:        20,
		MaxDepth:     3,
		LearningRate: 0.3,
		Subsample:    0.8,
		L2Lambda:     1.0,
		Seed:         42,
	}
}

func TestTrainEmptyTable(t *testing.T) {
	_, err := Train(nil, fastConfig(), nil)
	assert.ErrorIs(t, err, models.ErrNoTrainingData)
}

func TestTrainLabelOrderSortedDistinct(t *testing.T) {
	rows := syntheticRows(200, 1)
	artifact, err := Train(rows, fastConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"AWAY", "DRAW", "HOME"}, artifact.LabelOrder)
	assert.Equal(t, models.FeatureColumns(), artifact.FeatureColumns)
	assert.Equal(t, len(rows), artifact.NRows)
}

func TestTrainLabelOrderWithMissingClass(t *testing.T) {
	// No draws at all: the order must only hold the observed labels.
	var rows []models.FeatureRow
	for _, r := range syntheticRows(200, 2) {
		if r.Label != models.OutcomeDraw {
			rows = append(rows, r)
		}
	}

	artifact, err := Train(rows, fastConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"AWAY", "HOME"}, artifact.LabelOrder)
	assert.Len(t, artifact.Model.BaseScores, 2)
}

func TestPredictProbaNormalized(t *testing.T) {
	rows := syntheticRows(200, 3)
	artifact, err := Train(rows, fastConfig(), nil)
	require.NoError(t, err)

	for _, row := range rows[:20] {
		probs := artifact.PredictProba(row)
		var sum float64
		for _, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}
}

func TestTrainLearnsSeparableSignal(t *testing.T) {
	rows := syntheticRows(400, 4)
	artifact, err := Train(rows, fastConfig(), nil)
	require.NoError(t, err)

	strongHome := models.FeatureRow{EloHome: 1710, EloAway: 1350, EloDiff: 300}
	probs := artifact.PredictProba(strongHome)
	assert.Greater(t, probs["HOME"], probs["AWAY"])
	assert.Greater(t, probs["HOME"], probs["DRAW"])

	strongAway := models.FeatureRow{EloHome: 1410, EloAway: 1650, EloDiff: -300}
	probs = artifact.PredictProba(strongAway)
	assert.Greater(t, probs["AWAY"], probs["HOME"])
}

func TestTrainDeterministic(t *testing.T) {
	rows := syntheticRows(150, 5)

	first, err := Train(rows, fastConfig(), nil)
	require.NoError(t, err)
	second, err := Train(rows, fastConfig(), nil)
	require.NoError(t, err)

	for _, row := range rows[:10] {
		assert.Equal(t, first.PredictProba(row), second.PredictProba(row))
	}
}

func TestArtifactJSONRoundTrip(t *testing.T) {
	rows := syntheticRows(100, 6)
	artifact, err := Train(rows, fastConfig(), nil)
	require.NoError(t, err)

	body, err := json.Marshal(artifact)
	require.NoError(t, err)

	var restored Artifact
	require.NoError(t, json.Unmarshal(body, &restored))

	assert.Equal(t, artifact.ID, restored.ID)
	assert.Equal(t, artifact.LabelOrder, restored.LabelOrder)
	for _, row := range rows[:5] {
		assert.InDelta(t, artifact.PredictProba(row)["HOME"], restored.PredictProba(row)["HOME"], 1e-12)
	}
}

func TestClassWeightsBalanceRareClasses(t *testing.T) {
	// 90/10 imbalance: the rare class weight must be nine times the common one.
	rows := make([]models.FeatureRow, 0, 100)
	for i := 0; i < 90; i++ {
		rows = append(rows, models.FeatureRow{EloDiff: 100, Label: models.OutcomeHome})
	}
	for i := 0; i < 10; i++ {
		rows = append(rows, models.FeatureRow{EloDiff: -100, Label: models.OutcomeAway})
	}

	total := 100.0
	k := 2.0
	wCommon := total / (k * 90.0)
	wRare := total / (k * 10.0)
	assert.InDelta(t, 9.0, wRare/wCommon, 1e-9)

	// And the weighted training still fits cleanly.
	artifact, err := Train(rows, fastConfig(), nil)
	require.NoError(t, err)
	probs := artifact.PredictProba(models.FeatureRow{EloDiff: -100})
	assert.Greater(t, probs["AWAY"], 0.5)
}
