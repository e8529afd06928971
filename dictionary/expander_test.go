package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esglex/esglex/embedding"
)

// toyModel builds a small vocabulary with controlled similarities. Vectors
// are 2d; cosine similarity between entries follows their angles.
func toyModel(t *testing.T, vectors map[string][]float32) *embedding.Model {
	t.Helper()
	model := embedding.NewModel(2)
	for _, word := range []string{
		"carbon_footprint", "recycling", "emission", "landfill", "solar", "turbine",
	} {
		if vec, ok := vectors[word]; ok {
			require.NoError(t, model.Add(word, vec))
		}
	}
	return model
}

func TestExpandCategory_TopNAndOrdering(t *testing.T) {
	model := toyModel(t, map[string][]float32{
		"carbon_footprint": {1, 0},
		"emission":         {0.95, 0.3122},
		"landfill":         {0, 1},
		"solar":            {0.7, 0.7141},
		"recycling":        {0.2, 0.9798},
	})
	expander := NewExpander(model, 3)
	candidates, err := expander.ExpandCategory(Category{
		Name:  "Climate",
		Terms: []string{"carbon_footprint", "not_in_vocabulary"},
	})
	require.NoError(t, err)
	require.Len(t, candidates, 3, "at most topN candidates")

	assert.Equal(t, "carbon_footprint", candidates[0].Word, "seed is its own closest neighbor")
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score,
			"output sorted descending by score")
	}
}

func TestExpandCategory_MaxAcrossSeeds(t *testing.T) {
	model := toyModel(t, map[string][]float32{
		"carbon_footprint": {1, 0},
		"recycling":        {0, 1},
		"emission":         {0.9, 0.4359},
		"landfill":         {0.4359, 0.9},
	})
	expander := NewExpander(model, 4)
	candidates, err := expander.ExpandCategory(Category{
		Name:  "Everything",
		Terms: []string{"carbon_footprint", "recycling"},
	})
	require.NoError(t, err)

	scores := map[string]float64{}
	for _, candidate := range candidates {
		scores[candidate.Word] = candidate.Score
	}
	// Element-wise max: both seeds score 1.0 against themselves, and each
	// neighbor keeps the similarity to its closer seed.
	assert.InDelta(t, 1.0, scores["carbon_footprint"], 1e-6)
	assert.InDelta(t, 1.0, scores["recycling"], 1e-6)
	assert.InDelta(t, 0.9, scores["emission"], 1e-3)
	assert.InDelta(t, 0.9, scores["landfill"], 1e-3)
}

func TestExpandCategory_NoUsableSeeds(t *testing.T) {
	model := toyModel(t, map[string][]float32{"emission": {1, 0}})
	expander := NewExpander(model, 10)
	_, err := expander.ExpandCategory(Category{Name: "Empty", Terms: []string{"missing"}})
	assert.ErrorIs(t, err, ErrNoSeeds)
}

func TestExpandAll_SkipsDeadCategoryOnly(t *testing.T) {
	model := toyModel(t, map[string][]float32{
		"carbon_footprint": {1, 0},
		"emission":         {0.9, 0.4359},
	})
	expander := NewExpander(model, 2)
	expansions := expander.ExpandAll(&Seeds{Categories: []Category{
		{Name: "Dead", Terms: []string{"nope"}},
		{Name: "Climate", Terms: []string{"carbon_footprint"}},
	}})
	require.Len(t, expansions, 1)
	assert.Equal(t, "Climate", expansions[0].Category)
}

func TestSelectTopN(t *testing.T) {
	scores := []float32{0.1, 0.9, 0.3, 0.7, 0.5}

	top := selectTopN(scores, 3)
	require.Equal(t, []int{1, 3, 4}, top)

	assert.Len(t, selectTopN(scores, 99), len(scores), "n larger than input")
	assert.Empty(t, selectTopN(scores, 0))
}
