package dictionary

import (
	"errors"
	"log/slog"

	"github.com/esglex/esglex/embedding"
)

// DefaultTopN is the per-category candidate budget before deduplication.
const DefaultTopN = 50

// ErrNoSeeds indicates none of a category's seed terms were found in the
// model vocabulary.
var ErrNoSeeds = errors.New("dictionary: no seed terms in vocabulary")

// Candidate is one expanded word with its similarity to the closest seed.
type Candidate struct {
	Word  string
	Score float64
}

// Expansion is the ordered per-category candidate set.
type Expansion struct {
	Category   string
	Candidates []Candidate
}

// Expander finds the embedding-space neighbors of each category's seeds.
type Expander struct {
	model *embedding.Model
	topN  int
}

// NewExpander creates an Expander on a trained model. topN <= 0 selects
// DefaultTopN.
func NewExpander(model *embedding.Model, topN int) *Expander {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Expander{model: model, topN: topN}
}

// ExpandCategory returns up to topN vocabulary tokens ranked by their
// maximum similarity to any seed of the category. Seeds missing from the
// vocabulary are skipped with a warning; ErrNoSeeds is returned when none
// remain.
func (e *Expander) ExpandCategory(category Category) ([]Candidate, error) {
	var maxSims []float32
	found := 0
	for _, seed := range category.Terms {
		sims, ok := e.model.Similarities(seed)
		if !ok {
			slog.Warn("dictionary: seed term not in vocabulary",
				"category", category.Name, "seed", seed)
			continue
		}
		found++
		if maxSims == nil {
			maxSims = sims
			continue
		}
		// A token close to any seed in the category qualifies.
		for i, sim := range sims {
			if sim > maxSims[i] {
				maxSims[i] = sim
			}
		}
	}
	if found == 0 {
		return nil, ErrNoSeeds
	}

	top := selectTopN(maxSims, e.topN)
	candidates := make([]Candidate, 0, len(top))
	for _, idx := range top {
		candidates = append(candidates, Candidate{
			Word:  e.model.Word(idx),
			Score: float64(maxSims[idx]),
		})
	}
	return candidates, nil
}

// ExpandAll expands every category, skipping those with no usable seeds
// (logged as an error, other categories unaffected).
func (e *Expander) ExpandAll(seeds *Seeds) []Expansion {
	var expansions []Expansion
	for _, category := range seeds.Categories {
		candidates, err := e.ExpandCategory(category)
		if err != nil {
			slog.Error("dictionary: category skipped", "category", category.Name, "error", err)
			continue
		}
		expansions = append(expansions, Expansion{Category: category.Name, Candidates: candidates})
	}
	return expansions
}

// selectTopN returns the indices of the n largest scores, sorted by
// descending score. Selection is done with quickselect, so only the
// reported prefix is ever fully ordered.
func selectTopN(scores []float32, n int) []int {
	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	if n > len(indices) {
		n = len(indices)
	}
	if n == 0 {
		return nil
	}
	partialSelect(indices, scores, n)
	top := indices[:n]
	// Full ordering only over the selected prefix.
	insertionSortByScore(top, scores)
	return top
}

// partialSelect partitions indices so the n highest-scored entries occupy
// the prefix, in arbitrary order.
func partialSelect(indices []int, scores []float32, n int) {
	lo, hi := 0, len(indices)-1
	for lo < hi {
		pivot := scores[indices[(lo+hi)/2]]
		i, j := lo, hi
		for i <= j {
			for scores[indices[i]] > pivot {
				i++
			}
			for scores[indices[j]] < pivot {
				j--
			}
			if i <= j {
				indices[i], indices[j] = indices[j], indices[i]
				i++
				j--
			}
		}
		switch {
		case n <= j:
			hi = j
		case n >= i:
			lo = i
		default:
			return
		}
	}
}

func insertionSortByScore(indices []int, scores []float32) {
	for i := 1; i < len(indices); i++ {
		for j := i; j > 0 && scores[indices[j]] > scores[indices[j-1]]; j-- {
			indices[j], indices[j-1] = indices[j-1], indices[j]
		}
	}
}
