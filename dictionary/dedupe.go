package dictionary

import "sort"

// Dedupe assigns every candidate word to exactly one category: the one
// that reported the highest similarity for it. Equal scores break toward
// the lexicographically smaller category name, so the outcome never
// depends on traversal order. Surviving per-category lists are sorted
// descending by similarity; list sizes vary and are not renormalized.
func Dedupe(expansions []Expansion) []Expansion {
	type winner struct {
		category string
		score    float64
	}
	best := map[string]winner{}
	for _, expansion := range expansions {
		for _, candidate := range expansion.Candidates {
			current, seen := best[candidate.Word]
			if !seen ||
				candidate.Score > current.score ||
				(candidate.Score == current.score && expansion.Category < current.category) {
				best[candidate.Word] = winner{category: expansion.Category, score: candidate.Score}
			}
		}
	}

	byCategory := map[string][]Candidate{}
	for _, expansion := range expansions {
		for _, candidate := range expansion.Candidates {
			if best[candidate.Word].category != expansion.Category {
				continue
			}
			byCategory[expansion.Category] = append(byCategory[expansion.Category], candidate)
			// A word can be listed by its winning category only once.
			delete(best, candidate.Word)
		}
	}

	var out []Expansion
	emitted := map[string]struct{}{}
	for _, expansion := range expansions {
		// Duplicate category names collapse into one output entry at the
		// first-encounter position.
		if _, done := emitted[expansion.Category]; done {
			continue
		}
		emitted[expansion.Category] = struct{}{}
		survivors := byCategory[expansion.Category]
		if len(survivors) == 0 {
			continue
		}
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].Score > survivors[j].Score
		})
		out = append(out, Expansion{Category: expansion.Category, Candidates: survivors})
	}
	return out
}
