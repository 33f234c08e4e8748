package engine

import (
	"sort"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

// Select applies the threshold, sorts descending by score with ties kept in
// production order, and truncates to limit. It is a pure post-processing
// step: nothing is rescored, and applying it twice yields the same output.
// A limit <= 0 means no truncation.
func Select(scored []model.ScoredResult, minScore, limit int) []model.ScoredResult {
	kept := make([]model.ScoredResult, 0, len(scored))
	for _, s := range scored {
		if s.Score > minScore {
			kept = append(kept, s)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// Truncate caps an already-ordered pairing result list. Dish pairing
// enforces inclusion at resolution time, so no threshold applies here.
func Truncate(results []model.PairingResult, limit int) []model.PairingResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
