package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cellarkeep/cellar-cli/internal/config"
	"github.com/cellarkeep/cellar-cli/internal/model"
)

// pairingCandidate carries the raw text score alongside the result so the
// final ordering can break confidence ties on textual evidence.
type pairingCandidate struct {
	result model.PairingResult
	raw    int
}

// ResolvePairings matches one or more selected dishes against the catalog
// and returns scored pairing candidates ordered by confidence, then raw
// text score, then catalog order. Beverages with neither a text-overlap
// match nor a flavor-based reason are excluded entirely.
func ResolvePairings(dishes []string, catalog []model.Beverage, tax *Taxonomy, cfg config.EngineConfig) []model.PairingResult {
	selected := make([]string, 0, len(dishes))
	for _, d := range dishes {
		if s := strings.TrimSpace(d); s != "" {
			selected = append(selected, s)
		}
	}
	if len(selected) == 0 {
		return nil
	}

	// Distinct dish categories across the whole selection: two dishes
	// mapping to the same category contribute its flavor fit once.
	var dishCategories []DishCategory
	seenCat := map[string]bool{}
	for _, dish := range selected {
		for _, cat := range tax.CategoriesForDish(dish) {
			if !seenCat[cat.ID] {
				seenCat[cat.ID] = true
				dishCategories = append(dishCategories, cat)
			}
		}
	}

	maxPossible := len(selected) * cfg.ExactMatchScore

	var candidates []pairingCandidate
	for _, b := range catalog {
		raw, matched := textOverlap(selected, b.FoodPairings, tax, cfg)
		flavorBonus, flavorReasons := flavorFit(b.FlavorOrDefault(), dishCategories, cfg)

		if raw == 0 && len(flavorReasons) == 0 {
			continue
		}

		var confidence int
		if raw > 0 {
			pct := float64(raw) / float64(maxPossible) * 100
			if pct > 100 {
				pct = 100
			}
			multi := 0
			if n := len(matched); n > 1 {
				multi = cfg.MultiMatchStep * n
				if multi > cfg.MultiMatchCap {
					multi = cfg.MultiMatchCap
				}
			}
			flavorTerm := 0.0
			if len(dishCategories) > 0 {
				flavorTerm = flavorBonus / float64(len(dishCategories))
			}
			confidence = clampScore(roundHalfUp(pct + float64(multi) + flavorTerm))
		} else {
			// Flavor-only matches are capped below text-matched items to
			// bias ranking toward direct textual evidence.
			confidence = len(flavorReasons) * cfg.FlavorOnlyStep
			if confidence > cfg.FlavorOnlyCap {
				confidence = cfg.FlavorOnlyCap
			}
		}

		var reasons []string
		for _, p := range matched {
			reasons = appendReason(reasons, fmt.Sprintf("Pairs well with %s", p))
		}
		for _, r := range flavorReasons {
			reasons = appendReason(reasons, r)
		}

		candidates = append(candidates, pairingCandidate{
			result: model.PairingResult{
				ScoredResult: model.ScoredResult{
					Beverage: b,
					Score:    confidence,
					Reasons:  reasons,
				},
				MatchedPairings: matched,
				FlavorReasons:   flavorReasons,
			},
			raw: raw,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].result.Score != candidates[j].result.Score {
			return candidates[i].result.Score > candidates[j].result.Score
		}
		return candidates[i].raw > candidates[j].raw
	})

	results := make([]model.PairingResult, len(candidates))
	for i, c := range candidates {
		results[i] = c.result
	}
	return results
}

// textOverlap accumulates the raw text-match score across all dish/pairing
// combinations. A single pairing string can satisfy several dishes, each
// satisfaction adding score, but it is recorded only once.
func textOverlap(dishes []string, pairings []string, tax *Taxonomy, cfg config.EngineConfig) (int, []string) {
	raw := 0
	var matched []string
	recorded := map[string]bool{}

	for _, dish := range dishes {
		for _, pairing := range pairings {
			kind := classifyPair(dish, pairing, tax)
			if kind == matchNone {
				continue
			}
			if kind == matchExact {
				raw += cfg.ExactMatchScore
			} else {
				raw += cfg.PartialMatchScore
			}
			key := strings.ToLower(pairing)
			if !recorded[key] {
				recorded[key] = true
				matched = append(matched, pairing)
			}
		}
	}
	return raw, matched
}

type matchKind int

const (
	matchNone matchKind = iota
	matchPartial
	matchExact
)

// classifyPair grades one dish against one pairing string. Exact means
// case-insensitive equality or containment either way. Partial means a
// word (longer than 2 runes) of one appears in the other, or the two map
// to a common dish category (so "Steak" still matches a "Beef" pairing).
func classifyPair(dish, pairing string, tax *Taxonomy) matchKind {
	d := strings.ToLower(strings.TrimSpace(dish))
	p := strings.ToLower(strings.TrimSpace(pairing))
	if d == "" || p == "" {
		return matchNone
	}

	if d == p || strings.Contains(d, p) || strings.Contains(p, d) {
		return matchExact
	}

	if wordOverlap(d, p) || wordOverlap(p, d) {
		return matchPartial
	}
	if sharesCategory(d, p, tax) {
		return matchPartial
	}
	return matchNone
}

// wordOverlap reports whether any word of a longer than 2 runes appears in b.
func wordOverlap(a, b string) bool {
	for _, w := range strings.Fields(a) {
		if len([]rune(w)) > 2 && strings.Contains(b, w) {
			return true
		}
	}
	return false
}

// sharesCategory reports whether two dish strings fall under at least one
// common taxonomy category.
func sharesCategory(a, b string, tax *Taxonomy) bool {
	catsA := tax.CategoriesForDish(a)
	if len(catsA) == 0 {
		return false
	}
	catsB := tax.CategoriesForDish(b)
	for _, ca := range catsA {
		for _, cb := range catsB {
			if ca.ID == cb.ID {
				return true
			}
		}
	}
	return false
}

// flavorFit computes the weighted category flavor bonus for a beverage. For
// each matched category every in-range attribute adds a quarter of the
// 0-100 sub-score, with a qualitative reason when the matched value sits at
// the extreme of the scale (>=4 or <=2). The returned bonus is the
// weight-scaled sum over categories; callers average it by category count.
func flavorFit(flavor model.FlavorProfile, categories []DishCategory, cfg config.EngineConfig) (float64, []string) {
	var bonus float64
	var reasons []string

	for _, cat := range categories {
		sub := 0
		if cat.Ideal.Body.Contains(flavor.Body) {
			sub += 25
			if flavor.Body >= 4 {
				reasons = appendReason(reasons, "Full body matches dish intensity")
			} else if flavor.Body <= 2 {
				reasons = appendReason(reasons, "Light body complements delicate flavors")
			}
		}
		if cat.Ideal.Acidity.Contains(flavor.Acidity) {
			sub += 25
			if flavor.Acidity >= 4 {
				reasons = appendReason(reasons, "Bright acidity cuts through richness")
			} else if flavor.Acidity <= 2 {
				reasons = appendReason(reasons, "Soft acidity keeps the pairing mellow")
			}
		}
		if cat.Ideal.Tannins.Contains(flavor.Tannins) {
			sub += 25
			if flavor.Tannins >= 4 {
				reasons = appendReason(reasons, "Firm tannins stand up to rich flavors")
			} else if flavor.Tannins <= 2 {
				reasons = appendReason(reasons, "Gentle tannins keep the pairing smooth")
			}
		}
		if cat.Ideal.Sweetness.Contains(flavor.Sweetness) {
			sub += 25
			if flavor.Sweetness >= 4 {
				reasons = appendReason(reasons, "Sweetness balances the dish")
			} else if flavor.Sweetness <= 2 {
				reasons = appendReason(reasons, "Dry style pairs cleanly")
			}
		}
		bonus += float64(sub) * cfg.FlavorFitWeight
	}

	return bonus, reasons
}
