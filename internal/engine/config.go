// Package engine implements flavor-profile matching and recommendation for
// the beverage catalog: learning a preference profile from user history,
// scoring catalog items against it, resolving dish pairings, and ranking.
//
// Every function is a pure computation over immutable snapshots. The engine
// performs no I/O, holds no state across calls, and never mutates its
// inputs; concurrent invocations are safe without locks.
package engine

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/cellarkeep/cellar-cli/internal/config"
)

// DefaultEngineConfig returns the engine constants used in production.
func DefaultEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		// Match scorer signals.
		TypeMatchBonus:        25,
		PriceFitBonus:         15,
		ValueBonus:            5,
		FlavorBase:            30,
		FlavorSlope:           3,
		FlavorReasonThreshold: 24,
		TanninPenalty:         20,
		HighTanninThreshold:   4,
		FavoriteBonus:         10,
		JournalBonus:          15,
		FeaturedBonus:         5,
		SimilarBonus:          10,

		// Dish pairing.
		ExactMatchScore:   30,
		PartialMatchScore: 15,
		MultiMatchStep:    5,
		MultiMatchCap:     15,
		FlavorFitWeight:   0.3,
		FlavorOnlyStep:    20,
		FlavorOnlyCap:     60,

		// Ranking.
		MinScore:       20,
		RecommendLimit: 10,
		TopPicksLimit:  3,
		PairingLimit:   8,

		// Learning.
		MaxPreferredTypes:  3,
		LearnedPriceSpread: 0.3,
	}
}

// ValidateConfig checks that an EngineConfig is internally consistent.
func ValidateConfig(c config.EngineConfig) error {
	var errs []string

	bonuses := map[string]int{
		"type_match_bonus":   c.TypeMatchBonus,
		"price_fit_bonus":    c.PriceFitBonus,
		"value_bonus":        c.ValueBonus,
		"flavor_base":        c.FlavorBase,
		"flavor_slope":       c.FlavorSlope,
		"tannin_penalty":     c.TanninPenalty,
		"favorite_bonus":     c.FavoriteBonus,
		"journal_bonus":      c.JournalBonus,
		"featured_bonus":     c.FeaturedBonus,
		"similar_bonus":      c.SimilarBonus,
		"exact_match_score":  c.ExactMatchScore,
		"partial_match_score": c.PartialMatchScore,
		"multi_match_step":   c.MultiMatchStep,
		"multi_match_cap":    c.MultiMatchCap,
		"flavor_only_step":   c.FlavorOnlyStep,
		"flavor_only_cap":    c.FlavorOnlyCap,
	}
	for name, v := range bonuses {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if c.HighTanninThreshold < 1 || c.HighTanninThreshold > 5 {
		errs = append(errs, "high_tannin_threshold must be in [1,5]")
	}
	if c.FlavorFitWeight < 0 || c.FlavorFitWeight > 1 {
		errs = append(errs, "flavor_fit_weight must be in [0,1]")
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		errs = append(errs, "min_score must be between 0 and 100")
	}
	if c.RecommendLimit < 0 || c.PairingLimit < 0 {
		errs = append(errs, "limits must be >= 0")
	}
	if c.TopPicksLimit > c.RecommendLimit {
		errs = append(errs, "top_picks_limit must not exceed recommend_limit")
	}
	if c.MaxPreferredTypes < 1 {
		errs = append(errs, "max_preferred_types must be >= 1")
	}
	if c.LearnedPriceSpread < 0 || c.LearnedPriceSpread >= 1 {
		errs = append(errs, "learned_price_spread must be in [0,1)")
	}

	if len(errs) > 0 {
		return eris.Errorf("engine: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
