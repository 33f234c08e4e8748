package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

func fp(body, sweetness, tannins, acidity int) *model.FlavorProfile {
	return &model.FlavorProfile{Body: body, Sweetness: sweetness, Tannins: tannins, Acidity: acidity}
}

func TestScoreBeveragePerfectMatch(t *testing.T) {
	cfg := DefaultEngineConfig()
	b := model.Beverage{
		ID: "b1", Name: "House Red", Category: model.CategoryWine,
		Type: "red", Price: 40, Flavor: fp(3, 2, 3, 3), InStock: true,
	}
	profile := model.PreferenceProfile{
		PreferredTypes: []string{"red"},
		PriceRange:     &model.PriceRange{Min: 0, Max: 50},
		Flavor:         model.FlavorProfile{Body: 3, Sweetness: 2, Tannins: 3, Acidity: 3},
	}

	result := ScoreBeverage(b, profile, ScoreContext{}, cfg)

	// type(+25) + price(+15, no reason) + flavor(+30 at distance 0)
	assert.Equal(t, 70, result.Score)
	assert.Equal(t, []string{
		"Matches your preferred red style",
		"Matches your flavor preferences",
	}, result.Reasons)
}

func TestScoreBeverageHighTanninPenalty(t *testing.T) {
	cfg := DefaultEngineConfig()
	b := model.Beverage{
		ID: "b1", Type: "red", Price: 40,
		Flavor: fp(3, 2, 5, 3), InStock: true,
	}
	profile := model.PreferenceProfile{
		PreferredTypes:   []string{"red"},
		PriceRange:       &model.PriceRange{Min: 0, Max: 50},
		Flavor:           model.FlavorProfile{Body: 3, Sweetness: 2, Tannins: 5, Acidity: 3},
		AvoidHighTannins: true,
	}

	result := ScoreBeverage(b, profile, ScoreContext{}, cfg)

	// Would be 70 without the -20 tannin penalty.
	assert.Equal(t, 50, result.Score)
}

func TestScoreBeverageSignals(t *testing.T) {
	cfg := DefaultEngineConfig()
	base := model.PreferenceProfile{Flavor: model.DefaultFlavorProfile()}

	tests := []struct {
		name       string
		beverage   model.Beverage
		profile    model.PreferenceProfile
		sc         ScoreContext
		wantScore  int
		wantReason string
	}{
		{
			name:       "value option below price range",
			beverage:   model.Beverage{ID: "b1", Type: "white", Price: 12, Flavor: fp(1, 5, 1, 5)},
			profile:    model.PreferenceProfile{PriceRange: &model.PriceRange{Min: 20, Max: 60}, Flavor: model.FlavorProfile{Body: 5, Sweetness: 1, Tannins: 5, Acidity: 1}},
			wantScore:  5,
			wantReason: "Great value option",
		},
		{
			name:       "favorite bonus",
			beverage:   model.Beverage{ID: "b1", Type: "stout", Flavor: fp(1, 5, 1, 5)},
			profile:    model.PreferenceProfile{Flavor: model.FlavorProfile{Body: 5, Sweetness: 1, Tannins: 5, Acidity: 1}},
			sc:         ScoreContext{IsFavorite: true},
			wantScore:  10,
			wantReason: "One of your favorites",
		},
		{
			name:       "positive journal rating",
			beverage:   model.Beverage{ID: "b1", Type: "gin", Flavor: fp(1, 5, 1, 5)},
			profile:    model.PreferenceProfile{Flavor: model.FlavorProfile{Body: 5, Sweetness: 1, Tannins: 5, Acidity: 1}},
			sc:         ScoreContext{JournalRating: 5},
			wantScore:  15,
			wantReason: "You rated this 5/5",
		},
		{
			name:       "featured staff pick",
			beverage:   model.Beverage{ID: "b1", Type: "cider", Featured: true, Flavor: fp(1, 5, 1, 5)},
			profile:    model.PreferenceProfile{Flavor: model.FlavorProfile{Body: 5, Sweetness: 1, Tannins: 5, Acidity: 1}},
			wantScore:  5,
			wantReason: "Staff pick",
		},
		{
			name:     "similar to other favorites",
			beverage: model.Beverage{ID: "b1", Type: "red", Flavor: fp(1, 5, 1, 5)},
			profile:  model.PreferenceProfile{Flavor: model.FlavorProfile{Body: 5, Sweetness: 1, Tannins: 5, Acidity: 1}},
			sc: ScoreContext{OtherFavorites: []model.Beverage{
				{ID: "b2", Type: "red"},
			}},
			wantScore:  10,
			wantReason: "Similar to wines you love",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreBeverage(tt.beverage, tt.profile, tt.sc, cfg)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Contains(t, result.Reasons, tt.wantReason)
		})
	}

	t.Run("negative journal rating has no reason", func(t *testing.T) {
		b := model.Beverage{ID: "b1", Type: "red", Flavor: fp(3, 2, 3, 3)}
		result := ScoreBeverage(b, base, ScoreContext{JournalRating: 1}, cfg)
		// flavor(+30) - journal(15)
		assert.Equal(t, 15, result.Score)
		assert.NotContains(t, result.Reasons, "You rated this 1/5")
	})

	t.Run("same favorite id does not count as similar", func(t *testing.T) {
		b := model.Beverage{ID: "b1", Type: "red", Flavor: fp(1, 5, 1, 5)}
		profile := model.PreferenceProfile{Flavor: model.FlavorProfile{Body: 5, Sweetness: 1, Tannins: 5, Acidity: 1}}
		result := ScoreBeverage(b, profile, ScoreContext{
			OtherFavorites: []model.Beverage{{ID: "b1", Type: "red"}},
		}, cfg)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("missing price contributes zero", func(t *testing.T) {
		b := model.Beverage{ID: "b1", Type: "red", Flavor: fp(1, 5, 1, 5)}
		profile := model.PreferenceProfile{
			PriceRange: &model.PriceRange{Min: 0, Max: 50},
			Flavor:     model.FlavorProfile{Body: 5, Sweetness: 1, Tannins: 5, Acidity: 1},
		}
		result := ScoreBeverage(b, profile, ScoreContext{}, cfg)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("missing flavor profile falls back to default", func(t *testing.T) {
		b := model.Beverage{ID: "b1", Type: "red"}
		profile := model.PreferenceProfile{Flavor: model.DefaultFlavorProfile()}
		result := ScoreBeverage(b, profile, ScoreContext{}, cfg)
		assert.Equal(t, 30, result.Score)
	})
}

func TestScoreBeverageBounded(t *testing.T) {
	cfg := DefaultEngineConfig()

	t.Run("everything positive clamps at 100", func(t *testing.T) {
		b := model.Beverage{
			ID: "b1", Type: "red", Price: 30, Featured: true,
			Flavor: fp(3, 2, 3, 3),
		}
		profile := model.PreferenceProfile{
			PreferredTypes: []string{"red"},
			PriceRange:     &model.PriceRange{Min: 0, Max: 50},
			Flavor:         model.FlavorProfile{Body: 3, Sweetness: 2, Tannins: 3, Acidity: 3},
		}
		sc := ScoreContext{
			IsFavorite:     true,
			JournalRating:  5,
			OtherFavorites: []model.Beverage{{ID: "b2", Type: "red"}},
		}
		result := ScoreBeverage(b, profile, sc, cfg)
		assert.Equal(t, 100, result.Score)
	})

	t.Run("everything negative clamps at 0", func(t *testing.T) {
		b := model.Beverage{ID: "b1", Type: "red", Flavor: fp(5, 1, 5, 1)}
		profile := model.PreferenceProfile{
			Flavor:           model.FlavorProfile{Body: 1, Sweetness: 5, Tannins: 1, Acidity: 5},
			AvoidHighTannins: true,
		}
		result := ScoreBeverage(b, profile, ScoreContext{JournalRating: 1}, cfg)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("grid of profiles stays in range", func(t *testing.T) {
		profile := model.PreferenceProfile{
			PreferredTypes:   []string{"red"},
			PriceRange:       &model.PriceRange{Min: 10, Max: 50},
			Flavor:           model.FlavorProfile{Body: 3, Sweetness: 3, Tannins: 3, Acidity: 3},
			AvoidHighTannins: true,
		}
		for body := 1; body <= 5; body++ {
			for tannins := 1; tannins <= 5; tannins++ {
				b := model.Beverage{ID: "b1", Type: "red", Price: 5, Flavor: fp(body, 1, tannins, 5), Featured: true}
				result := ScoreBeverage(b, profile, ScoreContext{JournalRating: 2}, DefaultEngineConfig())
				assert.GreaterOrEqual(t, result.Score, 0)
				assert.LessOrEqual(t, result.Score, 100)
			}
		}
	})
}

func TestScoreBeverageFlavorDistanceMonotonic(t *testing.T) {
	cfg := DefaultEngineConfig()
	profile := model.PreferenceProfile{Flavor: model.FlavorProfile{Body: 3, Sweetness: 3, Tannins: 3, Acidity: 3}}

	prev := 101
	// Walk body away from the profile target; score must never increase.
	for _, body := range []int{3, 4, 5} {
		b := model.Beverage{ID: "b1", Flavor: fp(body, 3, 3, 3)}
		result := ScoreBeverage(b, profile, ScoreContext{}, cfg)
		assert.LessOrEqual(t, result.Score, prev)
		prev = result.Score
	}
}

func TestScoreBeverageDeterministic(t *testing.T) {
	cfg := DefaultEngineConfig()
	b := model.Beverage{ID: "b1", Type: "red", Price: 25, Featured: true, Flavor: fp(4, 2, 4, 3)}
	profile := model.PreferenceProfile{
		PreferredTypes: []string{"red", "white"},
		PriceRange:     &model.PriceRange{Min: 10, Max: 40},
		Flavor:         model.FlavorProfile{Body: 4, Sweetness: 2, Tannins: 3, Acidity: 3},
	}
	sc := ScoreContext{IsFavorite: true, JournalRating: 4, OtherFavorites: []model.Beverage{{ID: "b2", Type: "red"}}}

	first := ScoreBeverage(b, profile, sc, cfg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreBeverage(b, profile, sc, cfg))
	}
}

func TestScoreBeverageNoDuplicateReasons(t *testing.T) {
	cfg := DefaultEngineConfig()
	b := model.Beverage{ID: "b1", Type: "red", Price: 25, Featured: true, Flavor: fp(3, 2, 3, 3)}
	profile := model.PreferenceProfile{
		PreferredTypes: []string{"red"},
		PriceRange:     &model.PriceRange{Min: 10, Max: 40},
		Flavor:         model.FlavorProfile{Body: 3, Sweetness: 2, Tannins: 3, Acidity: 3},
	}
	sc := ScoreContext{IsFavorite: true, JournalRating: 5, OtherFavorites: []model.Beverage{{ID: "b2", Type: "red"}}}

	result := ScoreBeverage(b, profile, sc, cfg)
	require.NotEmpty(t, result.Reasons)

	seen := map[string]bool{}
	for _, r := range result.Reasons {
		assert.False(t, seen[r], "duplicate reason: %s", r)
		seen[r] = true
	}
}
