package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultEngineConfig())
	require.NoError(t, err)
	return e
}

func facadeCatalog() []model.Beverage {
	return []model.Beverage{
		{ID: "w1", Name: "Estate Cabernet", Category: model.CategoryWine, Type: "red", Price: 45, Flavor: fp(5, 1, 4, 3), FoodPairings: []string{"Steak", "Lamb"}, Featured: true, InStock: true},
		{ID: "w2", Name: "Valley Merlot", Category: model.CategoryWine, Type: "red", Price: 28, Flavor: fp(3, 2, 3, 3), FoodPairings: []string{"Pasta", "Pizza"}, InStock: true},
		{ID: "w3", Name: "Coastal Riesling", Category: model.CategoryWine, Type: "white", Price: 22, Flavor: fp(2, 4, 1, 4), FoodPairings: []string{"Seafood", "Spicy food"}, InStock: true},
		{ID: "w4", Name: "Sold Out Syrah", Category: model.CategoryWine, Type: "red", Price: 35, Flavor: fp(4, 1, 4, 3), InStock: false},
		{ID: "s1", Name: "Highland Single Malt", Category: model.CategorySpirit, Type: "whisky", Price: 80, Flavor: fp(4, 2, 1, 2), InStock: true},
		{ID: "n1", Name: "Sparkling Citrus Tonic", Category: model.CategoryNonAlcoholic, Type: "tonic", Price: 6, Flavor: fp(1, 3, 1, 4), InStock: true},
	}
}

func TestEngineNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MinScore = -5
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestResolveProfileExplicitWins(t *testing.T) {
	e := testEngine(t)
	explicit := &model.PreferenceProfile{
		PreferredTypes: []string{"white"},
		Flavor:         model.FlavorProfile{Body: 2, Sweetness: 4, Tannins: 1, Acidity: 4},
	}
	snap := Snapshot{Catalog: facadeCatalog(), Favorites: []string{"w1"}, Preferences: explicit}

	profile, err := e.ResolveProfile(snap)
	require.NoError(t, err)
	assert.Equal(t, *explicit, profile)
}

func TestResolveProfileInvalidExplicitFailsFast(t *testing.T) {
	e := testEngine(t)

	t.Run("flavor attribute out of range", func(t *testing.T) {
		snap := Snapshot{Preferences: &model.PreferenceProfile{Flavor: model.FlavorProfile{Body: 0, Sweetness: 2, Tannins: 3, Acidity: 3}}}
		_, err := e.ResolveProfile(snap)
		assert.Error(t, err)
	})

	t.Run("negative price range", func(t *testing.T) {
		snap := Snapshot{Preferences: &model.PreferenceProfile{
			Flavor:     model.DefaultFlavorProfile(),
			PriceRange: &model.PriceRange{Min: -10, Max: 50},
		}}
		_, err := e.ResolveProfile(snap)
		assert.Error(t, err)
	})
}

func TestResolveProfileLearnsWhenNoExplicit(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{Catalog: facadeCatalog(), Favorites: []string{"w1", "w2"}}

	profile, err := e.ResolveProfile(snap)
	require.NoError(t, err)
	assert.Equal(t, []string{"red"}, profile.PreferredTypes)
	require.NotNil(t, profile.PriceRange)
}

func TestRecommend(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{
		Catalog:   facadeCatalog(),
		Favorites: []string{"w1"},
		Journal:   []model.JournalEntry{{BeverageID: "w2", Rating: 5}},
	}

	results, err := e.Recommend(snap)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	t.Run("sorted descending", func(t *testing.T) {
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("out of stock excluded", func(t *testing.T) {
		for _, r := range results {
			assert.NotEqual(t, "w4", r.Beverage.ID)
		}
	})

	t.Run("scores bounded", func(t *testing.T) {
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Score, 0)
			assert.LessOrEqual(t, r.Score, 100)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := e.Recommend(snap)
		require.NoError(t, err)
		assert.Equal(t, results, again)
	})
}

func TestTopPicks(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{Catalog: facadeCatalog(), Favorites: []string{"w1", "w2"}}

	all, err := e.Recommend(snap)
	require.NoError(t, err)

	picks, err := e.TopPicks(snap)
	require.NoError(t, err)

	limit := DefaultEngineConfig().TopPicksLimit
	if len(all) < limit {
		limit = len(all)
	}
	assert.Equal(t, all[:limit], picks)
}

func TestSimilar(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{Catalog: facadeCatalog()}

	t.Run("unknown beverage errors", func(t *testing.T) {
		_, err := e.Similar(snap, "nope")
		assert.Error(t, err)
	})

	t.Run("excludes the target and ranks same type first", func(t *testing.T) {
		results, err := e.Similar(snap, "w2")
		require.NoError(t, err)
		require.NotEmpty(t, results)
		for _, r := range results {
			assert.NotEqual(t, "w2", r.Beverage.ID)
		}
		assert.Equal(t, "red", results[0].Beverage.Type)
	})
}

func TestForOccasion(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{Catalog: facadeCatalog(), Favorites: []string{"w1"}}

	t.Run("unknown occasion errors", func(t *testing.T) {
		_, err := e.ForOccasion(snap, "picnic-on-mars")
		assert.Error(t, err)
	})

	t.Run("gift filters to wine and spirit", func(t *testing.T) {
		results, err := e.ForOccasion(snap, "gift")
		require.NoError(t, err)
		for _, r := range results {
			ok := r.Beverage.Category == model.CategoryWine || r.Beverage.Category == model.CategorySpirit
			assert.True(t, ok, "unexpected category %s", r.Beverage.Category)
		}
	})
}

func TestPairDishes(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{Catalog: facadeCatalog()}

	results, err := e.PairDishes(snap, []string{"Grilled Steak"})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "w1", results[0].Beverage.ID)
	assert.LessOrEqual(t, len(results), DefaultEngineConfig().PairingLimit)

	t.Run("out of stock excluded", func(t *testing.T) {
		for _, r := range results {
			assert.NotEqual(t, "w4", r.Beverage.ID)
		}
	})

	t.Run("empty selection yields nothing", func(t *testing.T) {
		none, err := e.PairDishes(snap, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestFeatured(t *testing.T) {
	e := testEngine(t)
	featured := e.Featured(Snapshot{Catalog: facadeCatalog()})
	require.Len(t, featured, 1)
	assert.Equal(t, "w1", featured[0].ID)
}
