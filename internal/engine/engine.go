package engine

import (
	"go.uber.org/zap"

	"github.com/rotisserie/eris"

	"github.com/cellarkeep/cellar-cli/internal/config"
	"github.com/cellarkeep/cellar-cli/internal/model"
)

// Snapshot bundles the immutable inputs for one engine invocation. The
// caller owns snapshot freshness; the engine caches nothing across calls.
type Snapshot struct {
	Catalog   []model.Beverage
	Favorites []string
	Journal   []model.JournalEntry

	// Preferences is the explicit user profile. Nil means "no stored
	// profile": preferences are learned from favorites and journal.
	Preferences *model.PreferenceProfile
}

// Engine is the matching and recommendation facade consumed by the CLI and
// HTTP layers. It is stateless apart from its configuration and the static
// dish taxonomy.
type Engine struct {
	cfg config.EngineConfig
	tax *Taxonomy
}

// New validates the configuration, loads the embedded taxonomy, and returns
// a ready engine.
func New(cfg config.EngineConfig) (*Engine, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	tax, err := LoadTaxonomy()
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, tax: tax}, nil
}

// Taxonomy exposes the loaded dish taxonomy, mainly for presentation.
func (e *Engine) Taxonomy() *Taxonomy { return e.tax }

// ResolveProfile returns the explicit profile when one is stored, otherwise
// the profile learned from the snapshot. An invalid explicit profile is a
// programming error and fails fast.
func (e *Engine) ResolveProfile(snap Snapshot) (model.PreferenceProfile, error) {
	if snap.Preferences != nil {
		if err := snap.Preferences.Validate(); err != nil {
			return model.PreferenceProfile{}, eris.Wrap(err, "engine: explicit profile")
		}
		return *snap.Preferences, nil
	}
	learned := Learn(snap.Favorites, snap.Journal, snap.Catalog, e.cfg)
	return learned.Profile(e.cfg), nil
}

// Recommend scores every in-stock catalog item against the resolved
// preference profile and returns the ranked list.
func (e *Engine) Recommend(snap Snapshot) ([]model.ScoredResult, error) {
	profile, err := e.ResolveProfile(snap)
	if err != nil {
		return nil, err
	}

	scored := e.scoreCatalog(snap, profile, "")
	results := Select(scored, e.cfg.MinScore, e.cfg.RecommendLimit)

	zap.L().Debug("engine: recommendations computed",
		zap.Int("catalog", len(snap.Catalog)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// TopPicks returns the leading few recommendations.
func (e *Engine) TopPicks(snap Snapshot) ([]model.ScoredResult, error) {
	results, err := e.Recommend(snap)
	if err != nil {
		return nil, err
	}
	if len(results) > e.cfg.TopPicksLimit {
		results = results[:e.cfg.TopPicksLimit]
	}
	return results, nil
}

// Similar ranks the catalog against a pseudo-profile built from one
// beverage: same type preferred, its flavor vector as the target, and a
// price band around its price. The beverage itself is excluded.
func (e *Engine) Similar(snap Snapshot, beverageID string) ([]model.ScoredResult, error) {
	var target *model.Beverage
	for i := range snap.Catalog {
		if snap.Catalog[i].ID == beverageID {
			target = &snap.Catalog[i]
			break
		}
	}
	if target == nil {
		return nil, eris.Errorf("engine: beverage %s not in catalog", beverageID)
	}

	profile := model.PreferenceProfile{
		PreferredTypes: []string{target.Type},
		Flavor:         target.FlavorOrDefault(),
	}
	if target.Price > 0 {
		profile.PriceRange = &model.PriceRange{
			Min: target.Price * (1 - e.cfg.LearnedPriceSpread),
			Max: target.Price * (1 + e.cfg.LearnedPriceSpread),
		}
	}

	var scored []model.ScoredResult
	for _, b := range snap.Catalog {
		if !b.InStock || b.ID == beverageID {
			continue
		}
		scored = append(scored, ScoreBeverage(b, profile, ScoreContext{}, e.cfg))
	}
	return Select(scored, e.cfg.MinScore, e.cfg.RecommendLimit), nil
}

// ForOccasion applies the occasion pre-filter before scoring. Unknown
// occasion ids are an error; the valid ids come from the taxonomy table.
func (e *Engine) ForOccasion(snap Snapshot, occasionID string) ([]model.ScoredResult, error) {
	occ := e.tax.OccasionByID(occasionID)
	if occ == nil {
		return nil, eris.Errorf("engine: unknown occasion %q", occasionID)
	}

	profile, err := e.ResolveProfile(snap)
	if err != nil {
		return nil, err
	}

	filtered := snap
	filtered.Catalog = nil
	for _, b := range snap.Catalog {
		if occ.Matches(b) {
			filtered.Catalog = append(filtered.Catalog, b)
		}
	}

	scored := e.scoreCatalog(filtered, profile, "")
	return Select(scored, e.cfg.MinScore, e.cfg.RecommendLimit), nil
}

// PairDishes resolves beverage pairings for the selected dishes over the
// in-stock catalog.
func (e *Engine) PairDishes(snap Snapshot, dishes []string) ([]model.PairingResult, error) {
	available := make([]model.Beverage, 0, len(snap.Catalog))
	for _, b := range snap.Catalog {
		if b.InStock {
			available = append(available, b)
		}
	}

	results := ResolvePairings(dishes, available, e.tax, e.cfg)
	results = Truncate(results, e.cfg.PairingLimit)

	zap.L().Debug("engine: dish pairing computed",
		zap.Strings("dishes", dishes),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Featured lists the featured, in-stock catalog items. Derived purely from
// the snapshot on every call.
func (e *Engine) Featured(snap Snapshot) []model.Beverage {
	var featured []model.Beverage
	for _, b := range snap.Catalog {
		if b.Featured && b.InStock {
			featured = append(featured, b)
		}
	}
	return featured
}

// scoreCatalog scores every in-stock beverage in the snapshot, excluding
// excludeID, with the user's favorite and journal context attached.
func (e *Engine) scoreCatalog(snap Snapshot, profile model.PreferenceProfile, excludeID string) []model.ScoredResult {
	favoriteSet := make(map[string]bool, len(snap.Favorites))
	for _, id := range snap.Favorites {
		favoriteSet[id] = true
	}

	var favoriteBeverages []model.Beverage
	for _, b := range snap.Catalog {
		if favoriteSet[b.ID] {
			favoriteBeverages = append(favoriteBeverages, b)
		}
	}

	// Latest rating wins; the journal is append-only.
	latestRating := make(map[string]int)
	for _, entry := range snap.Journal {
		if entry.BeverageID != "" {
			latestRating[entry.BeverageID] = entry.Rating
		}
	}

	var scored []model.ScoredResult
	for _, b := range snap.Catalog {
		if !b.InStock || b.ID == excludeID {
			continue
		}
		scored = append(scored, ScoreBeverage(b, profile, ScoreContext{
			IsFavorite:     favoriteSet[b.ID],
			JournalRating:  latestRating[b.ID],
			OtherFavorites: favoriteBeverages,
		}, e.cfg))
	}
	return scored
}
