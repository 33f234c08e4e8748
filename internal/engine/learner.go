package engine

import (
	"sort"

	"github.com/cellarkeep/cellar-cli/internal/config"
	"github.com/cellarkeep/cellar-cli/internal/model"
)

// LearnedPreferences is the raw output of preference learning. AvgFlavor is
// nil when no qualifying beverage carried a flavor profile, and AvgPrice is
// nil when none carried a price; both mean "no signal", not an error.
type LearnedPreferences struct {
	PreferredTypes []string
	AvgFlavor      *model.FlavorProfile
	AvgPrice       *int
}

// Learn derives implicit preferences from a user's favorites and
// positively-rated journal entries. Favorites are processed before journal
// entries; references to beverages no longer in the catalog are skipped
// silently. Nothing is mutated.
func Learn(favorites []string, journal []model.JournalEntry, catalog []model.Beverage, cfg config.EngineConfig) LearnedPreferences {
	byID := make(map[string]*model.Beverage, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	type typeTally struct {
		count     int
		firstSeen int
	}
	tally := make(map[string]*typeTally)
	seen := 0

	var (
		flavorSum   [4]int
		flavorCount int
		priceSum    float64
		priceCount  int
	)

	observe := func(b *model.Beverage) {
		if b.Type != "" {
			t, ok := tally[b.Type]
			if !ok {
				t = &typeTally{firstSeen: seen}
				tally[b.Type] = t
			}
			t.count++
		}
		seen++

		if b.Flavor != nil {
			flavorSum[0] += b.Flavor.Body
			flavorSum[1] += b.Flavor.Sweetness
			flavorSum[2] += b.Flavor.Tannins
			flavorSum[3] += b.Flavor.Acidity
			flavorCount++
		}
		if b.Price > 0 {
			priceSum += b.Price
			priceCount++
		}
	}

	for _, id := range favorites {
		if b, ok := byID[id]; ok {
			observe(b)
		}
	}
	for _, entry := range journal {
		if !entry.Positive() {
			continue
		}
		if b, ok := byID[entry.BeverageID]; ok {
			observe(b)
		}
	}

	var learned LearnedPreferences

	types := make([]string, 0, len(tally))
	for t := range tally {
		types = append(types, t)
	}
	sort.SliceStable(types, func(i, j int) bool {
		ti, tj := tally[types[i]], tally[types[j]]
		if ti.count != tj.count {
			return ti.count > tj.count
		}
		return ti.firstSeen < tj.firstSeen
	})
	if len(types) > cfg.MaxPreferredTypes {
		types = types[:cfg.MaxPreferredTypes]
	}
	if len(types) > 0 {
		learned.PreferredTypes = types
	}

	if flavorCount > 0 {
		n := float64(flavorCount)
		learned.AvgFlavor = &model.FlavorProfile{
			Body:      roundHalfUp(float64(flavorSum[0]) / n),
			Sweetness: roundHalfUp(float64(flavorSum[1]) / n),
			Tannins:   roundHalfUp(float64(flavorSum[2]) / n),
			Acidity:   roundHalfUp(float64(flavorSum[3]) / n),
		}
	}
	if priceCount > 0 {
		avg := roundHalfUp(priceSum / float64(priceCount))
		learned.AvgPrice = &avg
	}

	return learned
}

// Profile converts learned preferences into a comparable PreferenceProfile,
// substituting the default flavor profile when no flavor signal exists and
// widening the average price into a band. An undefined average price yields
// no price constraint at all.
func (l LearnedPreferences) Profile(cfg config.EngineConfig) model.PreferenceProfile {
	p := model.PreferenceProfile{
		PreferredTypes: l.PreferredTypes,
		Flavor:         model.DefaultFlavorProfile(),
	}
	if l.AvgFlavor != nil {
		p.Flavor = *l.AvgFlavor
	}
	if l.AvgPrice != nil {
		avg := float64(*l.AvgPrice)
		p.PriceRange = &model.PriceRange{
			Min: avg * (1 - cfg.LearnedPriceSpread),
			Max: avg * (1 + cfg.LearnedPriceSpread),
		}
	}
	return p
}
