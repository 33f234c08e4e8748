package model

import (
	"github.com/rotisserie/eris"
)

// Category groups beverages at the top level of the catalog.
type Category string

const (
	CategoryWine         Category = "wine"
	CategoryBeer         Category = "beer"
	CategorySpirit       Category = "spirit"
	CategoryCocktail     Category = "cocktail"
	CategoryNonAlcoholic Category = "non-alcoholic"
)

// Categories lists all valid catalog categories.
func Categories() []Category {
	return []Category{
		CategoryWine, CategoryBeer, CategorySpirit,
		CategoryCocktail, CategoryNonAlcoholic,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// FlavorProfile is the 4-dimensional flavor vector all matching operates
// over. Each attribute is on a closed 1-5 scale.
type FlavorProfile struct {
	Body      int `json:"body" yaml:"body"`
	Sweetness int `json:"sweetness" yaml:"sweetness"`
	Tannins   int `json:"tannins" yaml:"tannins"`
	Acidity   int `json:"acidity" yaml:"acidity"`
}

// DefaultFlavorProfile is substituted for beverages that carry no profile.
func DefaultFlavorProfile() FlavorProfile {
	return FlavorProfile{Body: 3, Sweetness: 2, Tannins: 3, Acidity: 3}
}

// Validate checks that every attribute is within [1,5]. An out-of-range
// attribute is a programming error on the caller's side, not a degraded
// input, so it fails fast.
func (p FlavorProfile) Validate() error {
	attrs := map[string]int{
		"body":      p.Body,
		"sweetness": p.Sweetness,
		"tannins":   p.Tannins,
		"acidity":   p.Acidity,
	}
	for name, v := range attrs {
		if v < 1 || v > 5 {
			return eris.Errorf("model: flavor attribute %s must be in [1,5], got %d", name, v)
		}
	}
	return nil
}

// L1Distance returns the sum of absolute per-attribute differences between
// two flavor vectors. Range 0-16.
func (p FlavorProfile) L1Distance(o FlavorProfile) int {
	return absInt(p.Body-o.Body) +
		absInt(p.Sweetness-o.Sweetness) +
		absInt(p.Tannins-o.Tannins) +
		absInt(p.Acidity-o.Acidity)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Beverage is a read-only catalog snapshot entry. The engine never mutates
// it; ownership of the underlying record stays with the store.
type Beverage struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Category     Category       `json:"category" yaml:"category"`
	Type         string         `json:"type" yaml:"type"`
	Price        float64        `json:"price" yaml:"price"`
	FoodPairings []string       `json:"food_pairings,omitempty" yaml:"food_pairings,omitempty"`
	Flavor       *FlavorProfile `json:"flavor_profile,omitempty" yaml:"flavor_profile,omitempty"`
	Featured     bool           `json:"featured" yaml:"featured"`
	InStock      bool           `json:"in_stock" yaml:"in_stock"`
}

// FlavorOrDefault returns the beverage's flavor profile, or the default
// profile when none is attached.
func (b Beverage) FlavorOrDefault() FlavorProfile {
	if b.Flavor != nil {
		return *b.Flavor
	}
	return DefaultFlavorProfile()
}

// Validate checks catalog invariants on import.
func (b Beverage) Validate() error {
	if b.ID == "" {
		return eris.New("model: beverage id is required")
	}
	if b.Name == "" {
		return eris.Errorf("model: beverage %s has no name", b.ID)
	}
	if !b.Category.Valid() {
		return eris.Errorf("model: beverage %s has unknown category %q", b.ID, b.Category)
	}
	if b.Price < 0 {
		return eris.Errorf("model: beverage %s has negative price", b.ID)
	}
	if b.Flavor != nil {
		if err := b.Flavor.Validate(); err != nil {
			return eris.Wrapf(err, "model: beverage %s", b.ID)
		}
	}
	return nil
}
