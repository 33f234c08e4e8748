package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// PriceRange bounds the prices a user is comfortable with.
type PriceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Validate rejects negative or inverted ranges. These are programming
// errors, not degraded input.
func (r PriceRange) Validate() error {
	if r.Min < 0 || r.Max < 0 {
		return eris.Errorf("model: price range must be non-negative, got [%.2f, %.2f]", r.Min, r.Max)
	}
	if r.Max < r.Min {
		return eris.Errorf("model: price range max %.2f below min %.2f", r.Max, r.Min)
	}
	return nil
}

// Contains reports whether price falls within the range, inclusive.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// PreferenceProfile is the comparison target used by the match scorer.
// It is either explicit (user-entered) or learned from favorites and
// journal history; the engine treats both identically.
type PreferenceProfile struct {
	// PreferredTypes is ordered most-favored first. At most 3 entries.
	PreferredTypes   []string    `json:"preferred_types,omitempty" yaml:"preferred_types,omitempty"`
	PriceRange       *PriceRange `json:"price_range,omitempty" yaml:"price_range,omitempty"`
	Flavor           FlavorProfile `json:"flavor_profile" yaml:"flavor_profile"`
	AvoidHighTannins bool        `json:"avoid_high_tannins" yaml:"avoid_high_tannins"`
}

// Validate checks the fail-fast invariants for an explicit profile.
func (p PreferenceProfile) Validate() error {
	if err := p.Flavor.Validate(); err != nil {
		return err
	}
	if p.PriceRange != nil {
		if err := p.PriceRange.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// JournalEntry records one tasting. Rating 1-5. Entries rated >= 4
// contribute positively to learned preferences; <= 2 penalize the beverage
// when it is scored again.
type JournalEntry struct {
	ID           string    `json:"id"`
	BeverageID   string    `json:"beverage_id,omitempty"`
	BeverageType string    `json:"beverage_type,omitempty"`
	Category     Category  `json:"category,omitempty"`
	Rating       int       `json:"rating"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks journal invariants on write.
func (e JournalEntry) Validate() error {
	if e.Rating < 1 || e.Rating > 5 {
		return eris.Errorf("model: journal rating must be in [1,5], got %d", e.Rating)
	}
	return nil
}

// Positive reports whether the entry counts as a positive taste signal.
func (e JournalEntry) Positive() bool { return e.Rating >= 4 }

// Negative reports whether the entry penalizes future scoring.
func (e JournalEntry) Negative() bool { return e.Rating <= 2 }
