// Package store persists the catalog, favorites, tasting journal, and the
// explicit preference profile. The matching engine never touches a store
// directly; callers load read-only snapshots from here and hand them over.
package store

import (
	"context"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

// CatalogFilter specifies criteria for listing beverages.
type CatalogFilter struct {
	Category    model.Category `json:"category,omitempty"`
	OnlyInStock bool           `json:"only_in_stock,omitempty"`
	Limit       int            `json:"limit,omitempty"`
	Offset      int            `json:"offset,omitempty"`
}

// Store defines the persistence interface behind the catalog app.
type Store interface {
	// Catalog
	UpsertBeverage(ctx context.Context, b model.Beverage) error
	GetBeverage(ctx context.Context, id string) (*model.Beverage, error)
	ListBeverages(ctx context.Context, filter CatalogFilter) ([]model.Beverage, error)

	// Favorites. ListFavorites preserves insertion order; the preference
	// learner depends on it for tie-breaking.
	AddFavorite(ctx context.Context, beverageID string) error
	RemoveFavorite(ctx context.Context, beverageID string) error
	ListFavorites(ctx context.Context) ([]string, error)

	// Journal, append-only.
	AddJournalEntry(ctx context.Context, entry model.JournalEntry) (*model.JournalEntry, error)
	ListJournal(ctx context.Context) ([]model.JournalEntry, error)

	// Explicit preferences. GetPreferences returns nil when the user has
	// never stored a profile, which signals "learn from behavior".
	SavePreferences(ctx context.Context, p model.PreferenceProfile) error
	GetPreferences(ctx context.Context) (*model.PreferenceProfile, error)
	ClearPreferences(ctx context.Context) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
