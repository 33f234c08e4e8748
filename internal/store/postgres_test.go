package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetBeverage_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, category, type, price, food_pairings, flavor, featured, in_stock`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetBeverage(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetBeverage_Found(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, category, type, price, food_pairings, flavor, featured, in_stock`).
		WithArgs("bev-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "type", "price", "food_pairings", "flavor", "featured", "in_stock"}).
			AddRow("bev-1", "Barolo", "wine", "red", 42.0,
				[]byte(`["Steak","Truffle"]`),
				[]byte(`{"body":5,"sweetness":1,"tannins":5,"acidity":4}`),
				true, true))

	got, err := s.GetBeverage(context.Background(), "bev-1")
	require.NoError(t, err)
	assert.Equal(t, "Barolo", got.Name)
	assert.Equal(t, model.CategoryWine, got.Category)
	assert.Equal(t, []string{"Steak", "Truffle"}, got.FoodPairings)
	require.NotNil(t, got.Flavor)
	assert.Equal(t, 5, got.Flavor.Tannins)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertBeverage(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("bev-1", "Barolo", "wine", "red", 42.0,
			pgxmock.AnyArg(), pgxmock.AnyArg(), true, true, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertBeverage(context.Background(), model.Beverage{
		ID:           "bev-1",
		Name:         "Barolo",
		Category:     model.CategoryWine,
		Type:         "red",
		Price:        42.0,
		FoodPairings: []string{"Steak"},
		Featured:     true,
		InStock:      true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertBeverage_Invalid(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	err := s.UpsertBeverage(context.Background(), model.Beverage{
		ID:       "bev-1",
		Name:     "Bad",
		Category: "soda",
	})
	require.Error(t, err)
}

func TestPostgresStore_ListBeverages(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM beverages`).
		WithArgs("", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "type", "price", "food_pairings", "flavor", "featured", "in_stock"}).
			AddRow("bev-1", "Amber Ale", "beer", "ale", 8.0, []byte(`[]`), []byte(nil), false, true).
			AddRow("bev-2", "Barolo", "wine", "red", 42.0, []byte(`["Steak"]`), []byte(nil), true, true))

	got, err := s.ListBeverages(context.Background(), CatalogFilter{OnlyInStock: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Amber Ale", got[0].Name)
	assert.Nil(t, got[0].Flavor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Favorites(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO favorites`).
		WithArgs("bev-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT beverage_id FROM favorites ORDER BY position`).
		WillReturnRows(pgxmock.NewRows([]string{"beverage_id"}).AddRow("bev-1"))

	require.NoError(t, s.AddFavorite(context.Background(), "bev-1"))
	ids, err := s.ListFavorites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bev-1"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RemoveFavorite_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM favorites`).
		WithArgs("bev-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.RemoveFavorite(context.Background(), "bev-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AddJournalEntry(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO journal_entries`).
		WithArgs(pgxmock.AnyArg(), "bev-1", "red", "wine", 5, "silky", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	got, err := s.AddJournalEntry(context.Background(), model.JournalEntry{
		BeverageID:   "bev-1",
		BeverageType: "red",
		Category:     model.CategoryWine,
		Rating:       5,
		Notes:        "silky",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPreferences_None(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT profile FROM preferences`).
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetPreferences(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SavePreferences(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO preferences`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SavePreferences(context.Background(), model.PreferenceProfile{
		PreferredTypes: []string{"red"},
		Flavor:         model.FlavorProfile{Body: 4, Sweetness: 2, Tannins: 4, Acidity: 3},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
