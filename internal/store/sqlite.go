package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS beverages (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL,
	type          TEXT NOT NULL DEFAULT '',
	price         REAL NOT NULL DEFAULT 0,
	food_pairings TEXT NOT NULL DEFAULT '[]',
	flavor        TEXT,
	featured      INTEGER NOT NULL DEFAULT 0,
	in_stock      INTEGER NOT NULL DEFAULT 1,
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS favorites (
	beverage_id TEXT PRIMARY KEY,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS journal_entries (
	id            TEXT PRIMARY KEY,
	beverage_id   TEXT,
	beverage_type TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	rating        INTEGER NOT NULL,
	notes         TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS preferences (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	profile    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_beverages_category ON beverages(category);
CREATE INDEX IF NOT EXISTS idx_journal_beverage_id ON journal_entries(beverage_id);
CREATE INDEX IF NOT EXISTS idx_journal_created_at ON journal_entries(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertBeverage(ctx context.Context, b model.Beverage) error {
	if err := b.Validate(); err != nil {
		return err
	}

	pairingsJSON, err := json.Marshal(b.FoodPairings)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal pairings")
	}
	var flavorJSON sql.NullString
	if b.Flavor != nil {
		raw, err := json.Marshal(b.Flavor)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal flavor")
		}
		flavorJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO beverages (id, name, category, type, price, food_pairings, flavor, featured, in_stock, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, category = excluded.category, type = excluded.type,
			price = excluded.price, food_pairings = excluded.food_pairings,
			flavor = excluded.flavor, featured = excluded.featured,
			in_stock = excluded.in_stock, updated_at = excluded.updated_at`,
		b.ID, b.Name, string(b.Category), b.Type, b.Price, string(pairingsJSON),
		flavorJSON, b.Featured, b.InStock, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert beverage %s", b.ID)
}

func (s *SQLiteStore) GetBeverage(ctx context.Context, id string) (*model.Beverage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, type, price, food_pairings, flavor, featured, in_stock
		 FROM beverages WHERE id = ?`, id)

	b, err := scanBeverage(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("beverage not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get beverage %s", id)
	}
	return b, nil
}

func (s *SQLiteStore) ListBeverages(ctx context.Context, filter CatalogFilter) ([]model.Beverage, error) {
	query := `SELECT id, name, category, type, price, food_pairings, flavor, featured, in_stock
	          FROM beverages WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.OnlyInStock {
		query += ` AND in_stock = 1`
	}
	query += ` ORDER BY name, id`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list beverages")
	}
	defer rows.Close()

	var beverages []model.Beverage
	for rows.Next() {
		b, err := scanBeverage(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan beverage")
		}
		beverages = append(beverages, *b)
	}
	return beverages, eris.Wrap(rows.Err(), "sqlite: list beverages iterate")
}

func (s *SQLiteStore) AddFavorite(ctx context.Context, beverageID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (beverage_id, created_at) VALUES (?, ?)
		 ON CONFLICT(beverage_id) DO NOTHING`,
		beverageID, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: add favorite %s", beverageID)
}

func (s *SQLiteStore) RemoveFavorite(ctx context.Context, beverageID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE beverage_id = ?`, beverageID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: remove favorite %s", beverageID)
	}
	return checkRowsAffected(res, "favorite", beverageID)
}

func (s *SQLiteStore) ListFavorites(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT beverage_id FROM favorites ORDER BY rowid`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list favorites")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan favorite")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: list favorites iterate")
}

func (s *SQLiteStore) AddJournalEntry(ctx context.Context, entry model.JournalEntry) (*model.JournalEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal_entries (id, beverage_id, beverage_type, category, rating, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.BeverageID, entry.BeverageType, string(entry.Category),
		entry.Rating, entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert journal entry")
	}
	return &entry, nil
}

func (s *SQLiteStore) ListJournal(ctx context.Context) ([]model.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, beverage_id, beverage_type, category, rating, notes, created_at
		 FROM journal_entries ORDER BY created_at, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list journal")
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		var e model.JournalEntry
		var category string
		if err := rows.Scan(&e.ID, &e.BeverageID, &e.BeverageType, &category, &e.Rating, &e.Notes, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan journal entry")
		}
		e.Category = model.Category(category)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list journal iterate")
}

func (s *SQLiteStore) SavePreferences(ctx context.Context, p model.PreferenceProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal preferences")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (id, profile, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`,
		string(profileJSON), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save preferences")
}

func (s *SQLiteStore) GetPreferences(ctx context.Context) (*model.PreferenceProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT profile FROM preferences WHERE id = 1`)

	var profileJSON string
	err := row.Scan(&profileJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get preferences")
	}

	var p model.PreferenceProfile
	if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal preferences")
	}
	return &p, nil
}

func (s *SQLiteStore) ClearPreferences(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE id = 1`)
	return eris.Wrap(err, "sqlite: clear preferences")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBeverage(row scannable) (*model.Beverage, error) {
	var b model.Beverage
	var category, pairingsJSON string
	var flavorJSON sql.NullString

	err := row.Scan(&b.ID, &b.Name, &category, &b.Type, &b.Price, &pairingsJSON, &flavorJSON, &b.Featured, &b.InStock)
	if err != nil {
		return nil, err
	}

	b.Category = model.Category(category)
	if err := json.Unmarshal([]byte(pairingsJSON), &b.FoodPairings); err != nil {
		return nil, eris.Wrap(err, "unmarshal pairings")
	}
	if flavorJSON.Valid {
		b.Flavor = &model.FlavorProfile{}
		if err := json.Unmarshal([]byte(flavorJSON.String), b.Flavor); err != nil {
			return nil, eris.Wrap(err, "unmarshal flavor")
		}
	}
	return &b, nil
}
