package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/cellarkeep/cellar-cli/internal/model"
	"github.com/cellarkeep/cellar-cli/internal/resilience"
)

// Pool is the subset of pgxpool.Pool the store uses. Tests substitute a mock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects to the given database URL and verifies the connection.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 8
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.OnRetry = resilience.RetryLogger("postgres", "ping")
	if err := resilience.Do(ctx, retryCfg, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS beverages (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL,
	type          TEXT NOT NULL DEFAULT '',
	price         DOUBLE PRECISION NOT NULL DEFAULT 0,
	food_pairings JSONB NOT NULL DEFAULT '[]',
	flavor        JSONB,
	featured      BOOLEAN NOT NULL DEFAULT FALSE,
	in_stock      BOOLEAN NOT NULL DEFAULT TRUE,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS favorites (
	position    BIGSERIAL,
	beverage_id TEXT PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS journal_entries (
	id            TEXT PRIMARY KEY,
	beverage_id   TEXT,
	beverage_type TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	rating        INTEGER NOT NULL,
	notes         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS preferences (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	profile    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_beverages_category ON beverages(category);
CREATE INDEX IF NOT EXISTS idx_journal_created_at ON journal_entries(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertBeverage(ctx context.Context, b model.Beverage) error {
	if err := b.Validate(); err != nil {
		return err
	}

	pairingsJSON, err := json.Marshal(b.FoodPairings)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal pairings")
	}
	var flavorJSON []byte
	if b.Flavor != nil {
		flavorJSON, err = json.Marshal(b.Flavor)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal flavor")
		}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO beverages (id, name, category, type, price, food_pairings, flavor, featured, in_stock, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, category = EXCLUDED.category, type = EXCLUDED.type,
			price = EXCLUDED.price, food_pairings = EXCLUDED.food_pairings,
			flavor = EXCLUDED.flavor, featured = EXCLUDED.featured,
			in_stock = EXCLUDED.in_stock, updated_at = EXCLUDED.updated_at`,
		b.ID, b.Name, string(b.Category), b.Type, b.Price, pairingsJSON,
		flavorJSON, b.Featured, b.InStock, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert beverage %s", b.ID)
}

func (s *PostgresStore) GetBeverage(ctx context.Context, id string) (*model.Beverage, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, category, type, price, food_pairings, flavor, featured, in_stock
		 FROM beverages WHERE id = $1`, id)

	b, err := scanPgBeverage(row)
	if err == pgx.ErrNoRows {
		return nil, eris.Errorf("beverage not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get beverage %s", id)
	}
	return b, nil
}

func (s *PostgresStore) ListBeverages(ctx context.Context, filter CatalogFilter) ([]model.Beverage, error) {
	query := `SELECT id, name, category, type, price, food_pairings, flavor, featured, in_stock
	          FROM beverages WHERE ($1 = '' OR category = $1) AND (NOT $2 OR in_stock)
	          ORDER BY name, id`
	args := []any{string(filter.Category), filter.OnlyInStock}

	if filter.Limit > 0 {
		query += ` LIMIT $3 OFFSET $4`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list beverages")
	}
	defer rows.Close()

	var beverages []model.Beverage
	for rows.Next() {
		b, err := scanPgBeverage(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan beverage")
		}
		beverages = append(beverages, *b)
	}
	return beverages, eris.Wrap(rows.Err(), "postgres: list beverages iterate")
}

func (s *PostgresStore) AddFavorite(ctx context.Context, beverageID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO favorites (beverage_id, created_at) VALUES ($1, $2)
		 ON CONFLICT (beverage_id) DO NOTHING`,
		beverageID, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: add favorite %s", beverageID)
}

func (s *PostgresStore) RemoveFavorite(ctx context.Context, beverageID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM favorites WHERE beverage_id = $1`, beverageID)
	if err != nil {
		return eris.Wrapf(err, "postgres: remove favorite %s", beverageID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("favorite not found: %s", beverageID)
	}
	return nil
}

func (s *PostgresStore) ListFavorites(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT beverage_id FROM favorites ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list favorites")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan favorite")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: list favorites iterate")
}

func (s *PostgresStore) AddJournalEntry(ctx context.Context, entry model.JournalEntry) (*model.JournalEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO journal_entries (id, beverage_id, beverage_type, category, rating, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.BeverageID, entry.BeverageType, string(entry.Category),
		entry.Rating, entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert journal entry")
	}
	return &entry, nil
}

func (s *PostgresStore) ListJournal(ctx context.Context) ([]model.JournalEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, beverage_id, beverage_type, category, rating, notes, created_at
		 FROM journal_entries ORDER BY created_at, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list journal")
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		var e model.JournalEntry
		var category string
		if err := rows.Scan(&e.ID, &e.BeverageID, &e.BeverageType, &category, &e.Rating, &e.Notes, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan journal entry")
		}
		e.Category = model.Category(category)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list journal iterate")
}

func (s *PostgresStore) SavePreferences(ctx context.Context, p model.PreferenceProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal preferences")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO preferences (id, profile, updated_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = EXCLUDED.updated_at`,
		profileJSON, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save preferences")
}

func (s *PostgresStore) GetPreferences(ctx context.Context) (*model.PreferenceProfile, error) {
	row := s.pool.QueryRow(ctx, `SELECT profile FROM preferences WHERE id = 1`)

	var profileJSON []byte
	err := row.Scan(&profileJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get preferences")
	}

	var p model.PreferenceProfile
	if err := json.Unmarshal(profileJSON, &p); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal preferences")
	}
	return &p, nil
}

func (s *PostgresStore) ClearPreferences(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM preferences WHERE id = 1`)
	return eris.Wrap(err, "postgres: clear preferences")
}

func scanPgBeverage(row pgx.Row) (*model.Beverage, error) {
	var b model.Beverage
	var category string
	var pairingsJSON, flavorJSON []byte

	err := row.Scan(&b.ID, &b.Name, &category, &b.Type, &b.Price, &pairingsJSON, &flavorJSON, &b.Featured, &b.InStock)
	if err != nil {
		return nil, err
	}

	b.Category = model.Category(category)
	if err := json.Unmarshal(pairingsJSON, &b.FoodPairings); err != nil {
		return nil, eris.Wrap(err, "unmarshal pairings")
	}
	if len(flavorJSON) > 0 {
		b.Flavor = &model.FlavorProfile{}
		if err := json.Unmarshal(flavorJSON, b.Flavor); err != nil {
			return nil, eris.Wrap(err, "unmarshal flavor")
		}
	}
	return &b, nil
}
