package main

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/cellarkeep/cellar-cli/internal/config"
	"github.com/cellarkeep/cellar-cli/internal/engine"
	"github.com/cellarkeep/cellar-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "cellar.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openStore opens and migrates the configured store.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// engineConfig returns the configured engine constants, falling back to the
// built-in defaults when the config file sets none of them.
func engineConfig() config.EngineConfig {
	if cfg.Engine == (config.EngineConfig{}) {
		return engine.DefaultEngineConfig()
	}
	return cfg.Engine
}

func newEngine() (*engine.Engine, error) {
	return engine.New(engineConfig())
}

// loadSnapshot reads everything the engine needs in one pass.
func loadSnapshot(ctx context.Context, st store.Store) (engine.Snapshot, error) {
	var snap engine.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		catalog, err := st.ListBeverages(gctx, store.CatalogFilter{})
		if err != nil {
			return err
		}
		snap.Catalog = catalog
		return nil
	})
	g.Go(func() error {
		favorites, err := st.ListFavorites(gctx)
		if err != nil {
			return err
		}
		snap.Favorites = favorites
		return nil
	})
	g.Go(func() error {
		journal, err := st.ListJournal(gctx)
		if err != nil {
			return err
		}
		snap.Journal = journal
		return nil
	})
	g.Go(func() error {
		prefs, err := st.GetPreferences(gctx)
		if err != nil {
			return err
		}
		snap.Preferences = prefs
		return nil
	})

	if err := g.Wait(); err != nil {
		return engine.Snapshot{}, eris.Wrap(err, "load snapshot")
	}
	return snap, nil
}
