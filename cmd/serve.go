package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cellarkeep/cellar-cli/internal/config"
	"github.com/cellarkeep/cellar-cli/internal/engine"
	"github.com/cellarkeep/cellar-cli/internal/model"
	"github.com/cellarkeep/cellar-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		eng, err := newEngine()
		if err != nil {
			return err
		}

		api := &apiServer{store: st, engine: eng}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.router(cfg.Server),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// apiServer exposes the engine over HTTP. Every request reads a fresh
// snapshot so catalog edits are visible without a restart.
type apiServer struct {
	store  store.Store
	engine *engine.Engine
}

func (a *apiServer) router(srvCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	if srvCfg.RequestsPerSec > 0 {
		r.Use(rateLimit(rate.Limit(srvCfg.RequestsPerSec), srvCfg.Burst))
	}

	r.Get("/health", a.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/recommendations", a.handleRecommendations)
		r.Get("/featured", a.handleFeatured)
		r.Get("/beverages", a.handleListBeverages)
		r.Get("/beverages/{id}", a.handleGetBeverage)
		r.Get("/beverages/{id}/similar", a.handleSimilar)
		r.Post("/pairings", a.handlePairings)
	})

	return r
}

// rateLimit applies a process-wide token bucket to all requests.
func rateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *apiServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	snap, err := loadSnapshot(r.Context(), a.store)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	var results []model.ScoredResult
	switch {
	case r.URL.Query().Get("occasion") != "":
		results, err = a.engine.ForOccasion(snap, r.URL.Query().Get("occasion"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	case r.URL.Query().Get("top") == "true":
		results, err = a.engine.TopPicks(snap)
	default:
		results, err = a.engine.Recommend(snap)
	}
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recommendations": results})
}

func (a *apiServer) handleFeatured(w http.ResponseWriter, r *http.Request) {
	snap, err := loadSnapshot(r.Context(), a.store)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"featured": a.engine.Featured(snap)})
}

func (a *apiServer) handleListBeverages(w http.ResponseWriter, r *http.Request) {
	filter := store.CatalogFilter{
		Category:    model.Category(r.URL.Query().Get("category")),
		OnlyInStock: r.URL.Query().Get("in_stock") == "true",
	}
	if filter.Category != "" && !filter.Category.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", filter.Category))
		return
	}

	beverages, err := a.store.ListBeverages(r.Context(), filter)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"beverages": beverages})
}

func (a *apiServer) handleGetBeverage(w http.ResponseWriter, r *http.Request) {
	b, err := a.store.GetBeverage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *apiServer) handleSimilar(w http.ResponseWriter, r *http.Request) {
	snap, err := loadSnapshot(r.Context(), a.store)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	results, err := a.engine.Similar(snap, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"similar": results})
}

func (a *apiServer) handlePairings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dishes []string `json:"dishes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Dishes) == 0 {
		writeError(w, http.StatusBadRequest, "dishes is required")
		return
	}

	snap, err := loadSnapshot(r.Context(), a.store)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	results, err := a.engine.PairDishes(snap, req.Dishes)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pairings": results})
}

func (a *apiServer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	zap.L().Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
