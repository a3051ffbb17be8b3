// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/courtleague/internal/api"
	"github.com/codr1/courtleague/internal/api/auth"
	"github.com/codr1/courtleague/internal/api/leagues"
	"github.com/codr1/courtleague/internal/boxleague"
	"github.com/codr1/courtleague/internal/config"
	"github.com/codr1/courtleague/internal/db"
	"github.com/codr1/courtleague/internal/ratelimit"
	"github.com/codr1/courtleague/internal/roster"
	"github.com/codr1/courtleague/internal/schedule"
	"github.com/codr1/courtleague/internal/verification"
)

type serverDeps struct {
	db            *db.DB
	roster        *roster.Service
	schedule      *schedule.Service
	engine        *verification.Engine
	boxes         *boxleague.Manager
	authenticator auth.Authenticator
	limiter       *ratelimit.Limiter
}

func newServer(cfg *config.Config, deps serverDeps) (*http.Server, error) {
	if err := leagues.InitHandlers(leagues.Services{
		DB:           deps.db,
		Roster:       deps.roster,
		Schedule:     deps.schedule,
		Verification: deps.engine,
		Boxes:        deps.boxes,
	}); err != nil {
		return nil, err
	}

	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithWriteLimit(deps.limiter, cfg.API.TrustProxy),
		api.WithAuth(deps.authenticator),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	// Register routes
	registerRoutes(router, deps.db)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

func registerRoutes(mux *http.ServeMux, database *db.DB) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	leagues.RegisterRoutes(mux)
}
