// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/courtleague/internal/api/auth"
	"github.com/codr1/courtleague/internal/boxleague"
	"github.com/codr1/courtleague/internal/config"
	"github.com/codr1/courtleague/internal/db"
	"github.com/codr1/courtleague/internal/email"
	"github.com/codr1/courtleague/internal/ratelimit"
	"github.com/codr1/courtleague/internal/rating"
	"github.com/codr1/courtleague/internal/roster"
	"github.com/codr1/courtleague/internal/schedule"
	"github.com/codr1/courtleague/internal/scheduler"
	"github.com/codr1/courtleague/internal/standings"
	"github.com/codr1/courtleague/internal/verification"
)

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// app holds the long lived services so shutdown can drain them in order.
type app struct {
	cfg         *config.Config
	db          *db.DB
	standings   *standings.Recomputer
	engine      *verification.Engine
	limiter     *ratelimit.Limiter
	server      *http.Server
	schedulerUp bool
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{cfg: cfg, db: database}

	a.standings, err = standings.NewRecomputer(database, cfg.Engine.StandingsTimeout)
	if err != nil {
		return nil, err
	}

	opts := []verification.Option{
		verification.WithStandings(a.standings),
		verification.WithRatingChecker(rating.PolicyChecker{}),
		verification.WithConflictRetries(cfg.Engine.ConflictRetries),
	}
	if cfg.Email.Enabled {
		ses, err := email.NewSESClient(ctx, cfg.Email.AccessKeyID, cfg.Email.SecretKey, cfg.Email.Region, cfg.Email.FromAddress)
		if err != nil {
			return nil, fmt.Errorf("init email: %w", err)
		}
		notifier, err := email.NewNotifier(database.Queries, ses, cfg.Email.FromAddress)
		if err != nil {
			return nil, err
		}
		opts = append(opts, verification.WithNotifier(notifier))
		log.Info().Str("region", cfg.Email.Region).Msg("Email notifications enabled")
	}
	a.engine, err = verification.NewEngine(database, opts...)
	if err != nil {
		return nil, err
	}

	rosterSvc, err := roster.NewService(database, a.standings)
	if err != nil {
		return nil, err
	}
	scheduleSvc, err := schedule.NewService(database)
	if err != nil {
		return nil, err
	}
	boxes, err := boxleague.NewManager(database, boxleague.WithConflictRetries(cfg.Engine.ConflictRetries))
	if err != nil {
		return nil, err
	}

	authenticator, err := newAuthenticator(cfg, rosterSvc)
	if err != nil {
		return nil, err
	}

	limitCfg := ratelimit.DefaultConfig()
	limitCfg.MaxPerPlayer = cfg.API.WritesPerMinute
	limitCfg.MaxPerAnonymousIP = cfg.API.AnonymousWritesPerMinute
	a.limiter = ratelimit.New(limitCfg)

	a.server, err = newServer(cfg, serverDeps{
		db:            database,
		roster:        rosterSvc,
		schedule:      scheduleSvc,
		engine:        a.engine,
		boxes:         boxes,
		authenticator: authenticator,
		limiter:       a.limiter,
	})
	if err != nil {
		return nil, err
	}

	if err := scheduler.Init(); err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	a.schedulerUp = true
	svc, err := scheduler.ServiceInstance()
	if err != nil {
		return nil, err
	}
	if err := svc.RegisterLeagueJobs(cfg.Jobs, scheduler.LeagueJobs{
		Standings: a.standings,
		Proposals: a.engine,
		Makeups:   a.engine,
	}); err != nil {
		return nil, fmt.Errorf("register jobs: %w", err)
	}
	return a, nil
}

func newAuthenticator(cfg *config.Config, players auth.Players) (auth.Authenticator, error) {
	if cfg.Auth.ClerkSecretKey != "" {
		return auth.NewClerkAuthenticator(cfg.Auth.ClerkSecretKey, players)
	}
	if cfg.App.Environment != "development" {
		return nil, fmt.Errorf("CLERK_SECRET_KEY is required in %s", cfg.App.Environment)
	}
	log.Warn().Msg("No Clerk key configured; trusting the X-Player-ID header")
	return auth.NewDevAuthenticator(players), nil
}

// close releases everything newApp acquired. Background work is drained
// before the database goes away.
func (a *app) close() {
	if a.schedulerUp {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
	}
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.engine != nil {
		a.engine.Wait()
	}
	if a.standings != nil {
		a.standings.Wait()
	}
	if err := a.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
}

func main() {
	configPath := flag.String("config", "config/app.yaml", "path to the application config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer a.close()

	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		a.close()
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}
