package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/matchday-engine/brackets"
	"github.com/Dosada05/matchday-engine/config"
	"github.com/Dosada05/matchday-engine/handlers"
	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	api "github.com/Dosada05/matchday-engine/routes"
	"github.com/Dosada05/matchday-engine/services"
	"github.com/Dosada05/matchday-engine/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	tournamentStore  = "tournaments"
	rosterStore      = "roster"
	activeMatchStore = "active_match"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	snapshots, err := storage.NewBoltSnapshotStore(cfg.SnapshotPath)
	if err != nil {
		logger.Error("failed to open snapshot store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			logger.Error("failed to close snapshot store", slog.Any("error", err))
		}
	}()
	logger.Info("snapshot store opened", slog.String("path", cfg.SnapshotPath))

	tournamentRepo := repositories.NewInMemoryTournamentRepository()
	rosterRepo := repositories.NewInMemoryRosterRepository()

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	leagueService := services.NewLeagueService(tournamentRepo, rosterRepo, wsHub, logger)
	knockoutService := services.NewKnockoutService(tournamentRepo, rosterRepo, wsHub, logger)
	sessionService := services.NewSessionService(tournamentRepo, rosterRepo, wsHub, logger)
	sessionService.RegisterResultSink(models.FormatLeague, leagueService)
	sessionService.RegisterResultSink(models.FormatKnockout, knockoutService)
	logger.Info("Services initialized")

	if err := restoreState(context.Background(), snapshots, tournamentRepo, rosterRepo, sessionService, logger); err != nil {
		logger.Error("failed to restore state from snapshot", slog.Any("error", err))
		os.Exit(1)
	}

	leagueHandler := handlers.NewLeagueHandler(leagueService)
	knockoutHandler := handlers.NewKnockoutHandler(knockoutService)
	matchHandler := handlers.NewMatchHandler(sessionService)
	rosterHandler := handlers.NewRosterHandler(rosterRepo)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		leagueHandler,
		knockoutHandler,
		matchHandler,
		rosterHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SnapshotInterval)
		defer ticker.Stop()
		logger.Info("snapshot autosave started", slog.Duration("interval", cfg.SnapshotInterval))
		for {
			select {
			case <-ticker.C:
				if err := saveState(gctx, snapshots, tournamentRepo, rosterRepo, sessionService); err != nil {
					logger.Error("periodic snapshot failed", slog.Any("error", err))
				}
			case <-gctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
	}

	// Final snapshot so nothing recorded since the last tick is lost.
	if err := saveState(context.Background(), snapshots, tournamentRepo, rosterRepo, sessionService); err != nil {
		logger.Error("final snapshot failed", slog.Any("error", err))
	} else {
		logger.Info("final snapshot saved")
	}
	logger.Info("application exited")
}

func restoreState(
	ctx context.Context,
	snapshots storage.SnapshotStore,
	tournamentRepo repositories.TournamentRepository,
	rosterRepo repositories.RosterRepository,
	sessionService services.SessionService,
	logger *slog.Logger,
) error {
	var tournaments []*models.Tournament
	found, err := snapshots.Load(ctx, tournamentStore, &tournaments)
	if err != nil {
		return fmt.Errorf("loading %s snapshot: %w", tournamentStore, err)
	}
	if found {
		if err := tournamentRepo.Restore(ctx, tournaments); err != nil {
			return err
		}
		logger.Info("tournaments restored from snapshot", slog.Int("count", len(tournaments)))
	}

	var roster repositories.RosterSnapshot
	found, err = snapshots.Load(ctx, rosterStore, &roster)
	if err != nil {
		return fmt.Errorf("loading %s snapshot: %w", rosterStore, err)
	}
	if found {
		if err := rosterRepo.Restore(ctx, &roster); err != nil {
			return err
		}
		logger.Info("roster restored from snapshot",
			slog.Int("teams", len(roster.Teams)),
			slog.Int("players", len(roster.Players)))
	}

	var session *models.MatchSession
	found, err = snapshots.Load(ctx, activeMatchStore, &session)
	if err != nil {
		return fmt.Errorf("loading %s snapshot: %w", activeMatchStore, err)
	}
	if found && session != nil {
		if err := sessionService.RestoreSession(ctx, session); err != nil {
			return err
		}
		logger.Info("live match session restored from snapshot",
			slog.String("session_id", session.ID),
			slog.String("fixture_id", session.FixtureID))
	}
	return nil
}

func saveState(
	ctx context.Context,
	snapshots storage.SnapshotStore,
	tournamentRepo repositories.TournamentRepository,
	rosterRepo repositories.RosterRepository,
	sessionService services.SessionService,
) error {
	tournaments, err := tournamentRepo.List(ctx)
	if err != nil {
		return err
	}
	if err := snapshots.Save(ctx, tournamentStore, tournaments); err != nil {
		return fmt.Errorf("saving %s snapshot: %w", tournamentStore, err)
	}

	roster, err := rosterRepo.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := snapshots.Save(ctx, rosterStore, roster); err != nil {
		return fmt.Errorf("saving %s snapshot: %w", rosterStore, err)
	}

	session, err := sessionService.GetCurrentMatch(ctx)
	if err != nil && !errors.Is(err, services.ErrNoActiveMatch) {
		return err
	}
	if err := snapshots.Save(ctx, activeMatchStore, session); err != nil {
		return fmt.Errorf("saving %s snapshot: %w", activeMatchStore, err)
	}
	return nil
}
