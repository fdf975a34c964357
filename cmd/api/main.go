package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/expense-tracker/internal/api"
	"github.com/dvloznov/expense-tracker/internal/config"
	"github.com/dvloznov/expense-tracker/internal/logger"
	"github.com/dvloznov/expense-tracker/internal/session/backend"
	"github.com/dvloznov/expense-tracker/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Parse command-line flags
	var (
		port        = flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
		backendName = flag.String("session-backend", cfg.SessionBackend, "Session storage: memory, file or gcs (or set SESSION_BACKEND env)")
	)
	flag.Parse()
	cfg.SessionBackend = *backendName
	if err := cfg.Validate(); err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	ctx := context.Background()

	kv, closer, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session storage")
	}
	defer closer.Close()

	store := tracker.New(kv, tracker.WithLogger(log))
	store.Subscribe(func(s tracker.State) {
		log.Debug().
			Bool("authenticated", s.IsAuthenticated).
			Int("transactions", len(s.Transactions)).
			Str("balance", s.Balance.StringFixed(2)).
			Msg("State changed")
	})

	// Restore the persisted session before serving; protected routes answer
	// 503 until this completes.
	go store.RestoreSession(ctx)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      api.NewRouter(store, log, cfg.CORSOrigin),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", *port).
			Str("session_backend", cfg.SessionBackend).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
