package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"hw-reconciliation/internal/config"
	"hw-reconciliation/internal/gateway"
	"hw-reconciliation/internal/server"
	"hw-reconciliation/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open store")
	}
	defer closeStore()

	audit := gateway.MultiAuditLogger{store, gateway.NewZerologAuditLogger(logger)}
	uc := usecase.NewReconciliationUseCase(store, audit, cfg.Settings(), logger)
	router := server.SetupRoutes(server.NewReconciliationHandler(uc, logger))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.APIPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.APIPort).Str("driver", cfg.DBDriver).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

type auditStore interface {
	usecase.Store
	usecase.AuditLogger
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (auditStore, func(), error) {
	if cfg.DBDriver == config.DriverPostgres {
		pool, err := gateway.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := gateway.NewPostgresStore(pool, logger)
		if err := store.CreateSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	}

	store, err := gateway.NewSQLiteStore(cfg.SQLitePath, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
