// Package main is the entry point for the restaurant ordering server.
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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"restaurant-ordering-server/internal/auth"
	"restaurant-ordering-server/internal/config"
	"restaurant-ordering-server/internal/handler"
	"restaurant-ordering-server/internal/pkg/lock"
	"restaurant-ordering-server/internal/repository"
	"restaurant-ordering-server/internal/service"
	"restaurant-ordering-server/internal/store"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the record store, optionally mirrored to Postgres.
	var st store.Store
	fileStore, err := store.NewFileStore(cfg.Data.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize data directory")
	}
	st = fileStore

	if cfg.Database.URL != "" {
		mirror, err := store.NewMirror(ctx, fileStore, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database mirror")
		}
		defer mirror.Close()
		st = mirror
		log.Info().Msg("Record store mirroring enabled")
	}

	// Initialize repositories
	userRepo := repository.NewUsers(st)
	orderRepo := repository.NewOrders(st)
	rechargeRepo := repository.NewRecharges(st)
	txRepo := repository.NewTransactions(st)
	discountRepo := repository.NewDiscounts(st)

	// Initialize user lock
	userLock := lock.NewUserLock()

	// Initialize services
	ledger := service.NewLedger(userRepo, txRepo, rechargeRepo)
	discounts := service.NewDiscount(discountRepo, userRepo, ledger, userLock, cfg.Heart.RerollCost, nil)
	orders := service.NewOrders(orderRepo, userRepo, ledger, userLock)
	recharges := service.NewRecharges(rechargeRepo, userRepo, txRepo, ledger, userLock)
	accounts := service.NewAccounts(
		userRepo, orderRepo, rechargeRepo, txRepo, discountRepo,
		ledger, userLock, cfg.Heart.InitialBalance,
	)

	// Seed the admin account when missing.
	if err := accounts.EnsureAdmin(ctx, cfg.Auth.AdminPassword, cfg.Heart.AdminBalance); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	h := handler.New(accounts, ledger, discounts, orders, recharges, tokens, cfg.Heart.RerollCost)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server is starting...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped gracefully")
}
