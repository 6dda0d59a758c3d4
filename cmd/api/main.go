package main

import (
	"context"
	"net/http"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/punchamoorthee/walletops/internal/api"
	"github.com/punchamoorthee/walletops/internal/config"
	"github.com/punchamoorthee/walletops/internal/logging"
	"github.com/punchamoorthee/walletops/internal/service"
	"github.com/punchamoorthee/walletops/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("wallet-api", "info").Fatal(err)
	}
	log := logging.NewLogger("wallet-api", cfg.LogLevel)

	poolCfg, err := pgxpool.ParseConfig(cfg.DBSource)
	if err != nil {
		log.WithError(err).Fatal("unable to parse database config")
	}
	// Balances are NUMERIC columns; scan them as shopspring decimals.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.WithError(err).Fatal("unable to connect to database")
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.WithError(err).Fatal("unable to ping database")
	}

	// Initialize Layers
	ledgerStore := store.NewStore(dbPool)
	transfers := service.NewTransferService(dbPool)
	auth := service.NewAuthService(ledgerStore)
	sessions := service.NewSessionEngine(ledgerStore, auth)
	handler := api.NewHandler(ledgerStore, transfers, auth, sessions, log)

	r := api.NewRouter(handler)

	log.WithField("port", cfg.Port).Info("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
