package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pet-hotel-api/internal/adapters/auth/identity"
	pg "pet-hotel-api/internal/adapters/storage/postgres"
	"pet-hotel-api/internal/config"
	"pet-hotel-api/internal/platform/logger"
	"pet-hotel-api/internal/ports/auth"
	"pet-hotel-api/internal/router"
	"pet-hotel-api/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New(cfg.LogLevel, cfg.AppName))
	defer func() { _ = log.Sync() }()

	// Identity verifier solo si está configurado; sin él corre en modo dev
	// con headers de debug.
	var verifier auth.AuthVerifier
	if cfg.IdentityBaseURL != "" {
		client, err := identity.NewClient(identity.Config{
			BaseURL: cfg.IdentityBaseURL,
			APIKey:  cfg.IdentityAPIKey,
		})
		if err != nil {
			log.Fatal("identity client init failed", zap.Error(err))
		}
		verifier = identity.NewVerifier(client)
		log.Info("identity verifier enabled", zap.String("base_url", cfg.IdentityBaseURL))
	} else {
		log.Warn("no identity service configured, running in dev auth mode")
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Fatal("postgres connection failed", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		log.Info("postgres connected")
	} else {
		log.Warn("no DB_DSN configured, using in-memory storage")
	}

	handler, inventorySvc := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
	})

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(inventorySvc, logger.Named(log, "scheduler"))
		if err := sched.Start(cfg.ReconcileCron); err != nil {
			log.Fatal("scheduler start failed", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
