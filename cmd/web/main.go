package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"petconnect-web/internal/adapters/marketplace/rest"
	"petconnect-web/internal/adapters/sessionstore/memory"
	"petconnect-web/internal/adapters/sessionstore/postgres"
	"petconnect-web/internal/platform/config"
	"petconnect-web/internal/platform/logger"
	"petconnect-web/internal/ports/session"
	"petconnect-web/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		App:    cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	api, err := rest.New(cfg.APIBaseURL, cfg.APITimeout)
	if err != nil {
		zlog.Fatal("api client", zap.Error(err))
	}

	// Store de sesiones: Postgres si hay DSN, memoria si no.
	var sessions session.Store
	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			zlog.Fatal("open database", zap.Error(err))
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			zlog.Fatal("ensure schema", zap.Error(err))
		}
		sessions = postgres.NewStore(db)
		zlog.Info("session store: postgres")
	} else {
		sessions = memory.NewStore()
		zlog.Info("session store: in-memory")
	}

	handler, err := router.New(router.Options{
		API:        api,
		Sessions:   sessions,
		Log:        zlog,
		SessionTTL: cfg.SessionTTL,
	})
	if err != nil {
		zlog.Fatal("router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zlog.Info("starting web client",
		zap.String("addr", srv.Addr),
		zap.String("api_base_url", cfg.APIBaseURL))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server", zap.Error(err))
	}
}
