// Package main runs the marketplace API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carryspace/marketplace/internal/app"
	"github.com/carryspace/marketplace/internal/app/httpapi"
	storesupabase "github.com/carryspace/marketplace/internal/app/storage/supabase"
	"github.com/carryspace/marketplace/internal/config"
	"github.com/carryspace/marketplace/internal/database"
	"github.com/carryspace/marketplace/internal/metrics"
	"github.com/carryspace/marketplace/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	// Local development convenience; ignored when no .env exists.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewDefault("server").WithError(err).Fatal("load configuration")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		logger.NewDefault("server").WithError(err).Fatal("invalid configuration")
	}

	log := logger.New("server", os.Stdout, cfg.Logging.Level)

	stores := app.Stores{}
	collab := app.Collaborators{}

	if cfg.Supabase.URL != "" {
		dbCfg := database.Config{
			URL:        cfg.Supabase.URL,
			AnonKey:    cfg.Supabase.AnonKey,
			ServiceKey: cfg.Supabase.ServiceKey,
		}

		client, err := database.NewClient(dbCfg)
		if err != nil {
			log.WithError(err).Fatal("create supabase client")
		}
		store := storesupabase.New(client)
		stores = app.Stores{Listings: store, Requests: store, Orders: store, Tickets: store}
		collab.Health = client.Health

		uploader, err := database.NewStorageClient(dbCfg)
		if err != nil {
			log.WithError(err).Fatal("create storage client")
		}
		collab.Uploader = uploader

		identity, err := database.NewAuthClient(dbCfg)
		if err != nil {
			log.WithError(err).Fatal("create auth client")
		}
		collab.Identity = identity
	} else {
		log.Warn("no supabase URL configured, using in-memory stores")
	}

	application := app.New(cfg, stores, collab, log)

	router := httpapi.NewRouter(application, httpapi.Options{
		JWTSecret:      cfg.Supabase.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Metrics:        metrics.New(nil),
		Logger:         log,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
