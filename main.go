// Package main is the entry point for the classified ads API server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"marketplace/src/app/server"
	"marketplace/src/infra/cache"
	"marketplace/src/infra/config"
	"marketplace/src/infra/currency"
	"marketplace/src/infra/db"
	"marketplace/src/infra/logger"
	"marketplace/src/infra/messaging"
	"marketplace/src/infra/repo"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration from .env and environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
		"store", cfg.Store.Driver,
	)

	table := currency.NewTable(cfg.Currency.Retired...)
	log.Info("currency table loaded", "in_use", table.InUse())

	deps := server.Dependencies{Currencies: table}

	// Repositories
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pg, err := db.New(ctx, cfg.Database, logger.WithComponent(log, "db"))
		if err != nil {
			return err
		}
		defer pg.Close()

		if cfg.Database.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				return err
			}
		}
		deps.Ads = repo.NewPostgresClassifiedAdRepository(pg, table, log)
		deps.Users = repo.NewPostgresUserProfileRepository(pg, log)
	default:
		deps.Ads = repo.NewMemoryClassifiedAdRepository(table)
		deps.Users = repo.NewMemoryUserProfileRepository()
	}

	// Event publisher
	if cfg.NATS.URL != "" {
		publisher, err := messaging.NewNATSPublisher(cfg.NATS, logger.WithComponent(log, "nats"))
		if err != nil {
			return err
		}
		defer publisher.Close()
		deps.Publisher = publisher
	} else {
		log.Warn("APP_NATS_URL not set, events are written to the log only")
		deps.Publisher = messaging.NewLogPublisher(cfg.NATS.SubjectPrefix, logger.WithComponent(log, "events"))
	}

	// Read-model cache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		defer closeQuietly(log, "redis", client.Close)
		deps.Cache = cache.NewRedisCache(client, cfg.Redis.TTL, logger.WithComponent(log, "cache"))
	}

	srv := server.New(cfg, log, deps)

	// Run blocks until shutdown signal is received
	return srv.Run()
}

func closeQuietly(log *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Warn("close failed", "component", name, "error", err)
	}
}
