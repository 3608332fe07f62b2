package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/sipe/inventory-api/internal/infrastructure/config"
	"github.com/sipe/inventory-api/internal/infrastructure/db/mongo"
	"github.com/sipe/inventory-api/pkg/logger"
)

// app holds what every command needs: configuration, a logger and the
// database handles.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *driver.Client
	db     *driver.Database
}

// bootstrap loads .env (when present), the configuration and the logger, then
// connects to MongoDB and makes sure every collection has its indexes.
func bootstrap(ctx context.Context) (*app, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := mongo.EnsureIndexes(ctx,
		mongo.NewUserRepository(db),
		mongo.NewEquipmentRepository(db),
		mongo.NewMovementRepository(db),
	); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &app{cfg: cfg, log: log, client: client, db: db}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.client.Disconnect(ctx); err != nil {
		a.log.Error().Err(err).Msg("mongodb disconnect failed")
	}
}
