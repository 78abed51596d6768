package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/product-catalog/internal/config"
	"github.com/nguyentranbao-ct/product-catalog/internal/kafka"
	"github.com/nguyentranbao-ct/product-catalog/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-catalog/internal/server"
	"github.com/nguyentranbao-ct/product-catalog/internal/usecase"
	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	log := logger.MustNamed("mongodb")

	db, err := mongodb.NewConnection(context.Background(), mongodb.ConnectOptions{
		URI:         cfg.Database.URI,
		Database:    cfg.Database.Database,
		AppName:     "product-catalog",
		MaxPoolSize: cfg.Database.MaxPoolSize,
		Timeout:     cfg.Database.ConnectTimeout,
		Retries:     cfg.Database.ConnectRetries,
		RetryDelay:  cfg.Database.ConnectRetryDelay,
		OnRetry: func(attempt int, err error) {
			log.Warnw("mongodb connection attempt failed",
				"attempt", attempt,
				"max_attempts", cfg.Database.ConnectRetries,
				"error", err,
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}
	log.Infow("connected to mongodb", "database", cfg.Database.Database)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})
	return db, nil
}

func newDatabaseStatus(db *mongodb.DB) server.Database {
	return db
}

func newImageStore(db *mongodb.DB, cfg *config.Config) (mongodb.ImageStore, error) {
	return mongodb.NewImageStore(db, mongodb.ImageStoreOptions{
		Bucket:        cfg.Storage.Bucket,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		MaxBytes:      cfg.Storage.MaxUploadBytes,
	})
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config) (kafka.Publisher, error) {
	publisher, err := kafka.NewPublisher(&cfg.Events)
	if err != nil {
		return nil, fmt.Errorf("init event publisher: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

func newAuthUsecase(cfg *config.Config, userRepo mongodb.UserRepository) usecase.AuthUsecase {
	return usecase.NewAuthUsecase(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}
