package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentranbao-ct/product-catalog/internal/config"
	"github.com/nguyentranbao-ct/product-catalog/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-catalog/internal/server"
	"github.com/nguyentranbao-ct/product-catalog/internal/usecase"
	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
)

func Invoke(funcs ...any) *fx.App {
	conf := config.MustLoad()
	logger.Init(conf.LogLevel, conf.Env)
	log := logger.MustNamed("app")
	log.Debugw("config loaded",
		"env", conf.Env,
		"server_addr", conf.Server.Addr(),
		"database", conf.Database.Database,
		"events_enabled", conf.Events.Enabled,
		"bootstrap_enabled", conf.Bootstrap.Enabled,
	)

	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: logger.Root().Named("fx"),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newImageStore,
			newPublisher,
			newAuthUsecase,
			newDatabaseStatus,

			server.NewController,
			server.NewAuthController,
			server.NewProductController,

			usecase.NewProductUsecase,

			mongodb.NewProductRepository,
			mongodb.NewUserRepository,
		),
		fx.Supply(conf),
		fx.Invoke(EnsureIndexes),
		fx.Invoke(InitializeCatalog),
		fx.Invoke(funcs...),
	)
}

// EnsureIndexes creates the collection indexes before the server starts.
func EnsureIndexes(lc fx.Lifecycle, db *mongodb.DB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return mongodb.EnsureIndexes(ctx, db)
		},
	})
}

// InitializeCatalog seeds the default users and products when bootstrap is enabled.
func InitializeCatalog(
	lc fx.Lifecycle,
	conf *config.Config,
	userRepo mongodb.UserRepository,
	productRepo mongodb.ProductRepository,
) {
	if !conf.Bootstrap.Enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return usecase.SeedCatalog(ctx, userRepo, productRepo, conf.Bootstrap.Password)
		},
	})
}
