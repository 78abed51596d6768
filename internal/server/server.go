package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/product-catalog/internal/config"
	"github.com/nguyentranbao-ct/product-catalog/internal/repo/mongodb"
	pkgmdw "github.com/nguyentranbao-ct/product-catalog/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-catalog/internal/usecase"
	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	fx.In

	Controller        Controller
	AuthController    AuthController
	ProductController ProductController
	AuthUsecase       usecase.AuthUsecase
}

// NewRouter builds the HTTP surface of the catalog.
func NewRouter(conf *config.Config, store pkgmdw.Store, h Handlers) (*echo.Echo, error) {
	origins, err := regexp.Compile(conf.Server.AllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("invalid allowed origins pattern: %w", err)
	}

	log := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(log, conf.IsDevelopment())

	logConfig := pkgmdw.LogRequestConfig{
		Logger:  log,
		Skipper: pkgmdw.SkipPaths("/health", "/api/health"),
		// credentials travel in auth bodies
		SkipBody: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/auth/")
		},
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(pkgmdw.CORS(origins))
	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw("PANIC RECOVER", "error", err, "stack", string(stack), "request_id", pkgmdw.GetRequestID(c))
			return err
		},
	}))
	e.Use(middleware.BodyLimit(conf.Server.BodyLimit))

	if conf.Server.PprofEnabled {
		pkgmdw.RegisterPprof(e)
	}

	e.GET("/", h.Controller.Root)
	e.GET("/health", h.Controller.Health)
	e.GET("/api/health", h.Controller.Health)

	api := e.Group("/api", pkgmdw.StoreGuard(store, conf.Database.ReconnectBudget()))
	requireAuth := pkgmdw.JWTAuth(h.AuthUsecase)

	auth := api.Group("/auth")
	auth.POST("/register", h.AuthController.Register)
	auth.POST("/login", h.AuthController.Login)
	auth.GET("/me", h.AuthController.Me, requireAuth)

	products := api.Group("/products")
	products.GET("", h.ProductController.List)
	products.POST("", h.ProductController.Create, requireAuth)
	products.POST("/upload", h.ProductController.Upload, requireAuth)
	products.GET("/:id", h.ProductController.Get)
	products.PUT("/:id", h.ProductController.Update, requireAuth)
	products.DELETE("/:id", h.ProductController.Delete, requireAuth)

	api.GET("/images/:id", h.Controller.GetImage)

	return e, nil
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	db *mongodb.DB,
	handlers Handlers,
) error {
	e, err := NewRouter(conf, db, handlers)
	if err != nil {
		return err
	}

	log := logger.MustNamed("server")
	addr := conf.Server.Addr()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("starting HTTP server", "addr", addr, "env", conf.Env)
				if err := e.Start(addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("HTTP server stopped", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			return e.Shutdown(ctx)
		},
	})
	return nil
}
