package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-catalog/internal/config"
	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/product-catalog/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-catalog/internal/usecase"
)

const healthPingTimeout = 2 * time.Second

type Controller interface {
	Root(c echo.Context) error
	Health(c echo.Context) error
	GetImage(c echo.Context) error
}

// Database is the view of the store the health probe needs.
type Database interface {
	Ping(ctx context.Context) error
	Name() string
}

type controller struct {
	db             Database
	env            string
	productUsecase usecase.ProductUsecase
}

func NewController(conf *config.Config, db Database, productUsecase usecase.ProductUsecase) Controller {
	return &controller{
		db:             db,
		env:            conf.Env,
		productUsecase: productUsecase,
	}
}

func (h *controller) Root(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "API is running but database connection failed",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product catalog API is running"})
}

type healthResponse struct {
	Status      string         `json:"status"`
	Database    databaseStatus `json:"database"`
	Environment string         `json:"environment"`
}

type databaseStatus struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

// Health always answers 200; the database state is reported, not enforced.
func (h *controller) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	dbStatus := "connected"
	if err := h.db.Ping(ctx); err != nil {
		dbStatus = "disconnected"
	}

	return c.JSON(http.StatusOK, healthResponse{
		Status: "ok",
		Database: databaseStatus{
			Status: dbStatus,
			Name:   h.db.Name(),
		},
		Environment: h.env,
	})
}

func (h *controller) GetImage(c echo.Context) error {
	img, err := h.productUsecase.OpenImage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer img.Content.Close()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentLength, fmt.Sprint(img.Size))
	resp.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if img.Filename != "" {
		resp.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", img.Filename))
	}
	return c.Stream(http.StatusOK, img.ContentType, img.Content)
}

// callerOf returns the authenticated caller as a value for usecase calls.
func callerOf(c echo.Context) (models.Caller, error) {
	caller, err := pkgmdw.MustCaller(c)
	if err != nil {
		return models.Caller{}, err
	}
	return *caller, nil
}
