package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/product-catalog/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-catalog/internal/usecase"
)

type AuthController interface {
	Register(c echo.Context) error
	Login(c echo.Context) error
	Me(c echo.Context) error
}

type authController struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthController(authUsecase usecase.AuthUsecase) AuthController {
	return &authController{
		authUsecase: authUsecase,
	}
}

func (ac *authController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := ac.authUsecase.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (ac *authController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := ac.authUsecase.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (ac *authController) Me(c echo.Context) error {
	caller, err := pkgmdw.MustCaller(c)
	if err != nil {
		return err
	}

	user, err := ac.authUsecase.GetProfile(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
