package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/product-catalog/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-catalog/internal/usecase"
)

const imageFormField = "image"

type ProductController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Upload(c echo.Context) error
}

type productController struct {
	productUsecase usecase.ProductUsecase
}

func NewProductController(productUsecase usecase.ProductUsecase) ProductController {
	return &productController{
		productUsecase: productUsecase,
	}
}

func (pc *productController) List(c echo.Context) error {
	var req models.ListProductsRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return err
	}

	params, err := req.Params()
	if err != nil {
		return err
	}

	page, err := pc.productUsecase.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (pc *productController) Get(c echo.Context) error {
	product, err := pc.productUsecase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (pc *productController) Create(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	var req models.ProductRequest
	if err := pkgmdw.Bind(c, &req); err != nil {
		return err
	}

	upload, closeUpload, err := formUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	product, err := pc.productUsecase.Create(c.Request().Context(), caller, req, upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (pc *productController) Update(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	var req models.ProductRequest
	if err := pkgmdw.Bind(c, &req); err != nil {
		return err
	}

	upload, closeUpload, err := formUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	product, err := pc.productUsecase.Update(c.Request().Context(), caller, id, req, upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (pc *productController) Delete(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	if err := pc.productUsecase.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (pc *productController) Upload(c echo.Context) error {
	upload, closeUpload, err := formUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()
	if upload == nil {
		return models.ErrNoFileUploaded
	}

	url, err := pc.productUsecase.UploadImage(c.Request().Context(), upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"imageUrl": url})
}

// formUpload reads the optional image file of a multipart request. It
// returns a nil upload for other content types or when no file was sent.
func formUpload(c echo.Context) (*models.Upload, func(), error) {
	noop := func() {}
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		return nil, noop, nil
	}

	fh, err := c.FormFile(imageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	upload := &models.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  io.Reader(file),
	}
	return upload, func() { _ = file.Close() }, nil
}
