package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/nguyentranbao-ct/product-catalog/internal/kafka"
	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"github.com/nguyentranbao-ct/product-catalog/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
)

// productFieldMessages maps a product field and the failed rule to the message returned to clients.
var productFieldMessages = map[string]map[string]string{
	"name":        {"required": "Product name is required"},
	"description": {"required": "Product description is required"},
	"category":    {"required": "Product category is required"},
	"price":       {"required": "Product price is required", "number": "Product price must be a number", "gte": "Product price cannot be negative"},
	"rating":      {"number": "Product rating must be a number", "gte": "Product rating must be between 0 and 5", "lte": "Product rating must be between 0 and 5"},
}

type productUsecase struct {
	productRepo mongodb.ProductRepository
	images      mongodb.ImageStore
	publisher   kafka.Publisher
	validate    *validator.Validate
	log         *zap.SugaredLogger
	now         func() time.Time
}

func NewProductUsecase(productRepo mongodb.ProductRepository, images mongodb.ImageStore, publisher kafka.Publisher) ProductUsecase {
	return &productUsecase{
		productRepo: productRepo,
		images:      images,
		publisher:   publisher,
		validate:    newProductValidator(),
		log:         logger.MustNamed("product_usecase"),
		now:         time.Now,
	}
}

func (uc *productUsecase) Create(ctx context.Context, caller models.Caller, req models.ProductRequest, upload *models.Upload) (*models.Product, error) {
	verr := models.NewValidationError()
	product := &models.Product{
		Name:        strings.TrimSpace(req.Name.Value),
		Description: strings.TrimSpace(req.Description.Value),
		Category:    strings.TrimSpace(req.Category.Value),
		OwnerID:     caller.ID,
	}

	switch {
	case !req.Price.Set:
		verr.Add("price", productFieldMessages["price"]["required"])
	case !req.Price.Valid:
		verr.Add("price", productFieldMessages["price"]["number"])
	default:
		product.Price = req.Price.Value
	}
	if req.Rating.Set {
		if req.Rating.Valid {
			product.Rating = req.Rating.Value
		} else {
			verr.Add("rating", productFieldMessages["rating"]["number"])
		}
	}

	validateProduct(uc.validate, product, verr, nil)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	imageURL, err := uc.resolveImage(ctx, req.ImageURL, upload)
	if err != nil {
		return nil, err
	}
	if imageURL != nil {
		product.ImageURL = *imageURL
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	logger.AddFields(ctx, "product_id", product.ID.Hex())

	created, err := uc.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created product: %w", err)
	}

	uc.publish(ctx, models.ProductCreated, caller, created)
	return created, nil
}

func (uc *productUsecase) List(ctx context.Context, params models.ProductListParams) (*models.ProductPage, error) {
	params = params.Normalize()

	page, err := uc.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	products := page.Data
	if products == nil {
		products = []models.Product{}
	}
	return &models.ProductPage{
		Products:   products,
		Pagination: models.NewPagination(page.Total, params.Page, params.Limit),
	}, nil
}

func (uc *productUsecase) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}
	return uc.getProduct(ctx, oid)
}

func (uc *productUsecase) Update(ctx context.Context, caller models.Caller, id string, req models.ProductRequest, upload *models.Upload) (*models.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}
	logger.AddFields(ctx, "product_id", id)

	existing, err := uc.getProduct(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !caller.CanModify(existing.OwnerID) {
		return nil, models.ErrUpdateForbidden
	}

	verr := models.NewValidationError()
	patch, supplied := buildPatch(req, verr)
	merged := patch.Apply(*existing)
	validateProduct(uc.validate, &merged, verr, supplied)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	imageURL, err := uc.resolveImage(ctx, req.ImageURL, upload)
	if err != nil {
		return nil, err
	}
	patch.ImageURL = imageURL

	if patch.IsEmpty() {
		return existing, nil
	}

	updated, err := uc.productRepo.Update(ctx, oid, patch)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, models.ProductUpdated, caller, updated)
	return updated, nil
}

func (uc *productUsecase) Delete(ctx context.Context, caller models.Caller, id string) error {
	oid, err := parseProductID(id)
	if err != nil {
		return err
	}
	logger.AddFields(ctx, "product_id", id)

	existing, err := uc.getProduct(ctx, oid)
	if err != nil {
		return err
	}
	if !caller.CanModify(existing.OwnerID) {
		return models.ErrDeleteForbidden
	}

	err = uc.productRepo.Delete(ctx, oid)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrProductNotFound
	}
	if err != nil {
		return err
	}

	uc.publish(ctx, models.ProductDeleted, caller, existing)
	return nil
}

func (uc *productUsecase) UploadImage(ctx context.Context, upload *models.Upload) (string, error) {
	if upload == nil {
		return "", models.ErrNoFileUploaded
	}
	return uc.images.Upload(ctx, *upload)
}

func (uc *productUsecase) OpenImage(ctx context.Context, id string) (*models.StoredImage, error) {
	return uc.images.Open(ctx, id)
}

func (uc *productUsecase) getProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// resolveImage picks the image of a write: an uploaded file wins over a
// supplied URL. It returns nil when neither is present.
func (uc *productUsecase) resolveImage(ctx context.Context, imageURL models.OptString, upload *models.Upload) (*string, error) {
	if upload != nil {
		url, err := uc.images.Upload(ctx, *upload)
		if err != nil {
			return nil, err
		}
		return &url, nil
	}
	if url := strings.TrimSpace(imageURL.Value); imageURL.Set && url != "" {
		return &url, nil
	}
	return nil, nil
}

func newProductValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	return validate
}

// validateProduct checks the document against the product rules. When only
// is non-nil, failures on other fields are ignored.
func validateProduct(validate *validator.Validate, product *models.Product, verr *models.ValidationError, only map[string]bool) {
	err := validate.Struct(product)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if only != nil && !only[field] {
			continue
		}
		msg, ok := productFieldMessages[field][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		verr.Add(field, msg)
	}
}

func (uc *productUsecase) publish(ctx context.Context, typ models.ProductEventType, caller models.Caller, product *models.Product) {
	event := models.NewProductEvent(typ, caller, product, uc.now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.log.Warnw("failed to publish product event",
			"type", typ,
			"product_id", event.ProductID,
			"error", err,
		)
	}
}

func buildPatch(req models.ProductRequest, verr *models.ValidationError) (models.ProductPatch, map[string]bool) {
	var patch models.ProductPatch
	supplied := map[string]bool{}

	trimmed := func(field string, v models.OptString) *string {
		if !v.Set {
			return nil
		}
		supplied[field] = true
		s := strings.TrimSpace(v.Value)
		return &s
	}
	number := func(field string, v models.OptFloat) *float64 {
		if !v.Set {
			return nil
		}
		supplied[field] = true
		if !v.Valid {
			verr.Add(field, productFieldMessages[field]["number"])
			return nil
		}
		f := v.Value
		return &f
	}

	patch.Name = trimmed("name", req.Name)
	patch.Description = trimmed("description", req.Description)
	patch.Category = trimmed("category", req.Category)
	patch.Price = number("price", req.Price)
	patch.Rating = number("rating", req.Rating)
	return patch, supplied
}

func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrInvalidProductID
	}
	return oid, nil
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
