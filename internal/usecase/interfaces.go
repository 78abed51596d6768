package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductUsecase interface {
	Create(ctx context.Context, caller models.Caller, req models.ProductRequest, upload *models.Upload) (*models.Product, error)
	List(ctx context.Context, params models.ProductListParams) (*models.ProductPage, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, caller models.Caller, id string, req models.ProductRequest, upload *models.Upload) (*models.Product, error)
	Delete(ctx context.Context, caller models.Caller, id string) error
	UploadImage(ctx context.Context, upload *models.Upload) (string, error)
	// OpenImage streams a stored image back. The caller closes its Content.
	OpenImage(ctx context.Context, id string) (*models.StoredImage, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	// Authenticate resolves a bearer token to the caller it was issued to.
	Authenticate(ctx context.Context, token string) (*models.Caller, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}
