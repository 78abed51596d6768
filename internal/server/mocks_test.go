package server_test

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
)

type mockProductUsecase struct {
	mock.Mock
}

func (m *mockProductUsecase) Create(ctx context.Context, caller models.Caller, req models.ProductRequest, upload *models.Upload) (*models.Product, error) {
	args := m.Called(ctx, caller, req, upload)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductUsecase) List(ctx context.Context, params models.ProductListParams) (*models.ProductPage, error) {
	args := m.Called(ctx, params)
	page, _ := args.Get(0).(*models.ProductPage)
	return page, args.Error(1)
}

func (m *mockProductUsecase) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductUsecase) Update(ctx context.Context, caller models.Caller, id string, req models.ProductRequest, upload *models.Upload) (*models.Product, error) {
	args := m.Called(ctx, caller, id, req, upload)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductUsecase) Delete(ctx context.Context, caller models.Caller, id string) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *mockProductUsecase) UploadImage(ctx context.Context, upload *models.Upload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

func (m *mockProductUsecase) OpenImage(ctx context.Context, id string) (*models.StoredImage, error) {
	args := m.Called(ctx, id)
	img, _ := args.Get(0).(*models.StoredImage)
	return img, args.Error(1)
}

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthUsecase) Authenticate(ctx context.Context, token string) (*models.Caller, error) {
	args := m.Called(ctx, token)
	caller, _ := args.Get(0).(*models.Caller)
	return caller, args.Error(1)
}

func (m *mockAuthUsecase) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

// fakeDB stands in for the mongo handle in health checks and the store guard.
type fakeDB struct {
	down bool
}

func (f *fakeDB) Ping(ctx context.Context) error {
	if f.down {
		return errors.New("server selection timeout")
	}
	return nil
}

func (f *fakeDB) Name() string { return "catalog-test" }

func (f *fakeDB) EnsureConnected(ctx context.Context) error { return f.Ping(ctx) }

func (f *fakeDB) ReportError(err error) {}
