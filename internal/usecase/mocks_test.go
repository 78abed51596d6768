package usecase_test

import (
	"context"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"github.com/nguyentranbao-ct/product-catalog/internal/repo/mongodb"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, params models.ProductListParams) (*mongodb.PaginateWithTotal[models.Product], error) {
	args := m.Called(ctx, params)
	page, _ := args.Get(0).(*mongodb.PaginateWithTotal[models.Product])
	return page, args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, id, patch)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) ExistsByName(ctx context.Context, ownerID primitive.ObjectID, name string) (bool, error) {
	args := m.Called(ctx, ownerID, name)
	return args.Bool(0), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Upload(ctx context.Context, upload models.Upload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

func (m *mockImageStore) Open(ctx context.Context, id string) (*models.StoredImage, error) {
	args := m.Called(ctx, id)
	img, _ := args.Get(0).(*models.StoredImage)
	return img, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event models.ProductEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}
