package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepo struct {
	baseRepo[models.User]
}

func NewUserRepository(db *DB) UserRepository {
	return &userRepo{
		baseRepo: newBaseRepo[models.User](db.Database),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	user.ID = primitive.NewObjectID()
	user.Email = NormalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.Insert(ctx, *user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.FindOne(ctx, bson.M{"email": NormalizeEmail(email)})
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, err
}
