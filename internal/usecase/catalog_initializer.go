package usecase

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"github.com/nguyentranbao-ct/product-catalog/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
)

//go:embed default_users.yaml
var defaultUsersData []byte

//go:embed default_products.yaml
var defaultProductsData []byte

type DefaultUser struct {
	Name  string      `yaml:"name"`
	Email string      `yaml:"email"`
	Role  models.Role `yaml:"role"`
}

type DefaultProduct struct {
	OwnerEmail  string  `yaml:"owner_email"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	Price       float64 `yaml:"price"`
	Rating      float64 `yaml:"rating"`
	ImageURL    string  `yaml:"image_url"`
}

func LoadDefaultCatalog() ([]DefaultUser, []DefaultProduct, error) {
	var users []DefaultUser
	if err := yaml.Unmarshal(defaultUsersData, &users); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal default users: %w", err)
	}
	var products []DefaultProduct
	if err := yaml.Unmarshal(defaultProductsData, &products); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal default products: %w", err)
	}
	return users, products, nil
}

// SeedCatalog creates the default users and products that do not exist yet.
// Running it again is a no-op.
func SeedCatalog(ctx context.Context, userRepo mongodb.UserRepository, productRepo mongodb.ProductRepository, password string) error {
	defaultUsers, defaultProducts, err := LoadDefaultCatalog()
	if err != nil {
		return err
	}
	return SeedCatalogFrom(ctx, userRepo, productRepo, password, defaultUsers, defaultProducts)
}

// SeedCatalogFrom seeds the given users and products. Products that break the
// product rules are skipped.
func SeedCatalogFrom(ctx context.Context, userRepo mongodb.UserRepository, productRepo mongodb.ProductRepository, password string, defaultUsers []DefaultUser, defaultProducts []DefaultProduct) error {
	log := logger.MustNamed("bootstrap")
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	log.Debugw("seeding catalog", "users", len(defaultUsers), "products", len(defaultProducts))
	validate := newProductValidator()

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	owners := make(map[string]*models.User, len(defaultUsers))
	for _, du := range defaultUsers {
		user, err := userRepo.GetByEmail(ctx, du.Email)
		switch {
		case err == nil:
			log.Debugw("user already exists", "email", du.Email)
		case errors.Is(err, models.ErrNotFound):
			role := du.Role
			if role == "" {
				role = models.RoleUser
			}
			user = &models.User{Name: du.Name, Email: du.Email, Password: hash, Role: role}
			if err := userRepo.Create(ctx, user); err != nil {
				return fmt.Errorf("failed to create user '%s': %w", du.Email, err)
			}
			log.Infow("created default user", "email", user.Email, "role", user.Role)
		default:
			return fmt.Errorf("failed to check existing user: %w", err)
		}
		owners[mongodb.NormalizeEmail(du.Email)] = user
	}

	for _, dp := range defaultProducts {
		owner, ok := owners[mongodb.NormalizeEmail(dp.OwnerEmail)]
		if !ok {
			log.Warnw("owner not found for default product", "owner_email", dp.OwnerEmail, "name", dp.Name)
			continue
		}

		exists, err := productRepo.ExistsByName(ctx, owner.ID, dp.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		product := &models.Product{
			Name:        dp.Name,
			Description: dp.Description,
			Category:    dp.Category,
			Price:       dp.Price,
			Rating:      dp.Rating,
			ImageURL:    dp.ImageURL,
			OwnerID:     owner.ID,
		}
		verr := models.NewValidationError()
		validateProduct(validate, product, verr, nil)
		if verr.HasErrors() {
			log.Warnw("skipping invalid default product", "name", dp.Name, "error", verr.Message())
			continue
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to create product '%s': %w", dp.Name, err)
		}
		log.Infow("created default product", "name", dp.Name, "owner_email", dp.OwnerEmail)
	}

	return nil
}
