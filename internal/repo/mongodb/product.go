package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	// GetByID returns the product with its owner profile joined in.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, params models.ProductListParams) (*PaginateWithTotal[models.Product], error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ExistsByName(ctx context.Context, ownerID primitive.ObjectID, name string) (bool, error)
}

type productRepo struct {
	baseRepo[models.Product]
}

func NewProductRepository(db *DB) ProductRepository {
	return &productRepo{
		baseRepo: newBaseRepo[models.Product](db.Database),
	}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Owner = nil

	if _, err := r.Insert(ctx, *product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}
	pipeline = append(pipeline, ownerLookupStages()...)

	product, err := r.AggregateOne(ctx, pipeline)
	if errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	withOwnerFallback(product)
	return product, nil
}

func (r *productRepo) List(ctx context.Context, params models.ProductListParams) (*PaginateWithTotal[models.Product], error) {
	q := BuildProductQuery(params)
	page, err := r.PaginateWithTotal(ctx, q.Filter, q.Sort, q.Limit, q.Skip, ownerLookupStages()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for i := range page.Data {
		withOwnerFallback(&page.Data[i])
	}
	return page, nil
}

func (r *productRepo) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error) {
	set := patchToSet(patch)
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	if err := r.UpdateByID(ctx, id, set); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *productRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := r.DeleteByID(ctx, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return err
}

func (r *productRepo) ExistsByName(ctx context.Context, ownerID primitive.ObjectID, name string) (bool, error) {
	n, err := r.Count(ctx, bson.M{"userId": ownerID, "name": name})
	if err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	return n > 0, nil
}

func patchToSet(patch models.ProductPatch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.ImageURL != nil {
		set["imageUrl"] = *patch.ImageURL
	}
	return set
}

// ownerLookupStages joins the owner's public profile into "owner". The
// credential fields never leave the users collection.
func ownerLookupStages() []bson.D {
	var user models.User
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: user.CollectionName()},
			{Key: "let", Value: bson.D{{Key: "ownerId", Value: "$userId"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$_id", "$$ownerId"}},
				}}}}},
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "name", Value: 1},
					{Key: "email", Value: 1},
				}}},
			}},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// withOwnerFallback keeps the owner reference when the user no longer exists.
func withOwnerFallback(p *models.Product) {
	if p.Owner == nil {
		p.Owner = &models.OwnerProfile{ID: p.OwnerID}
	}
}
