package mongodb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the catalog relies on. Creating an index
// that already exists with the same definition is a no-op.
func EnsureIndexes(ctx context.Context, db *DB) error {
	var (
		product models.Product
		user    models.User
	)

	indexes := map[string][]mongo.IndexModel{
		product.CollectionName(): {
			{
				Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
				Options: options.Index().SetName("name_description_text"),
			},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		user.CollectionName(): {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for coll, specs := range indexes {
		if _, err := db.Database.Collection(coll).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
