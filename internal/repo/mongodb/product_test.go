package mongodb

import (
	"testing"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"github.com/nguyentranbao-ct/product-catalog/pkg/util"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPatchToSet(t *testing.T) {
	set := patchToSet(models.ProductPatch{
		Name:     util.Ptr("Lamp"),
		Price:    util.Ptr(0.0),
		ImageURL: util.Ptr("http://img"),
	})

	assert.Equal(t, bson.M{"name": "Lamp", "price": 0.0, "imageUrl": "http://img"}, set)
	assert.Empty(t, patchToSet(models.ProductPatch{}))
}

func TestWithOwnerFallback(t *testing.T) {
	owner := primitive.NewObjectID()

	p := &models.Product{OwnerID: owner}
	withOwnerFallback(p)
	assert.Equal(t, &models.OwnerProfile{ID: owner}, p.Owner)

	joined := &models.OwnerProfile{ID: owner, Name: "Ann", Email: "ann@example.com"}
	p = &models.Product{OwnerID: owner, Owner: joined}
	withOwnerFallback(p)
	assert.Same(t, joined, p.Owner)
}

func TestOwnerLookupProjectsPublicFields(t *testing.T) {
	stages := ownerLookupStages()
	assert.Len(t, stages, 2)

	raw, err := bson.Marshal(stages[0])
	assert.NoError(t, err)
	lookup := bson.Raw(raw).Lookup("$lookup", "pipeline")
	assert.Contains(t, lookup.String(), `"name"`)
	assert.Contains(t, lookup.String(), `"email"`)
	assert.NotContains(t, lookup.String(), "password")
}
