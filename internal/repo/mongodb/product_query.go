package mongodb

import (
	"regexp"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductQuery is the store query for one page of a product listing.
// Filter is also used, on its own, for the total count.
type ProductQuery struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// BuildProductQuery translates listing parameters into a filter, sort and
// page window. All criteria are combined with AND.
func BuildProductQuery(params models.ProductListParams) ProductQuery {
	p := params.Normalize()
	filter := bson.M{}

	if p.Category != "" {
		filter["category"] = p.Category
	}

	if p.MinPrice != nil || p.MaxPrice != nil {
		price := bson.M{}
		if p.MinPrice != nil {
			price["$gte"] = *p.MinPrice
		}
		if p.MaxPrice != nil {
			price["$lte"] = *p.MaxPrice
		}
		filter["price"] = price
	}

	if p.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *p.MinRating}
	}

	if p.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(p.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	if p.OwnerID != nil {
		filter["userId"] = *p.OwnerID
	}

	direction := -1
	if p.SortOrder == models.SortAsc {
		direction = 1
	}
	sort := bson.D{{Key: p.SortBy, Value: direction}}
	// _id keeps pages stable when the sort key has ties
	if p.SortBy != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: direction})
	}

	return ProductQuery{
		Filter: filter,
		Sort:   sort,
		Skip:   int64(p.Page-1) * int64(p.Limit),
		Limit:  int64(p.Limit),
	}
}
