package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/nguyentranbao-ct/product-catalog/pkg/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	MaxLimit      = 100
	DefaultSortBy = "createdAt"

	// MaxPage keeps the (page-1)*limit skip from overflowing.
	MaxPage = math.MaxInt / MaxLimit
)

// SortableFields lists the product fields a listing may be ordered by.
var SortableFields = []string{"name", "description", "category", "price", "rating", "createdAt", "updatedAt"}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListProductsRequest is the raw query string of a product listing.
type ListProductsRequest struct {
	Category  string `query:"category"`
	MinPrice  string `query:"minPrice"`
	MaxPrice  string `query:"maxPrice"`
	MinRating string `query:"minRating"`
	Search    string `query:"search"`
	UserID    string `query:"userId"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
	Page      string `query:"page"`
	Limit     string `query:"limit"`
}

// Params converts the raw query into typed, normalized listing parameters.
// Unparseable numeric filters are dropped; a malformed userId is an error.
func (r ListProductsRequest) Params() (ProductListParams, error) {
	p := ProductListParams{
		Category:  r.Category,
		Search:    r.Search,
		SortBy:    r.SortBy,
		SortOrder: SortOrder(r.SortOrder),
		Page:      parseIntOr(r.Page, DefaultPage),
		Limit:     parseIntOr(r.Limit, DefaultLimit),
	}
	if v, ok := ParseFiniteFloat(r.MinPrice); ok {
		p.MinPrice = &v
	}
	if v, ok := ParseFiniteFloat(r.MaxPrice); ok {
		p.MaxPrice = &v
	}
	if v, ok := ParseFiniteFloat(r.MinRating); ok {
		p.MinRating = &v
	}
	if r.UserID != "" {
		oid, err := primitive.ObjectIDFromHex(r.UserID)
		if err != nil {
			return ProductListParams{}, ErrInvalidUserID
		}
		p.OwnerID = &oid
	}
	return p.Normalize(), nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

type ProductListParams struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Search    string
	OwnerID   *primitive.ObjectID
	SortBy    string
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Normalize applies defaults and bounds to paging and sorting.
func (p ProductListParams) Normalize() ProductListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if !util.SliceIncludes(SortableFields, p.SortBy) {
		p.SortBy = DefaultSortBy
	}
	if p.SortOrder != SortAsc {
		p.SortOrder = SortDesc
	}
	return p
}

// ProductRequest is the body of a create or update call, JSON or multipart.
type ProductRequest struct {
	Name        OptString `json:"name" form:"name"`
	Description OptString `json:"description" form:"description"`
	Category    OptString `json:"category" form:"category"`
	Price       OptFloat  `json:"price" form:"price"`
	Rating      OptFloat  `json:"rating" form:"rating"`
	ImageURL    OptString `json:"imageUrl" form:"imageUrl"`
}
