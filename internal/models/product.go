package models

import (
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Category    string             `bson:"category" json:"category" validate:"required"`
	Price       float64            `bson:"price" json:"price" validate:"gte=0"`
	Rating      float64            `bson:"rating" json:"rating" validate:"gte=0,lte=5"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	OwnerID     primitive.ObjectID `bson:"userId" json:"-"`
	// Owner is filled by the store when reading, never written.
	Owner     *OwnerProfile `bson:"owner,omitempty" json:"userId"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func (Product) CollectionName() string {
	return "products"
}

// ProductPatch holds the fields of an update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Rating      *float64
	ImageURL    *string
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil &&
		p.Price == nil && p.Rating == nil && p.ImageURL == nil
}

// Apply returns a copy of product with the patch applied.
func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Rating != nil {
		product.Rating = *p.Rating
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	return product
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	p := Pagination{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}

type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Upload is an image file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// StoredImage is an image read back from object storage. Callers must close Content.
type StoredImage struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}
