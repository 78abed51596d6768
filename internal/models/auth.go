package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID    primitive.ObjectID
	Email string
	Role  Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanModify reports whether the caller may update or delete a resource owned by ownerID.
func (c Caller) CanModify(ownerID primitive.ObjectID) bool {
	return c.IsAdmin() || c.ID == ownerID
}
