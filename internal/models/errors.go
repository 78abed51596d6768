package models

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrNotFound = status.Errorf(codes.NotFound, "not found")

var (
	ErrProductNotFound  = status.Error(codes.NotFound, "Product not found")
	ErrImageNotFound    = status.Error(codes.NotFound, "Image not found")
	ErrInvalidProductID = status.Error(codes.InvalidArgument, "Invalid product ID format")
	ErrInvalidImageID   = status.Error(codes.InvalidArgument, "Invalid image ID format")
	ErrInvalidUserID    = status.Error(codes.InvalidArgument, "Invalid user ID format")
	ErrNoFileUploaded   = status.Error(codes.InvalidArgument, "No file uploaded")
	ErrNotAnImage       = status.Error(codes.InvalidArgument, "Only image files are allowed")
	ErrFileTooLarge     = status.Error(codes.InvalidArgument, "File is too large")
	ErrUpdateForbidden  = status.Error(codes.PermissionDenied, "Not authorized to update this product")
	ErrDeleteForbidden  = status.Error(codes.PermissionDenied, "Not authorized to delete this product")
	ErrEmailTaken       = status.Error(codes.AlreadyExists, "User with this email already exists")

	ErrDatabaseUnavailable = status.Error(codes.Unavailable, "Database connection error")
)

// Authentication failures. Each kind carries its own message.
var (
	ErrMissingToken       = status.Error(codes.Unauthenticated, "Authentication required - no token")
	ErrMalformedToken     = status.Error(codes.Unauthenticated, "Authentication required - invalid token format")
	ErrInvalidToken       = status.Error(codes.Unauthenticated, "Invalid token")
	ErrTokenExpired       = status.Error(codes.Unauthenticated, "Token expired")
	ErrTokenMissingUser   = status.Error(codes.Unauthenticated, "Invalid token - no user ID")
	ErrTokenUserNotFound  = status.Error(codes.Unauthenticated, "User not found")
	ErrInvalidCredentials = status.Error(codes.Unauthenticated, "Invalid credentials")
)

// ValidationError reports the fields of a document or request that failed
// validation, keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so the result can be returned as error directly.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Message() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, ", ")
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message())
}

func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Message())
}
