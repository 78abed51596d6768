package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"github.com/nguyentranbao-ct/product-catalog/internal/repo/mongodb"
)

type tokenClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type authUsecase struct {
	userRepo  mongodb.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthUsecase(userRepo mongodb.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (uc *authUsecase) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	// admins are only created by the bootstrap data, a requested role is ignored
	_, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, models.ErrEmailTaken
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return uc.respond(user)
}

func (uc *authUsecase) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return uc.respond(user)
}

func (uc *authUsecase) Authenticate(ctx context.Context, tokenString string) (*models.Caller, error) {
	claims, err := uc.parseJWT(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, models.ErrTokenMissingUser
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrTokenUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &models.Caller{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (uc *authUsecase) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrTokenUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (uc *authUsecase) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := uc.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (uc *authUsecase) generateJWT(user *models.User) (string, error) {
	now := uc.now()
	claims := tokenClaims{
		UserID: user.ID.Hex(),
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.jwtSecret)
}

func (uc *authUsecase) parseJWT(tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return uc.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(uc.now),
	)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, models.ErrTokenExpired
	default:
		return nil, models.ErrInvalidToken
	}
}

// HashPassword bcrypt-hashes a plain text password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
