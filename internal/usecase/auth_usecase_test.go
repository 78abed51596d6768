package usecase_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"github.com/nguyentranbao-ct/product-catalog/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuth() (*mockUserRepo, usecase.AuthUsecase) {
	repo := &mockUserRepo{}
	return repo, usecase.NewAuthUsecase(repo, testSecret, time.Hour)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestRegister(t *testing.T) {
	repo, auth := newAuth()

	repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, models.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Ann" && u.Role == models.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = primitive.NewObjectID()
	}).Return(nil)

	resp, err := auth.Register(t.Context(), models.RegisterRequest{
		Name:     " Ann ",
		Email:    "ann@example.com",
		Password: "secret1",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleUser, resp.User.Role)

	caller := models.Caller{ID: resp.User.ID, Email: resp.User.Email, Role: models.RoleUser}
	repo.On("GetByID", mock.Anything, resp.User.ID).Return(&resp.User, nil)
	got, err := auth.Authenticate(t.Context(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, caller, *got)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo, auth := newAuth()
	repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(&models.User{Email: "ann@example.com"}, nil)

	_, err := auth.Register(t.Context(), models.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	repo, auth := newAuth()
	user := &models.User{ID: primitive.NewObjectID(), Email: "ann@example.com", Password: hashed(t, "secret1"), Role: models.RoleUser}
	repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(user, nil)
	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, models.ErrNotFound)

	resp, err := auth.Login(t.Context(), models.LoginRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = auth.Login(t.Context(), models.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = auth.Login(t.Context(), models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthenticateFailures(t *testing.T) {
	userID := primitive.NewObjectID()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  error
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not.a.jwt" },
			want:  models.ErrInvalidToken,
		},
		{
			name: "wrong signature",
			token: func(t *testing.T) string {
				return signToken(t, "other-secret", jwt.MapClaims{"id": userID.Hex(), "exp": future})
			},
			want: models.ErrInvalidToken,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return signToken(t, testSecret, jwt.MapClaims{"id": userID.Hex(), "exp": time.Now().Add(-time.Minute).Unix()})
			},
			want: models.ErrTokenExpired,
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				return signToken(t, testSecret, jwt.MapClaims{"id": userID.Hex()})
			},
			want: models.ErrInvalidToken,
		},
		{
			name: "no user id",
			token: func(t *testing.T) string {
				return signToken(t, testSecret, jwt.MapClaims{"exp": future})
			},
			want: models.ErrTokenMissingUser,
		},
		{
			name: "user deleted",
			token: func(t *testing.T) string {
				return signToken(t, testSecret, jwt.MapClaims{"id": userID.Hex(), "exp": future})
			},
			want: models.ErrTokenUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, auth := newAuth()
			repo.On("GetByID", mock.Anything, userID).Return(nil, models.ErrNotFound).Maybe()

			_, err := auth.Authenticate(t.Context(), tt.token(t))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthenticateUsesStoredRole(t *testing.T) {
	repo, auth := newAuth()
	admin := &models.User{ID: primitive.NewObjectID(), Email: "root@example.com", Role: models.RoleAdmin}
	repo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	token := signToken(t, testSecret, jwt.MapClaims{
		"id":   admin.ID.Hex(),
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	caller, err := auth.Authenticate(t.Context(), token)
	require.NoError(t, err)
	assert.True(t, caller.IsAdmin())
}
