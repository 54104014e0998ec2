package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/streetfare/schedule-api/internal/models"
	appErrors "github.com/streetfare/schedule-api/pkg/errors"
)

type mockVendorRepo struct {
	vendor           *models.Vendor
	findErr          error
	lastLoginUpdated bool
}

func (m *mockVendorRepo) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.vendor, nil
}

func (m *mockVendorRepo) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.vendor, nil
}

func (m *mockVendorRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func newAuthService(repo *mockVendorRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{Secret: "secret", Expiration: time.Hour, Issuer: "schedule-api"})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockVendorRepo{vendor: &models.Vendor{ID: "v1", Email: "taco@example.com", PasswordHash: string(password), Name: "Taco Cart", Active: true}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "taco@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "v1", res.Vendor.ID)
	assert.True(t, repo.lastLoginUpdated)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockVendorRepo{vendor: &models.Vendor{ID: "v1", Email: "taco@example.com", PasswordHash: string(password), Active: true}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "taco@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownVendor(t *testing.T) {
	repo := &mockVendorRepo{findErr: sql.ErrNoRows}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockVendorRepo{vendor: &models.Vendor{ID: "v1", Email: "taco@example.com", PasswordHash: string(password), Active: false}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "taco@example.com", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInvalidPayload(t *testing.T) {
	svc := newAuthService(&mockVendorRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateToken(t *testing.T) {
	svc := newAuthService(&mockVendorRepo{})
	vendor := &models.Vendor{ID: "v1", Email: "taco@example.com", Name: "Taco Cart"}
	token, err := svc.generateAccessToken(vendor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "v1", claims.VendorID)
	assert.Equal(t, "taco@example.com", claims.Email)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockVendorRepo{})

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newAuthService(&mockVendorRepo{})
	token, err := svc.generateAccessToken(&models.Vendor{ID: "v1"})
	require.NoError(t, err)

	other := NewAuthService(&mockVendorRepo{}, validator.New(), zap.NewNop(), AuthConfig{Secret: "different", Expiration: time.Hour})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
