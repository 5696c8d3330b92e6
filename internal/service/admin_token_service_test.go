package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

func newAdminTokens() *AdminTokenService {
	return NewAdminTokenService(AdminTokenConfig{Secret: "test-secret", Issuer: "slugtistics-api", Expiration: time.Hour})
}

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := newAdminTokens()

	token, err := svc.Issue("ops@example.com", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, models.AdminScope, claims.Scope)
	assert.NotEmpty(t, claims.ID)
}

func TestAdminTokenRejectsWrongIssuerAndSecret(t *testing.T) {
	other := NewAdminTokenService(AdminTokenConfig{Secret: "test-secret", Issuer: "someone-else"})
	token, err := other.Issue("ops", time.Minute)
	require.NoError(t, err)

	_, err = newAdminTokens().ValidateToken(token.Token)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	forged := NewAdminTokenService(AdminTokenConfig{Secret: "wrong", Issuer: "slugtistics-api"})
	token, err = forged.Issue("ops", time.Minute)
	require.NoError(t, err)
	_, err = newAdminTokens().ValidateToken(token.Token)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAdminTokenRejectsExpired(t *testing.T) {
	svc := newAdminTokens()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.Issue("ops", time.Hour)
	require.NoError(t, err)

	_, err = newAdminTokens().ValidateToken(token.Token)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAdminTokenRequiresAdminScope(t *testing.T) {
	claims := &models.AdminClaims{
		Scope: "reader",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "slugtistics-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newAdminTokens().ValidateToken(signed)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAdminTokenIssueValidation(t *testing.T) {
	_, err := newAdminTokens().Issue(" ", 0)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = NewAdminTokenService(AdminTokenConfig{}).Issue("ops", 0)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
