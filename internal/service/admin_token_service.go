package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/slugtistics-api/internal/dto"
	"github.com/noah-isme/slugtistics-api/internal/models"
	appErrors "github.com/noah-isme/slugtistics-api/pkg/errors"
)

// AdminTokenConfig carries the signing settings for admin tokens.
type AdminTokenConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// AdminTokenService mints and validates admin bearer tokens.
type AdminTokenService struct {
	cfg AdminTokenConfig
	now func() time.Time
}

// NewAdminTokenService constructs an AdminTokenService.
func NewAdminTokenService(cfg AdminTokenConfig) *AdminTokenService {
	if cfg.Expiration <= 0 {
		cfg.Expiration = 24 * time.Hour
	}
	return &AdminTokenService{cfg: cfg, now: time.Now}
}

// Issue signs an admin token for subject. A zero ttl uses the configured expiration.
func (s *AdminTokenService) Issue(subject string, ttl time.Duration) (*dto.AdminToken, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject is required")
	}
	if s.cfg.Secret == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "admin token secret is not configured")
	}
	if ttl <= 0 {
		ttl = s.cfg.Expiration
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(ttl)
	claims := &models.AdminClaims{
		Scope: models.AdminScope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign admin token")
	}
	return &dto.AdminToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses an admin token and checks its signature, issuer and scope.
func (s *AdminTokenService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Scope != models.AdminScope {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin scope required")
	}
	return claims, nil
}
