// Package auth issues and verifies bearer access tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
)

// ErrMissingToken flags requests without a bearer token.
var ErrMissingToken = apperrors.New(apperrors.CodeUnauthenticated, "access token is required")

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Secret string        `env:"ALMANAC_TOKEN_SECRET"`
	Issuer string        `env:"ALMANAC_TOKEN_ISSUER" envDefault:"almanac"`
	TTL    time.Duration `env:"ALMANAC_TOKEN_TTL" envDefault:"24h"`
}

// TokenConfig defines how access tokens are signed and verified.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// Claims captures the validated identity carried by an access token.
type Claims struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// accessClaims is the internal claims type used for JWT signing and parsing.
type accessClaims struct {
	jwt.RegisteredClaims
}

// LoadTokenConfigFromEnv reads token signing configuration.
func LoadTokenConfigFromEnv(now func() time.Time) (TokenConfig, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return TokenConfig{}, fmt.Errorf("parse token env: %w", err)
	}
	secret := strings.TrimSpace(raw.Secret)
	if secret == "" {
		return TokenConfig{}, fmt.Errorf("ALMANAC_TOKEN_SECRET is required")
	}
	if raw.TTL <= 0 {
		return TokenConfig{}, fmt.Errorf("ALMANAC_TOKEN_TTL must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return TokenConfig{
		Secret: []byte(secret),
		Issuer: strings.TrimSpace(raw.Issuer),
		TTL:    raw.TTL,
		Now:    now,
	}, nil
}

// IssueToken signs an access token for the given user identity.
func IssueToken(userID string, cfg TokenConfig) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if len(cfg.Secret) == 0 {
		return "", errors.New("token signer is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	now := cfg.Now().UTC()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses an access token and validates its claims.
func VerifyToken(token string, cfg TokenConfig) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrMissingToken
	}
	if len(cfg.Secret) == 0 {
		return Claims{}, errors.New("token verifier is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var parsed accessClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(cfg.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if cfg.Issuer != "" && parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token issuer mismatch")
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token subject is required")
	}

	claims := Claims{
		UserID:    parsed.Subject,
		TokenID:   parsed.ID,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperrors.New(apperrors.CodeTokenExpired, "token is expired")
	}
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.New(apperrors.CodeUnauthenticated, "token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeUnauthenticated, "token alg is invalid")
	}
	return apperrors.New(apperrors.CodeUnauthenticated, "token is invalid")
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
