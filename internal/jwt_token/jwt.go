// Package jwttoken issues and validates the HS256 access tokens that carry
// the acting user's ID in the subject claim.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "veriflow/pkg/domain-errors"
)

// clockSkew tolerates small differences between issuer and server clocks.
const clockSkew = 30 * time.Second

// Claims is the access token body.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies tokens for one issuer and audience.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	parser     *jwt.Parser
}

func NewJWTService(signingKey, issuer, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// GenerateAccessToken mints a token for userID that expires after ttl. The
// seeding tools and tests use it; production tokens come from the identity
// provider sharing the signing key.
func (s *JWTService) GenerateAccessToken(userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// ValidateToken verifies signature, issuer, audience and expiry. Every
// failure is reported as CodeUnauthorized.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}
