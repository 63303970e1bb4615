package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "veriflow/pkg/domain-errors"
)

const (
	testKey      = "test-signing-key"
	testIssuer   = "veriflow-test"
	testAudience = "veriflow-api-test"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testKey, testIssuer, testAudience)
	officer := uuid.New()

	token, err := svc.GenerateAccessToken(officer, "VERIFICATION_OFFICER", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, officer.String(), claims.Subject)
	assert.Equal(t, "VERIFICATION_OFFICER", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	adapted, err := NewJWTServiceAdapter(svc).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, officer.String(), adapted.UserID)
	assert.Equal(t, claims.ID, adapted.JTI)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewJWTService(testKey, testIssuer, testAudience)
	subject := uuid.New()

	mint := func(t *testing.T, signer *JWTService, ttl time.Duration) string {
		t.Helper()
		token, err := signer.GenerateAccessToken(subject, "CUSTOMER", ttl)
		require.NoError(t, err)
		return token
	}
	noExpiry := func(t *testing.T) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:  subject.String(),
				Issuer:   testIssuer,
				Audience: jwt.ClaimStrings{testAudience},
			},
		}).SignedString([]byte(testKey))
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		message string
	}{
		{"garbage", func(*testing.T) string { return "not-a-token" }, "invalid token"},
		{"expired", func(t *testing.T) string { return mint(t, svc, -time.Hour) }, "token has expired"},
		{"other audience", func(t *testing.T) string {
			return mint(t, NewJWTService(testKey, testIssuer, "someone-else"), time.Hour)
		}, "invalid token"},
		{"other issuer", func(t *testing.T) string {
			return mint(t, NewJWTService(testKey, "rogue", testAudience), time.Hour)
		}, "invalid token"},
		{"other key", func(t *testing.T) string {
			return mint(t, NewJWTService("another-key", testIssuer, testAudience), time.Hour)
		}, "invalid token"},
		{"no expiry", noExpiry, "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token(t))
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateTokenToleratesClockSkew(t *testing.T) {
	svc := NewJWTService(testKey, testIssuer, testAudience)
	token, err := svc.GenerateAccessToken(uuid.New(), "", -10*time.Second)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)
}
