package jwttoken

import (
	authmw "veriflow/pkg/platform/middleware/auth"
)

// JWTServiceAdapter satisfies authmw.JWTValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(raw string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(raw)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{
		UserID: claims.Subject,
		Role:   claims.Role,
		JTI:    claims.ID,
	}, nil
}
