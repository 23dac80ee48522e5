package jwtauth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"vatour/internal/platform/middleware"
	"vatour/pkg/domerr"
)

// Claims represents the JWT claims minted by the member portal. The engine
// only validates tokens; issuance lives in the external auth system sharing
// the signing key.
type Claims struct {
	UserID string `json:"user_id"`
	VID    string `json:"vid"`
	Staff  bool   `json:"staff"`
	jwt.RegisteredClaims
}

// Validator verifies bearer tokens for the middleware layer.
type Validator struct {
	signingKey []byte
}

func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

func (v *Validator) ValidateToken(tokenString string) (*middleware.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domerr.New(domerr.CodeUnauthorized, "token has expired")
		}
		return nil, domerr.New(domerr.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, domerr.New(domerr.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, domerr.New(domerr.CodeUnauthorized, "invalid token claims")
	}

	return &middleware.Claims{
		UserID: claims.UserID,
		VID:    claims.VID,
		Staff:  claims.Staff,
	}, nil
}
