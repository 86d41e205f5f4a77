// internal/mockapi/jwt.go
package mockapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the access-token payload.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates the HS256 token pairs the login
// endpoint hands out.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

const tokenIssuer = "storefront-mockapi"

// NewTokenIssuer creates an issuer with TTLs given in hours.
func NewTokenIssuer(secret string, accessTTLHours, refreshTTLHours int) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLHours) * time.Hour,
		refreshTTL: time.Duration(refreshTTLHours) * time.Hour,
	}
}

// IssuePair returns an access/refresh token pair for username.
func (t *TokenIssuer) IssuePair(username string) (access, refresh string, err error) {
	now := time.Now()
	accessClaims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   username,
		},
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(t.secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
		Subject:   username,
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(t.secret)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ValidateAccess parses and verifies an access token.
func (t *TokenIssuer) ValidateAccess(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
