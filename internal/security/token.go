package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier parses and verifies bearer tokens into their raw claims.
// Claims stay as a map because identity providers attach namespaced custom
// claims the identity resolver needs access to.
type TokenVerifier struct {
	secret   []byte
	audience string
	issuer   string
}

// NewTokenVerifier creates a verifier for HS256 tokens.
func NewTokenVerifier(secret, audience, issuer string) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(secret),
		audience: audience,
		issuer:   issuer,
	}
}

// Verify validates the token signature and registered claims and returns
// the full claim set.
func (v *TokenVerifier) Verify(tokenString string) (jwt.MapClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
