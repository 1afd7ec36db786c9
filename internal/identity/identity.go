// Package identity extracts a stable user identity from verified token
// claims. The identity provider is the source of truth; this package only
// normalizes what the token already carries.
package identity

import (
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Namespaced claim keys some identity-provider configurations use for the
// email instead of the standard claim.
var emailClaimKeys = []string{
	"email",
	"https://mindmesh.app/email",
	"https://mindmesh.us.auth0.com/email",
	"user_email",
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Provider subject ids ("auth0|abc123") must never be mistaken for an
	// email address.
	subjectRe = regexp.MustCompile(`^(auth0|google-oauth2|facebook|github|twitter)\|`)
)

// Identity is the resolved actor of a request. Email may be empty when no
// claim yields a valid address; callers treat that as "email unknown".
type Identity struct {
	UserID  string
	Email   string
	Name    string
	Picture string
}

// Resolver resolves identities from token claims.
type Resolver struct {
	logger     zerolog.Logger
	production bool
}

// NewResolver creates a resolver. In non-production mode a failed email
// resolution logs the available claim keys for operator debugging.
func NewResolver(logger zerolog.Logger, production bool) *Resolver {
	return &Resolver{logger: logger, production: production}
}

// Resolve extracts the identity from claims. The subject claim is mandatory
// and never substituted; ok is false when it is absent.
func (r *Resolver) Resolve(claims jwt.MapClaims) (Identity, bool) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, false
	}

	id := Identity{
		UserID:  sub,
		Email:   r.ResolveEmail(claims),
		Name:    stringClaim(claims, "name"),
		Picture: stringClaim(claims, "picture"),
	}
	return id, true
}

// ResolveEmail tries each known claim location in order and returns the
// first syntactically valid email, or "" when none qualifies.
func (r *Resolver) ResolveEmail(claims jwt.MapClaims) string {
	for _, key := range emailClaimKeys {
		if email, ok := claims[key].(string); ok {
			if v := ValidEmail(email); v != "" {
				return v
			}
		}
	}

	if !r.production {
		keys := make([]string, 0, len(claims))
		for k := range claims {
			keys = append(keys, k)
		}
		r.logger.Debug().Strs("claim_keys", keys).Msg("email not found in token claims")
	}
	return ""
}

// ValidEmail returns the trimmed email when it looks like a real address,
// or "" otherwise. Provider subject ids and sub-5-char strings are rejected.
func ValidEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	if len(trimmed) < 5 {
		return ""
	}
	if subjectRe.MatchString(trimmed) {
		return ""
	}
	if !emailRe.MatchString(trimmed) {
		return ""
	}
	return trimmed
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
