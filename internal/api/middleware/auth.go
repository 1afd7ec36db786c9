package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/api/response"
	"github.com/mindmesh/mindmesh-api/internal/identity"
	"github.com/mindmesh/mindmesh-api/internal/repository/redis"
	"github.com/mindmesh/mindmesh-api/internal/security"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware handles bearer token authentication
type AuthMiddleware struct {
	verifier *security.TokenVerifier
	resolver *identity.Resolver
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier *security.TokenVerifier, resolver *identity.Resolver) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, resolver: resolver}
}

// Authenticate validates the bearer token and resolves the caller identity
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		actor, ok := m.resolver.Resolve(claims)
		if !ok {
			response.Unauthorized(w, "token has no subject claim")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), actor)))
	})
}

// WithIdentity returns a context carrying the resolved caller identity
func WithIdentity(ctx context.Context, actor identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, actor)
}

// GetIdentity gets the resolved caller identity from context
func GetIdentity(ctx context.Context) (identity.Identity, bool) {
	actor, ok := ctx.Value(identityKey).(identity.Identity)
	return actor, ok
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies per-user rate limiting
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetIdentity(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), actor.UserID)
		if err != nil {
			// If rate limiter fails, allow the request
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
