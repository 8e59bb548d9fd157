package delivery

import (
	"net/http"
	"strings"

	"github.com/jordanschwab/petwebsite/internal/auth/token"

	"github.com/gin-gonic/gin"
)

const principalKey = "authPrincipal"

// Principal is the authenticated identity attached to a request. Request
// scoped only; never persisted.
type Principal struct {
	UserID string
	Email  string
}

// TokenVerifier is the slice of the token issuer the middleware needs.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Payload, error)
}

// TryAuthenticate inspects an Authorization header value and returns the
// principal carried by a valid bearer token. A missing header, a malformed
// header, and an unverifiable token all come back as (nil, false); the
// policy of whether that is an error belongs to the caller.
func TryAuthenticate(verifier TokenVerifier, authorization string) (*Principal, bool) {
	if authorization == "" {
		return nil, false
	}
	parts := strings.Split(authorization, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	payload, err := verifier.Verify(parts[1])
	if err != nil {
		return nil, false
	}
	return &Principal{UserID: payload.UserID, Email: payload.Email}, true
}

// Authenticate is the optional stage: it attaches a principal when the
// request carries a valid bearer token and continues either way.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := TryAuthenticate(verifier, c.GetHeader("Authorization")); ok {
			c.Set(principalKey, principal)
		}
		c.Next()
	}
}

// RequireAuth is the mandatory stage: requests that the optional stage left
// unauthenticated are rejected before reaching the handler.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Valid authentication token is required",
				"code":  "AUTH_REQUIRED",
			})
			return
		}
		c.Next()
	}
}

// PrincipalFromContext returns the principal the optional stage attached.
func PrincipalFromContext(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*Principal)
	return principal, ok
}
