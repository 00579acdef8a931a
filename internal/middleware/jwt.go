package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pollbox/backend/internal/auth"
	"github.com/pollbox/backend/pkg/response"
)

const (
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserRole is the key for user role in gin context.
	ContextUserRole = "user_role"
	// ContextUserEmail is the key for user email in gin context.
	ContextUserEmail = "user_email"
)

// JWT returns a middleware that validates a bearer token and sets user
// claims in context. Requests without a valid token are rejected.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, reason := bearerClaims(c, jwtService)
		if claims == nil {
			response.Unauthorized(c, reason)
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWT returns a middleware that sets user claims when a valid
// bearer token is present and lets the request proceed anonymously when it
// is not. Public pages use it so admin viewers carry their capability
// without authentication being required of everyone else.
func OptionalJWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := bearerClaims(c, jwtService); claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwtService *auth.JWTService) (*auth.Claims, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, "missing authorization header"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "invalid authorization header"
	}
	claims, err := jwtService.Validate(parts[1])
	if err != nil {
		return nil, "invalid or expired token"
	}
	return claims, ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserRole, claims.Role)
	c.Set(ContextUserEmail, claims.Email)
}
