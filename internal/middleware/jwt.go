package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anchor-ministry/backend/internal/auth"
	"github.com/anchor-ministry/backend/pkg/response"
)

const (
	// ContextName is the key for the pastor's display name in gin context.
	ContextName = "pastor_name"
	// ContextRole is the key for the caller role in gin context.
	ContextRole = "role"
)

// RequirePastor validates the JWT and aborts unless the caller is a pastor.
// Used on all moderator-only routes.
func RequirePastor(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, jwtService)
		if err != nil {
			response.Unauthorized(c, "missing or invalid authorization")
			c.Abort()
			return
		}
		if claims.Role != auth.RolePastor {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Set(ContextName, claims.Name)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalPastor sets the pastor context when a valid token is present and
// lets the request through either way. Used on routes visitors share with
// the pastor (e.g. sending chat messages).
func OptionalPastor(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromHeader(c, jwtService); err == nil && claims.Role == auth.RolePastor {
			c.Set(ContextName, claims.Name)
			c.Set(ContextRole, claims.Role)
		}
		c.Next()
	}
}

// IsPastor reports whether the current request carries a validated pastor
// token.
func IsPastor(c *gin.Context) bool {
	role, ok := c.Get(ContextRole)
	return ok && role == auth.RolePastor
}

func claimsFromHeader(c *gin.Context, jwtService *auth.JWTService) (*auth.Claims, error) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}
	return jwtService.Validate(parts[1])
}
