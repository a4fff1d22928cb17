package middlewares

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/auth"
)

// PrincipalKey is the gin context key under which the resolved
// Principal is stored.
const PrincipalKey = "principal"

// RequireAuth resolves the bearer credential and aborts with 401 when
// it is missing or invalid.
func RequireAuth(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or session expired"})
			} else {
				log.Println("Error resolving principal:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during authentication"})
			}
			c.Abort()
			return
		}
		if principal == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization header"})
			c.Abort()
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// OptionalAuth resolves the credential when one is present but never
// rejects the request; resolution errors leave the request anonymous.
func OptionalAuth(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err == nil && principal != nil {
			c.Set(PrincipalKey, principal)
		}
		c.Next()
	}
}

// GetPrincipal returns the resolved Principal, or nil for anonymous
// requests.
func GetPrincipal(c *gin.Context) *auth.Principal {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*auth.Principal)
	if !ok {
		return nil
	}
	return principal
}
