package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	a "github.com/you/badminton-network/pkg/auth"
)

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		tok := strings.TrimPrefix(h, "Bearer ")
		claims, err := a.ParseValidate(tok)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set("sub", claims.Sub)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Next()
	}
}

// OptionalAuth sets the caller's identity when a valid token is present but
// lets anonymous requests through; a bad token just reads as signed out.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			if claims, err := a.ParseValidate(strings.TrimPrefix(h, "Bearer ")); err == nil {
				c.Set("sub", claims.Sub)
				c.Set("email", claims.Email)
				c.Set("name", claims.Name)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated subject, empty when signed out.
func UserID(c *gin.Context) string {
	v, _ := c.Get("sub")
	id, _ := v.(string)
	return id
}
