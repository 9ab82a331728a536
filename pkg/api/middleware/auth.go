package middleware

import (
	"net/http"
	"strings"

	"user-mgmt-go/pkg/auth"
	"user-mgmt-go/pkg/models"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Authenticate attaches the claims of a valid bearer token to the request.
// Requests without a usable token continue anonymously.
func Authenticate(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAuth rejects requests that Authenticate left anonymous.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Claims(c) == nil {
			Unauthorized(c)
			return
		}
		c.Next()
	}
}

// Claims returns the caller's claims, or nil for anonymous requests.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// Unauthorized aborts with a 401 envelope.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.Result[any]{
		Code:    http.StatusUnauthorized,
		Message: "not logged in",
	})
}
