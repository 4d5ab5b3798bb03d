package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evidentia/evidence-store/internal/auth"
)

// Authenticate resolves the caller from the Authorization header and stores the
// principal in the request context. Invalid tokens are refused; a missing header
// makes the caller anonymous.
func Authenticate(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := a.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="evidence-store"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}
