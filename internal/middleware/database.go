package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockledger/internal/apperror"
	"stockledger/pkg/response"
)

// RedirectHome is the page clients fall back to when data pages are unusable.
const RedirectHome = "home"

// ConnectionChecker reports whether the document store is reachable.
type ConnectionChecker interface {
	IsConnected() bool
}

// RequireDatabase rejects requests with 503 while no database is connected,
// before any handler touches a repository.
func RequireDatabase(session ConnectionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsConnected() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				response.ErrorWithRedirect(http.StatusServiceUnavailable, apperror.ErrNoDatabaseConnection.Error(), RedirectHome))
			return
		}
		c.Next()
	}
}
