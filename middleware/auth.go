package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"justeat/guard"
	"justeat/services"
)

// AuthMiddleware attaches the caller's identity when the request carries a
// valid, unrevoked bearer token. Requests without one continue anonymously;
// the guard chain decides whether that is acceptable.
func AuthMiddleware(auth *services.AuthService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			c.Next()
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			RequestLogger(c, log).WithError(err).Debug("Ignoring invalid bearer token")
			c.Next()
			return
		}

		guard.SetIdentity(c, identity)
		c.Next()
	}
}
