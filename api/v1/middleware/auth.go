package middleware

import (
	"errors"

	"go_rdns/internal/auth"
	"go_rdns/internal/httpx"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthRequired rejects requests the authenticator does not accept with a 401
// and a WWW-Authenticate challenge
func AuthRequired(a auth.Authenticator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := a.Authenticate(c.Request)
		if err == nil {
			c.Next()
			return
		}

		msg := "authentication required"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			msg = "invalid credentials"
		}
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"client": c.ClientIP(),
		}).Warn(msg)

		c.Header("WWW-Authenticate", a.Challenge())
		httpx.Fail(c, nil, httpx.ErrUnauthorized(msg))
		c.Abort()
	}
}
