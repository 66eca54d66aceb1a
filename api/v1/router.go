package v1

import (
	"go_rdns/api/v1/middleware"
	"go_rdns/api/v1/reverse"
	"go_rdns/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter sets up the reverse DNS routes. Every route requires
// authentication; rejected requests are not logged as requests.
func SetupRouter(r *gin.Engine, h *reverse.Handler, a auth.Authenticator, log logrus.FieldLogger) {
	r.Use(gin.Recovery())
	r.Use(middleware.AuthRequired(a, log))
	r.Use(middleware.RequestLogger(log))

	r.POST("/buscar-reverso", h.Resolve)
	r.POST("/gravar", h.Write)
	r.POST("/importar", h.Import)
}
