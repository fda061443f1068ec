package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"renewal-tracker/internal/transport/http/handler"
	mdw "renewal-tracker/internal/transport/http/middleware"
)

// NewAdminEngine serves the management listener; every route under
// /admin/v1 requires a token whose user carries the admin flag.
func NewAdminEngine(l *zap.Logger, adminH *handler.AdminHandler, auth mdw.Authenticator) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthToken(auth, true))

	admin.GET("/users", adminH.ListUsers)
	admin.POST("/users", adminH.CreateUser)
	admin.DELETE("/users/:id", adminH.DeleteUser)

	admin.GET("/renewals", adminH.ListRenewals)
	admin.GET("/renewals/statistics", adminH.Statistics)

	return r
}
