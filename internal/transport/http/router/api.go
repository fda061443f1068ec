package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"renewal-tracker/internal/transport/http/handler"
	mdw "renewal-tracker/internal/transport/http/middleware"
)

// NewAPIEngine mounts the member-facing contract. Unauthenticated requests
// to any bearer-protected path are cut off with 401 in middleware, before
// any handler runs.
func NewAPIEngine(l *zap.Logger, authH *handler.AuthHandler, renewalH *handler.RenewalHandler, auth mdw.Authenticator) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		cors.Default(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/login", authH.Login)

	authed := r.Group("")
	authed.Use(mdw.AuthToken(auth, false))

	authed.POST("/logout", authH.Logout)
	authed.GET("/user/profile", authH.Profile)

	ren := authed.Group("/renewals")
	ren.GET("", renewalH.List)
	ren.POST("", renewalH.Create)
	ren.GET("/statistics", renewalH.Statistics)
	ren.GET("/status/:status", renewalH.ByStatus)
	ren.GET("/user", renewalH.ListOwn)
	ren.GET("/:id", renewalH.Get)
	ren.PUT("/:id", renewalH.Update)
	ren.PATCH("/:id", renewalH.Update)
	ren.DELETE("/:id", renewalH.Delete)

	return r
}
