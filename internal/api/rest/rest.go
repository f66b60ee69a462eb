package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/ds8/tip-allowance/internal/api/middleware"
	"github.com/ds8/tip-allowance/internal/metrics"
)

// SetupRoutes configures all REST API routes. A nil authenticator leaves the API open.
func SetupRoutes(router *gin.Engine, handler Handler, authn *middleware.Authenticator) {
	// Health check and metrics (no auth, no version prefix)
	router.GET("/healthz", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/allowance/:fid", middleware.Auth(authn, middleware.ScopeAllowance), handler.GetAllowance)
		v1.GET("/raindrop/:fid", middleware.Auth(authn, middleware.ScopeRaindrop), handler.GetRaindrop)
	}
}
