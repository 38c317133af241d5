package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all routes.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	router.GET("/", handler.Dashboard)

	router.GET("/health", handler.HealthCheck)
	router.HEAD("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthCheck)

		processes := v1.Group("/processes")
		{
			processes.GET("", handler.Report)
			processes.GET("/:status", handler.Section)
			processes.GET("/:status/export", handler.Export)
		}
	}
}
