package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/artifactvault/pkg/internal/handle"
)

// RegisterHealthCheckRoute 注册健康检查路由.
func RegisterHealthCheckRoute(g *gin.RouterGroup) {
	healthRoutes := g.Group("/health")
	{
		healthRoutes.GET("/kv", handle.HealthKV)
		healthRoutes.GET("/s3", handle.HealthS3)
		healthRoutes.GET("/queue", handle.HealthQueue)
	}
}
