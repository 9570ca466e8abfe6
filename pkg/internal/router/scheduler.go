package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/artifactvault/pkg/internal/handle"
)

// RegisterSchedulerRoutes 注册调度器可视化路由.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	schedulerRoutes := g.Group("/scheduler")
	{
		schedulerRoutes.GET("/jobs", handle.ListScheduledJobs)
	}
}
