package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/artifactvault/pkg/configs"
	"github.com/yeisme/artifactvault/pkg/internal/handle"
	"github.com/yeisme/artifactvault/pkg/middleware"
)

// RegisterArtifactsRoutes 注册制品操作相关路由.
func RegisterArtifactsRoutes(g *gin.RouterGroup) {
	artifactsRoutes := g.Group("/artifacts")
	{
		// 上传制品
		artifactsRoutes.POST("", handle.UploadArtifact)
		// 列表/过滤
		artifactsRoutes.GET("", handle.ListArtifacts)

		// 单个制品操作
		singleGroup := artifactsRoutes.Group("/:id")
		{
			// 查询元数据
			singleGroup.GET("", handle.GetArtifact)
			// 删除制品
			singleGroup.DELETE("", handle.DeleteArtifact)
			// 下载载荷
			singleGroup.GET("/download", handle.DownloadArtifact)
			// 手动触发处理（重试/降级兜底）
			singleGroup.POST("/process", handle.ProcessArtifact)
			// 生成摘要，外部生成服务挂熔断保护
			singleGroup.POST("/summarize",
				middleware.CircuitBreakerMiddleware(configs.GetConfig().Breaker),
				handle.SummarizeArtifact,
			)
		}
	}
}
