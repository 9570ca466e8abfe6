// Package handle 新增健康检查处理器实现.
package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/artifactvault/pkg/context"
)

const timeout = 2 * time.Second

// HealthKV 元数据存储健康检查.降级模式下返回 503，但服务整体仍可上传.
func HealthKV(c *gin.Context) {
	kvc := ctxPkg.GetKVClient(c.Request.Context())
	if kvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "kv", "status": "degraded", "error": "metadata store not initialized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if _, err := kvc.Exists(ctx, "health:probe"); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "kv", "status": "unhealthy", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "kv", "status": "ok"})
}

// HealthS3 S3/对象存储健康检查.本地后端部署时该组件不存在，直接返回 ok.
func HealthS3(c *gin.Context) {
	mgr := ctxPkg.GetManager(c.Request.Context())
	if mgr == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "s3", "status": "unhealthy", "error": "storage manager not initialized"})
		return
	}

	if mgr.S3 == nil {
		c.JSON(http.StatusOK, gin.H{"component": "s3", "status": "not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := mgr.S3.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "s3", "status": "unhealthy", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "s3", "status": "ok"})
}

// HealthQueue 工作队列健康检查.
func HealthQueue(c *gin.Context) {
	q := ctxPkg.GetQueue(c.Request.Context())
	if q == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "queue", "status": "degraded", "error": "work queue not initialized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	depth, err := q.Len(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "queue", "status": "unhealthy", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "queue", "status": "ok", "depth": depth})
}
