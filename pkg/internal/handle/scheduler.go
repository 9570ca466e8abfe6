package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/artifactvault/pkg/middleware"
)

// ListScheduledJobs 列出所有定时任务及其运行状态.
//
//	@Summary	定时任务列表
//	@Tags		调度
//	@Produce	json
//	@Success	200	{array}		scheduler.JobInfo
//	@Failure	503	{object}	map[string]string	"调度器未初始化"
//	@Router		/api/v1/scheduler/jobs [get]
func ListScheduledJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not initialized"})
		return
	}

	c.JSON(http.StatusOK, sched.GetJobInfos())
}
