package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/artifactvault/pkg/context"
	"github.com/yeisme/artifactvault/pkg/internal/service"
	"github.com/yeisme/artifactvault/pkg/internal/types"
)

// GetArtifactStats 制品统计汇总：总量、总字节数、按状态分布与队列深度.
//
//	@Summary	制品统计汇总
//	@Tags		统计
//	@Produce	json
//	@Success	200	{object}	types.StatsResponse
//	@Router		/api/v1/stats/artifacts [get]
func GetArtifactStats(c *gin.Context) {
	svc := service.NewArtifactService(c.Request.Context())

	resp := types.StatsResponse{
		ByStatus: make(map[string]int),
		Degraded: !svc.MetadataAvailable(),
	}

	for _, a := range svc.List(c.Request.Context(), "", "", 0) {
		resp.Total++
		resp.TotalBytes += a.SizeBytes
		resp.ByStatus[string(a.ProcessingStatus)]++
	}

	if q := ctxPkg.GetQueue(c.Request.Context()); q != nil {
		if n, err := q.Len(c.Request.Context()); err == nil {
			resp.QueueDepth = n
		}
	}

	c.JSON(http.StatusOK, resp)
}
