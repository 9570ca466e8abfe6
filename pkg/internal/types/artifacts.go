// Package types 定义HTTP接口的请求与响应结构.
package types

import (
	"github.com/yeisme/artifactvault/pkg/internal/model"
)

// ListArtifactsRequest 列表查询参数.
type ListArtifactsRequest struct {
	UserID string `form:"user_id"`
	Status string `form:"status"  rule:"omitempty,oneof=pending processing completed failed"`
	Limit  int    `form:"limit"   rule:"gte=0,lte=1000"`
}

// ListArtifactsResponse 列表响应.
type ListArtifactsResponse struct {
	Total     int               `json:"total"`
	Artifacts []*model.Artifact `json:"artifacts"`
	Degraded  bool              `json:"degraded,omitempty"`
}

// DeleteArtifactResponse 删除响应.
type DeleteArtifactResponse struct {
	ArtifactID string `json:"artifact_id"`
	Deleted    bool   `json:"deleted"`
}

// StatsResponse 制品统计响应.
type StatsResponse struct {
	Total      int            `json:"total"`
	TotalBytes int64          `json:"total_bytes"`
	ByStatus   map[string]int `json:"by_status"`
	QueueDepth int64          `json:"queue_depth"`
	Degraded   bool           `json:"degraded,omitempty"`
}

// SummarizeRequest 摘要生成请求.
type SummarizeRequest struct {
	Fast bool `json:"fast" form:"fast"`
}

// SummarizeResponse 摘要生成响应.
type SummarizeResponse struct {
	ArtifactID string `json:"artifact_id"`
	Summary    string `json:"summary"`
	Model      string `json:"model"`
}
