package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/artifactvault/pkg/configs"
	"github.com/yeisme/artifactvault/pkg/genai"
	"github.com/yeisme/artifactvault/pkg/internal/model"
	"github.com/yeisme/artifactvault/pkg/internal/service"
	"github.com/yeisme/artifactvault/pkg/internal/types"
	"github.com/yeisme/artifactvault/pkg/log"
)

const summaryPrompt = "Summarize the following document in a few sentences:\n\n"

// SummarizeArtifact 基于已提取文本生成摘要.
// 依赖外部生成服务，路由挂在熔断中间件之后.
//
//	@Summary	生成制品摘要
//	@Tags		生成
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"制品 ID"
//	@Param		body	body		types.SummarizeRequest	false	"生成选项"
//	@Success	200		{object}	types.SummarizeResponse	"摘要响应"
//	@Failure	404		{object}	map[string]string		"制品不存在"
//	@Failure	409		{object}	map[string]string		"制品尚未完成处理"
//	@Failure	502		{object}	map[string]string		"生成服务失败"
//	@Router		/api/v1/artifacts/{id}/summarize [post]
func SummarizeArtifact(c *gin.Context) {
	var req types.SummarizeRequest
	// body 可选，解析失败按默认值处理
	_ = c.ShouldBindJSON(&req)

	svc := service.NewArtifactService(c.Request.Context())

	a, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}

	if a.ProcessingStatus != model.StatusCompleted || a.ExtractedText == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "artifact has no extracted text yet"})
		return
	}

	cfg := &configs.GetConfig().GenAI
	gen := genai.NewHTTPGenerator(cfg)

	summary, err := gen.Generate(c.Request.Context(), summaryPrompt+a.ExtractedText, req.Fast)
	if err != nil {
		log.Logger().Error().Err(err).Str("artifact_id", a.ArtifactID).Msg("summary generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

		return
	}

	usedModel := cfg.ProModel
	if req.Fast {
		usedModel = cfg.FastModel
	}

	c.JSON(http.StatusOK, types.SummarizeResponse{
		ArtifactID: a.ArtifactID,
		Summary:    summary,
		Model:      usedModel,
	})
}
