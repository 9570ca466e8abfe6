package handle

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/artifactvault/pkg/internal/model"
	"github.com/yeisme/artifactvault/pkg/internal/service"
	"github.com/yeisme/artifactvault/pkg/internal/types"
	"github.com/yeisme/artifactvault/pkg/log"
	"github.com/yeisme/artifactvault/pkg/rule"
)

// UploadArtifact 处理制品上传（multipart 表单）.
//
//	@Summary		上传制品
//	@Description	接收单个文件，按内容哈希去重后写入存储并入队处理
//	@Tags			制品
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file				true	"上传的文件"
//	@Param			tags	formData	string				false	"标签，逗号分隔"
//	@Success		200		{object}	model.Artifact		"制品记录"
//	@Failure		400		{object}	map[string]string	"请求参数错误"
//	@Failure		413		{object}	map[string]string	"载荷超限"
//	@Failure		500		{object}	map[string]string	"服务器内部错误"
//	@Router			/api/v1/artifacts [post]
func UploadArtifact(c *gin.Context) {
	l := log.Logger()

	file, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("failed to get uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})

		return
	}

	src, err := file.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})

		return
	}
	defer src.Close()

	payload, err := io.ReadAll(src)
	if err != nil {
		l.Error().Err(err).Msg("failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})

		return
	}

	contentType := c.PostForm("content_type")
	if contentType == "" {
		contentType = file.Header.Get("Content-Type")
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	svc := service.NewArtifactService(c.Request.Context())

	a, err := svc.Upload(
		c.Request.Context(),
		payload,
		file.Filename,
		contentType,
		requestUser(c),
		parseTags(c.PostForm("tags")),
	)
	if err != nil {
		if errors.Is(err, service.ErrPayloadTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}

		l.Error().Err(err).Msg("failed to upload artifact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, a)
}

// GetArtifact 查询单个制品元数据.
//
//	@Summary	查询制品
//	@Tags		制品
//	@Produce	json
//	@Param		id	path		string				true	"制品 ID"
//	@Success	200	{object}	model.Artifact		"制品记录"
//	@Failure	404	{object}	map[string]string	"制品不存在"
//	@Failure	500	{object}	map[string]string	"服务器内部错误"
//	@Router		/api/v1/artifacts/{id} [get]
func GetArtifact(c *gin.Context) {
	svc := service.NewArtifactService(c.Request.Context())

	a, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Logger().Error().Err(err).Msg("failed to get artifact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}

	c.JSON(http.StatusOK, a)
}

// DownloadArtifact 下载制品原始载荷.
//
//	@Summary	下载制品载荷
//	@Tags		制品
//	@Produce	octet-stream
//	@Param		id	path		string				true	"制品 ID"
//	@Success	200	{file}		binary				"载荷字节"
//	@Failure	404	{object}	map[string]string	"制品不存在"
//	@Failure	500	{object}	map[string]string	"服务器内部错误"
//	@Router		/api/v1/artifacts/{id}/download [get]
func DownloadArtifact(c *gin.Context) {
	svc := service.NewArtifactService(c.Request.Context())

	a, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Logger().Error().Err(err).Msg("failed to get artifact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}

	data, err := svc.Retrieve(c.Request.Context(), a)
	if err != nil {
		log.Logger().Error().Err(err).Str("artifact_id", a.ArtifactID).Msg("failed to retrieve payload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+a.Filename+"\"")
	c.Data(http.StatusOK, a.ContentType, data)
}

// ListArtifacts 按可选过滤条件列出制品.
//
//	@Summary	列出制品
//	@Tags		制品
//	@Produce	json
//	@Param		user_id	query		string						false	"按用户过滤"
//	@Param		status	query		string						false	"按处理状态过滤"
//	@Param		limit	query		int							false	"返回条数上限"
//	@Success	200		{object}	types.ListArtifactsResponse	"列表响应"
//	@Failure	400		{object}	map[string]string			"请求参数错误"
//	@Router		/api/v1/artifacts [get]
func ListArtifacts(c *gin.Context) {
	var req types.ListArtifactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewArtifactService(c.Request.Context())
	artifacts := svc.List(c.Request.Context(), req.UserID, model.ProcessingStatus(req.Status), req.Limit)

	c.JSON(http.StatusOK, types.ListArtifactsResponse{
		Total:     len(artifacts),
		Artifacts: artifacts,
		Degraded:  !svc.MetadataAvailable(),
	})
}

// DeleteArtifact 删除制品的载荷与元数据.
//
//	@Summary	删除制品
//	@Tags		制品
//	@Produce	json
//	@Param		id	path		string							true	"制品 ID"
//	@Success	200	{object}	types.DeleteArtifactResponse	"删除结果"
//	@Failure	404	{object}	map[string]string				"制品不存在"
//	@Failure	500	{object}	map[string]string				"服务器内部错误"
//	@Router		/api/v1/artifacts/{id} [delete]
func DeleteArtifact(c *gin.Context) {
	id := c.Param("id")
	svc := service.NewArtifactService(c.Request.Context())

	ok, err := svc.Delete(c.Request.Context(), id)
	if err != nil {
		log.Logger().Error().Err(err).Str("artifact_id", id).Msg("failed to delete artifact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}

	c.JSON(http.StatusOK, types.DeleteArtifactResponse{ArtifactID: id, Deleted: true})
}

// ProcessArtifact 同步触发单个制品的处理（通常由后台消费者处理，
// 此入口用于重试失败的制品或队列降级时的手动兜底）.
//
//	@Summary	触发制品处理
//	@Tags		制品
//	@Produce	json
//	@Param		id	path		string					true	"制品 ID"
//	@Success	200	{object}	model.ProcessingResult	"处理结果"
//	@Failure	404	{object}	map[string]string		"制品不存在"
//	@Router		/api/v1/artifacts/{id}/process [post]
func ProcessArtifact(c *gin.Context) {
	id := c.Param("id")
	svc := service.NewArtifactService(c.Request.Context())

	a, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}

	result := svc.Process(c.Request.Context(), id)

	c.JSON(http.StatusOK, result)
}
