// Package service 实现制品的上传、去重、处理与生命周期管理.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/yeisme/artifactvault/pkg/configs"
	ctxPkg "github.com/yeisme/artifactvault/pkg/context"
	"github.com/yeisme/artifactvault/pkg/internal/model"
	"github.com/yeisme/artifactvault/pkg/internal/storage"
	"github.com/yeisme/artifactvault/pkg/internal/storage/blob"
	"github.com/yeisme/artifactvault/pkg/internal/storage/queue"
	nlog "github.com/yeisme/artifactvault/pkg/log"
)

// ArtifactService 制品服务核心：上传/去重/查询/删除/保留清理.
// 构造时注入全部后端句柄，请求处理器之间不共享任何锁，
// 并发协调完全依赖元数据存储与工作队列.
type ArtifactService struct {
	blob      *blob.Store
	meta      *metaStore
	queue     queue.WorkQueue // nil 表示队列后端不可用
	maxBytes  int64
	retention time.Duration
}

// New 使用显式注入的存储管理器与配置构造服务.
func New(mgr *storage.Manager, cfg *configs.ArtifactConfig) *ArtifactService {
	return &ArtifactService{
		blob:      mgr.GetBlobStore(),
		meta:      newMetaStore(mgr.GetKVClient(), cfg.RetentionDuration()),
		queue:     mgr.GetQueue(),
		maxBytes:  cfg.MaxUploadBytes(),
		retention: cfg.RetentionDuration(),
	}
}

// NewArtifactService 从 context 中取存储管理器构造服务，供请求处理器使用.
func NewArtifactService(c context.Context) *ArtifactService {
	return New(ctxPkg.GetManager(c), &configs.GetConfig().Artifact)
}

// MetadataAvailable 元数据后端是否可用（降级模式可观测性）.
func (s *ArtifactService) MetadataAvailable() bool {
	return s.meta.Available()
}

// Get 查询制品元数据.不存在返回 (nil, nil)，这是正常结果而不是错误.
func (s *ArtifactService) Get(ctx context.Context, artifactID string) (*model.Artifact, error) {
	return s.meta.Get(ctx, artifactID)
}

// Retrieve 按元数据记录读取制品载荷字节.
func (s *ArtifactService) Retrieve(ctx context.Context, a *model.Artifact) ([]byte, error) {
	return s.blob.Retrieve(ctx, a.StoragePath)
}

// List 按可选的 user_id / status 过滤列出制品，按上传时间降序，最多 limit 条.
// 元数据后端不可用时返回空序列（降级保证），绝不报错.
func (s *ArtifactService) List(ctx context.Context, userID string, status model.ProcessingStatus, limit int) []*model.Artifact {
	if !s.meta.Available() {
		nlog.Logger().Info().Msg("metadata store unavailable, cannot list artifacts")
		return []*model.Artifact{}
	}

	all := s.meta.All(ctx)

	filtered := make([]*model.Artifact, 0, len(all))

	for _, a := range all {
		if userID != "" && a.UserID != userID {
			continue
		}

		if status != "" && a.ProcessingStatus != status {
			continue
		}

		filtered = append(filtered, a)
	}

	// 最新的排在最前
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].UploadTimestamp.After(filtered[j].UploadTimestamp)
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered
}

// Delete 删除制品的载荷与元数据.制品不存在返回 false.
// 载荷删除失败只记日志，元数据仍然会被移除——可能留下孤儿载荷，这是已知的权衡.
func (s *ArtifactService) Delete(ctx context.Context, artifactID string) (bool, error) {
	a, err := s.meta.Get(ctx, artifactID)
	if err != nil {
		return false, err
	}

	if a == nil {
		return false, nil
	}

	if err := s.blob.Delete(ctx, a.StoragePath); err != nil {
		nlog.Logger().Warn().Err(err).
			Str("artifact_id", artifactID).
			Str("storage_path", a.StoragePath).
			Msg("delete artifact payload failed, removing metadata anyway")
	}

	if err := s.meta.Delete(ctx, artifactID, a.ContentHash); err != nil {
		return false, err
	}

	nlog.Logger().Info().Str("artifact_id", artifactID).Msg("artifact deleted")

	return true, nil
}

// CleanupExpired 删除上传时间早于保留窗口的制品，返回删除数量.
// 单条删除失败跳过继续，批量操作偏向可用性.由外部调度器周期触发.
func (s *ArtifactService) CleanupExpired(ctx context.Context) int {
	cutoff := time.Now().Add(-s.retention)

	deleted := 0

	for _, a := range s.meta.All(ctx) {
		if !a.UploadTimestamp.Before(cutoff) {
			continue
		}

		ok, err := s.Delete(ctx, a.ArtifactID)
		if err != nil {
			nlog.Logger().Warn().Err(err).Str("artifact_id", a.ArtifactID).Msg("cleanup delete failed")
			continue
		}

		if ok {
			deleted++
		}
	}

	if deleted > 0 {
		nlog.Logger().Info().Int("deleted", deleted).Time("cutoff", cutoff).Msg("cleaned up expired artifacts")
	}

	return deleted
}
