package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yeisme/artifactvault/pkg/internal/model"
	nlog "github.com/yeisme/artifactvault/pkg/log"
	"github.com/yeisme/artifactvault/pkg/metrics"
)

// Upload 接收制品载荷：校验大小、按内容哈希去重、写入载荷后端、
// 持久化元数据并入队等待处理.
//
// 相同字节的重复上传返回既有记录（幂等），不产生新的存储写入.
// 去重通过 content_hash → artifact_id 索引的原子 insert-if-absent 完成，
// 并发上传相同内容时恰有一个成为正本.元数据后端不可用时去重关闭，
// 每次上传都是新制品（有意的降级行为）.
func (s *ArtifactService) Upload(ctx context.Context, payload []byte, filename, contentType, userID string, tags []string) (*model.Artifact, error) {
	size := int64(len(payload))
	if size > s.maxBytes {
		metrics.UploadCounter.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %d bytes exceeds maximum %d", ErrPayloadTooLarge, size, s.maxBytes)
	}

	sum := sha256.Sum256(payload)
	contentHash := hex.EncodeToString(sum[:])

	artifactID := uuid.NewString()

	reserved, err := s.meta.ReserveHash(ctx, contentHash, artifactID)
	if err != nil {
		// 去重索引读写失败不阻断上传，按新制品继续
		nlog.Logger().Warn().Err(err).Msg("dedup check failed, continuing as fresh upload")

		reserved = true
	}

	if !reserved {
		existing, err := s.meta.FindByHash(ctx, contentHash)
		if err != nil {
			nlog.Logger().Warn().Err(err).Msg("dedup lookup failed, continuing as fresh upload")
		}

		if existing != nil {
			nlog.Logger().Info().
				Str("artifact_id", existing.ArtifactID).
				Str("content_hash", contentHash).
				Msg("duplicate artifact found")
			metrics.UploadCounter.WithLabelValues("deduplicated").Inc()

			return existing, nil
		}
		// 索引指向的记录已消失（过期或被删），覆盖占位继续新上传
	}

	storagePath, err := s.blob.Store(ctx, artifactID, filename, payload)
	if err != nil {
		if reserved {
			s.meta.ReleaseHash(ctx, contentHash)
		}

		metrics.UploadCounter.WithLabelValues("failed").Inc()

		return nil, fmt.Errorf("store artifact payload: %w", err)
	}

	if tags == nil {
		tags = []string{}
	}

	a := &model.Artifact{
		ArtifactID:       artifactID,
		Filename:         filename,
		ContentType:      contentType,
		SizeBytes:        size,
		ContentHash:      contentHash,
		StoragePath:      storagePath,
		ProcessingStatus: model.StatusPending,
		UploadTimestamp:  time.Now().UTC(),
		UserID:           userID,
		Tags:             tags,
	}

	if err := s.meta.Save(ctx, a); err != nil {
		// 元数据写失败不回滚载荷，记录错误后按降级路径返回
		nlog.Logger().Error().Err(err).Str("artifact_id", artifactID).Msg("store artifact metadata failed")
	} else if !reserved {
		// 占位的索引指向了已消失的记录；条目此时已过期则改绑到本次上传，
		// 仍存活（并发上传尚未落盘）则保留对方的占位
		s.meta.BindHash(ctx, contentHash, artifactID)
	}

	s.enqueue(ctx, artifactID)

	nlog.Logger().Info().
		Str("artifact_id", artifactID).
		Str("filename", filename).
		Int64("size_bytes", size).
		Msg("artifact uploaded")
	metrics.UploadCounter.WithLabelValues("stored").Inc()

	return a, nil
}

// enqueue 把制品 ID 推入工作队列.队列不可用或推入失败只记日志，不阻断上传.
func (s *ArtifactService) enqueue(ctx context.Context, artifactID string) {
	if s.queue == nil {
		nlog.Logger().Info().Str("artifact_id", artifactID).Msg("work queue unavailable, skipping enqueue")
		return
	}

	if err := s.queue.Push(ctx, artifactID); err != nil {
		nlog.Logger().Error().Err(err).Str("artifact_id", artifactID).Msg("enqueue artifact failed")
		return
	}

	if n, err := s.queue.Len(ctx); err == nil {
		metrics.QueueDepth.Set(float64(n))
	}

	nlog.Logger().Info().Str("artifact_id", artifactID).Msg("artifact queued for processing")
}
