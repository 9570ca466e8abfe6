package service

import (
	"context"
	"time"

	"github.com/yeisme/artifactvault/pkg/internal/extract"
	"github.com/yeisme/artifactvault/pkg/internal/model"
	nlog "github.com/yeisme/artifactvault/pkg/log"
	"github.com/yeisme/artifactvault/pkg/metrics"
)

// Process 对单个制品执行文本提取，推进状态机
// pending → processing → completed/failed.
//
// 失败以结果值表达而不是 error 返回：处理失败是制品的终态之一，
// 消费循环对失败结果记日志后继续，不会因单个制品中断.
// processing 状态在提取开始前持久化，观察者能看到中间态.
func (s *ArtifactService) Process(ctx context.Context, artifactID string) *model.ProcessingResult {
	start := time.Now()

	a, err := s.meta.Get(ctx, artifactID)
	if err != nil {
		return s.finishProcessing(ctx, nil, artifactID, "", err.Error(), start)
	}

	if a == nil {
		return s.finishProcessing(ctx, nil, artifactID, "", "artifact not found", start)
	}

	now := time.Now().UTC()
	a.ProcessingStatus = model.StatusProcessing
	a.ProcessedTimestamp = &now

	if err := s.meta.Save(ctx, a); err != nil {
		nlog.Logger().Warn().Err(err).Str("artifact_id", artifactID).Msg("persist processing status failed")
	}

	data, err := s.blob.Retrieve(ctx, a.StoragePath)
	if err != nil {
		return s.finishProcessing(ctx, a, artifactID, "", "retrieve artifact payload: "+err.Error(), start)
	}

	text, err := extract.Text(data, a.ContentType)
	if err != nil {
		return s.finishProcessing(ctx, a, artifactID, "", "extract text: "+err.Error(), start)
	}

	return s.finishProcessing(ctx, a, artifactID, text, "", start)
}

// finishProcessing 写回终态并组装处理结果.a 为 nil 表示记录本身不可达，
// 只能返回失败结果而无处落盘终态.
func (s *ArtifactService) finishProcessing(ctx context.Context, a *model.Artifact, artifactID, text, errMsg string, start time.Time) *model.ProcessingResult {
	elapsed := time.Since(start).Seconds()
	success := errMsg == ""

	if a != nil {
		now := time.Now().UTC()
		a.ProcessedTimestamp = &now

		if success {
			a.ProcessingStatus = model.StatusCompleted
			a.ExtractedText = text
		} else {
			a.ProcessingStatus = model.StatusFailed
		}

		if err := s.meta.Save(ctx, a); err != nil {
			nlog.Logger().Error().Err(err).Str("artifact_id", artifactID).Msg("persist terminal processing status failed")
		}
	}

	if success {
		metrics.ProcessingCounter.WithLabelValues("completed").Inc()
		nlog.Logger().Info().
			Str("artifact_id", artifactID).
			Float64("seconds", elapsed).
			Int("text_len", len(text)).
			Msg("artifact processed")
	} else {
		metrics.ProcessingCounter.WithLabelValues("failed").Inc()
		nlog.Logger().Error().
			Str("artifact_id", artifactID).
			Str("error", errMsg).
			Msg("artifact processing failed")
	}

	metrics.ProcessingDuration.Observe(elapsed)

	return &model.ProcessingResult{
		ArtifactID:        artifactID,
		Success:           success,
		ExtractedText:     text,
		ErrorMessage:      errMsg,
		ProcessingSeconds: elapsed,
	}
}
