// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	"github.com/yeisme/artifactvault/pkg/configs"
	ctxPkg "github.com/yeisme/artifactvault/pkg/context"
	"github.com/yeisme/artifactvault/pkg/internal/service"
	"github.com/yeisme/artifactvault/pkg/internal/storage"
	"github.com/yeisme/artifactvault/pkg/log"
	"github.com/yeisme/artifactvault/pkg/metrics"
	"github.com/yeisme/artifactvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:30 清理超过保留窗口的制品
//   - 每分钟刷新一次工作队列深度指标
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每天 03:30 保留窗口清理
	_ = sched.AddCron(JobRetentionCleanup, CronRetentionCleanup, func(ctx context.Context) {
		runRetentionCleanup(ctx, mgr)
	}, baseCtx)

	// 每分钟刷新队列深度
	_ = sched.AddCron(JobQueueDepthProbe, CronQueueDepthProbe, func(ctx context.Context) {
		runQueueDepthProbe(ctx, mgr)
	}, baseCtx)

	return nil
}

// runRetentionCleanup 删除上传时间早于保留窗口的制品.
func runRetentionCleanup(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobRetentionCleanup).Logger()

	if !mgr.MetadataAvailable() {
		l.Warn().Msg("metadata store unavailable, skipping cleanup")
		return
	}

	svc := service.New(mgr, &configs.GetConfig().Artifact)

	n := svc.CleanupExpired(ctx)
	if n > 0 {
		l.Info().Int("deleted", n).Msg("retention cleanup done")
	}
}

// runQueueDepthProbe 读取队列长度并刷新指标.
func runQueueDepthProbe(ctx context.Context, mgr *storage.Manager) {
	q := mgr.GetQueue()
	if q == nil {
		return
	}

	n, err := q.Len(ctx)
	if err != nil {
		log.Logger().Warn().Err(err).Str("job", JobQueueDepthProbe).Msg("read queue depth failed")
		return
	}

	metrics.QueueDepth.Set(float64(n))
}
