package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobRetentionCleanup = "artifact.retention_cleanup"
	JobQueueDepthProbe  = "artifact.queue_depth_probe"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronRetentionCleanup = "30 3 * * *"
	CronQueueDepthProbe  = "* * * * *"
)
