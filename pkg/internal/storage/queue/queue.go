// Package queue 提供待处理制品的持久化 FIFO 工作队列.
//
// 上传时入队制品 ID，后台处理器用有界超时的阻塞弹出消费.出队顺序严格 FIFO；
// 完成顺序只在单消费者时与出队顺序一致.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/artifactvault/pkg/configs"
)

// WorkQueue 定义工作队列接口.
type WorkQueue interface {
	// Push 将制品 ID 追加到队尾.
	Push(ctx context.Context, artifactID string) error
	// Pop 从队首弹出一个制品 ID，最多阻塞 timeout；超时返回 ("", false, nil).
	Pop(ctx context.Context, timeout time.Duration) (string, bool, error)
	// Len 返回当前队列长度.
	Len(ctx context.Context) (int64, error)
	// Close 关闭队列连接.
	Close() error
}

// QueueType 队列类型.
type QueueType string

const (
	QueueTypeMemory QueueType = "memory"
	QueueTypeRedis  QueueType = "redis"
)

// Factory 定义创建 WorkQueue 的工厂函数类型.
type Factory func(ctx context.Context, cfg *configs.QueueConfig) (WorkQueue, error)

var factories = make(map[QueueType]Factory)

// RegisterFactory 注册队列工厂函数.
func RegisterFactory(t QueueType, f Factory) {
	factories[t] = f
}

// GetRegisteredTypes 返回已注册的队列类型列表.
func GetRegisteredTypes() []QueueType {
	types := make([]QueueType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	return types
}

// New 根据配置创建 WorkQueue 实例.
func New(ctx context.Context, cfg *configs.QueueConfig) (WorkQueue, error) {
	factory, exists := factories[QueueType(cfg.Type)]
	if !exists {
		return nil, fmt.Errorf("unsupported queue type: %s", cfg.Type)
	}

	return factory(ctx, cfg)
}
