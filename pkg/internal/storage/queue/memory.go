package queue

import (
	"context"
	"time"

	"github.com/yeisme/artifactvault/pkg/configs"
)

const memoryQueueCapacity = 4096

// MemoryQueue 基于带缓冲 channel 的进程内队列，用于本地开发与测试.
type MemoryQueue struct {
	ch chan string
}

// NewMemoryQueue 创建内存队列实例.
func NewMemoryQueue(ctx context.Context, cfg *configs.QueueConfig) (WorkQueue, error) {
	return &MemoryQueue{ch: make(chan string, memoryQueueCapacity)}, nil
}

// Push 入队，队列满时阻塞直到有空间或 ctx 取消.
func (q *MemoryQueue) Push(ctx context.Context, artifactID string) error {
	select {
	case q.ch <- artifactID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop 阻塞出队，超时返回空.
func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration) (string, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case id := <-q.ch:
		return id, true, nil
	case <-timer.C:
		return "", false, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Len 返回当前队列长度.
func (q *MemoryQueue) Len(ctx context.Context) (int64, error) {
	return int64(len(q.ch)), nil
}

// Close 关闭队列（内存实现无需操作）.
func (q *MemoryQueue) Close() error {
	return nil
}

func init() {
	RegisterFactory(QueueTypeMemory, NewMemoryQueue)
}
