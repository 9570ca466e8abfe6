package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yeisme/artifactvault/pkg/configs"
)

// RedisQueue 基于 Redis list 的工作队列：LPUSH 入队 + BRPOP 出队，严格 FIFO.
type RedisQueue struct {
	client *redis.Client
	name   string
}

// NewRedisQueue 创建 Redis 队列实例.
func NewRedisQueue(ctx context.Context, cfg *configs.QueueConfig) (WorkQueue, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试连接
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisQueue{client: rdb, name: cfg.Name}, nil
}

// Push 入队.
func (q *RedisQueue) Push(ctx context.Context, artifactID string) error {
	if err := q.client.LPush(ctx, q.name, artifactID).Err(); err != nil {
		return fmt.Errorf("failed to push to queue: %w", err)
	}

	return nil
}

// Pop 阻塞出队，超时返回空.
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (string, bool, error) {
	vals, err := q.client.BRPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to pop from queue: %w", err)
	}

	// BRPOP 返回 [key, value]
	const brpopReplyLen = 2
	if len(vals) != brpopReplyLen {
		return "", false, fmt.Errorf("unexpected brpop reply: %v", vals)
	}

	return vals[1], true, nil
}

// Len 返回队列长度.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.name).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}

	return n, nil
}

// Close 关闭 Redis 连接.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

func init() {
	RegisterFactory(QueueTypeRedis, NewRedisQueue)
}
