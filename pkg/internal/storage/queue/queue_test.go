package queue_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/yeisme/artifactvault/pkg/configs"
	"github.com/yeisme/artifactvault/pkg/internal/storage/queue"
)

func newMemoryQueue(t *testing.T) queue.WorkQueue {
	t.Helper()

	cfg := &configs.QueueConfig{Type: "memory", Name: "test"}

	q, err := queue.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("create memory queue: %v", err)
	}

	return q
}

func newRedisQueue(t *testing.T) queue.WorkQueue {
	t.Helper()

	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}

	t.Cleanup(srv.Close)

	cfg := &configs.QueueConfig{
		Type:  "redis",
		Name:  "test:queue",
		Redis: configs.RedisKVConfig{Addr: srv.Addr()},
	}

	q, err := queue.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("create redis queue: %v", err)
	}

	t.Cleanup(func() { _ = q.Close() })

	return q
}

func testQueues(t *testing.T) map[string]queue.WorkQueue {
	t.Helper()

	return map[string]queue.WorkQueue{
		"memory": newMemoryQueue(t),
		"redis":  newRedisQueue(t),
	}
}

func TestQueueFIFO(t *testing.T) {
	ctx := context.Background()

	for name, q := range testQueues(t) {
		t.Run(name, func(t *testing.T) {
			ids := []string{"a1", "a2", "a3"}
			for _, id := range ids {
				if err := q.Push(ctx, id); err != nil {
					t.Fatalf("push %s: %v", id, err)
				}
			}

			n, err := q.Len(ctx)
			if err != nil {
				t.Fatalf("len: %v", err)
			}

			if n != int64(len(ids)) {
				t.Fatalf("unexpected length: %d", n)
			}

			for _, want := range ids {
				got, ok, err := q.Pop(ctx, time.Second)
				if err != nil {
					t.Fatalf("pop: %v", err)
				}

				if !ok {
					t.Fatal("expected item, got timeout")
				}

				if got != want {
					t.Fatalf("fifo violated: got %s, want %s", got, want)
				}
			}
		})
	}
}

func TestQueuePopTimeout(t *testing.T) {
	ctx := context.Background()

	for name, q := range testQueues(t) {
		t.Run(name, func(t *testing.T) {
			start := time.Now()

			_, ok, err := q.Pop(ctx, 100*time.Millisecond)
			if err != nil {
				t.Fatalf("pop: %v", err)
			}

			if ok {
				t.Fatal("expected timeout on empty queue")
			}

			if time.Since(start) > 3*time.Second {
				t.Fatal("pop blocked far longer than timeout")
			}
		})
	}
}
