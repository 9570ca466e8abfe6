package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yeisme/artifactvault/pkg/internal/model"
)

func TestProcessorConsumesQueuedArtifact(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	a, err := svc.Upload(ctx, []byte("queued content"), "q.txt", "text/plain", "", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	p := NewProcessor(svc, 50*time.Millisecond)
	p.Start(ctx)
	t.Cleanup(p.Stop)

	deadline := time.Now().Add(3 * time.Second)

	for time.Now().Before(deadline) {
		got, err := svc.Get(ctx, a.ArtifactID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		if got != nil && got.ProcessingStatus == model.StatusCompleted {
			if got.ExtractedText != "queued content" {
				t.Errorf("extracted text = %q", got.ExtractedText)
			}

			return
		}

		time.Sleep(20 * time.Millisecond)
	}

	t.Fatal("artifact not processed before deadline")
}

func TestProcessorStartStop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	p := NewProcessor(svc, 50*time.Millisecond)

	if p.Running() {
		t.Fatal("processor running before start")
	}

	p.Start(ctx)

	if !p.Running() {
		t.Fatal("processor not running after start")
	}

	// 重复启动是 no-op，不会产生第二个消费者
	p.Start(ctx)

	p.Stop()

	if p.Running() {
		t.Fatal("processor still running after stop")
	}

	// 重复停止不 panic
	p.Stop()
}

func TestProcessorConcurrentStartStop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	p := NewProcessor(svc, 10*time.Millisecond)

	// Start 与 Stop 并发交错不得 panic，也不得泄漏消费者
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(2)

		go func() {
			defer wg.Done()
			p.Start(ctx)
		}()

		go func() {
			defer wg.Done()
			p.Stop()
		}()
	}

	wg.Wait()

	p.Stop()

	if p.Running() {
		t.Fatal("processor still running after final stop")
	}
}

func TestProcessorWithoutQueue(t *testing.T) {
	ctx := context.Background()
	svc := newDegradedService(t)

	p := NewProcessor(svc, 50*time.Millisecond)
	p.Start(ctx)

	if p.Running() {
		t.Fatal("processor started without a queue backend")
	}
}
