package service

import (
	"context"
	"sync"
	"time"

	nlog "github.com/yeisme/artifactvault/pkg/log"
	"github.com/yeisme/artifactvault/pkg/metrics"
)

// Processor 工作队列的单消费者：循环弹出制品 ID 并逐个处理.
// 同一实例内最多一个消费 goroutine，Start 对运行中的实例是 no-op.
type Processor struct {
	svc        *ArtifactService
	popTimeout time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewProcessor 构造处理器.popTimeout 是单次弹出的阻塞上限，
// 决定停止信号最迟多久被观察到.
func NewProcessor(svc *ArtifactService, popTimeout time.Duration) *Processor {
	return &Processor{
		svc:        svc,
		popTimeout: popTimeout,
	}
}

// Running 消费循环是否在运行.
func (p *Processor) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// Start 启动消费循环.已在运行或队列后端不可用时直接返回.
// 停止/完成通道在 running 置位前创建，并发 Stop 不会观察到未初始化的通道.
func (p *Processor) Start(ctx context.Context) {
	if p.svc.queue == nil {
		nlog.Logger().Warn().Msg("work queue unavailable, processor not started")
		return
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		nlog.Logger().Warn().Msg("processor already running")

		return
	}

	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.running = true
	stop, done := p.stop, p.done
	p.mu.Unlock()

	go p.loop(ctx, stop, done)

	nlog.Logger().Info().Msg("artifact processor started")
}

// Stop 请求停止并等待当前制品处理完毕.未运行时是 no-op，重复调用安全.
func (p *Processor) Stop() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop = nil
	p.mu.Unlock()

	if stop == nil {
		return
	}

	close(stop)
	<-done

	nlog.Logger().Info().Msg("artifact processor stopped")
}

func (p *Processor) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)
	defer p.markStopped()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		p.consumeOne(ctx)
	}
}

func (p *Processor) markStopped() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}

// consumeOne 弹出并处理一个制品.panic 与底层错误都被吸收，
// 消费循环只会因停止信号退出.
func (p *Processor) consumeOne(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			nlog.Logger().Error().Any("panic", r).Msg("processor recovered from panic")
			time.Sleep(time.Second)
		}
	}()

	id, ok, err := p.svc.queue.Pop(ctx, p.popTimeout)
	if err != nil {
		nlog.Logger().Error().Err(err).Msg("pop from work queue failed")
		time.Sleep(time.Second)

		return
	}

	if !ok {
		// 超时无任务，回到循环头部检查停止信号
		return
	}

	if n, lerr := p.svc.queue.Len(ctx); lerr == nil {
		metrics.QueueDepth.Set(float64(n))
	}

	result := p.svc.Process(ctx, id)
	if !result.Success {
		nlog.Logger().Warn().
			Str("artifact_id", id).
			Str("error", result.ErrorMessage).
			Msg("queued artifact failed processing")
	}
}
