// Package storage 聚合载荷后端、元数据 KV 与工作队列的初始化.
//
// 元数据 KV 与工作队列允许连接失败：失败时对应句柄为 nil，服务以降级模式运行
// （无去重、无列表、无异步处理），绝不因此拒绝启动.载荷后端是硬依赖.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.New(ctx, configs.GetConfig())
//	if err != nil {
//	    // 处理错误
//	}
//
//	blobStore := mgr.GetBlobStore()
package storage

import (
	"context"
	"fmt"

	"github.com/yeisme/artifactvault/pkg/configs"
	"github.com/yeisme/artifactvault/pkg/internal/storage/blob"
	kvc "github.com/yeisme/artifactvault/pkg/internal/storage/kv"
	"github.com/yeisme/artifactvault/pkg/internal/storage/queue"
	s3c "github.com/yeisme/artifactvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/artifactvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	Blob  *blob.Store
	KV    *kvc.Client     // nil 表示元数据后端不可用（降级模式）
	Queue queue.WorkQueue // nil 表示队列后端不可用（降级模式）
	S3    *s3c.Client     // 仅 s3 后端时非 nil
}

// New 按配置构造 Manager.载荷后端初始化失败返回错误；KV 与队列失败只降级.
func New(ctx context.Context, cfg *configs.AppConfig) (*Manager, error) {
	m := &Manager{}

	// 载荷后端（硬依赖）
	blobStore, s3Client, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init blob store: %w", err)
	}

	m.Blob = blobStore
	m.S3 = s3Client

	// 元数据 KV（允许降级）
	if kvClient, e := kvc.NewKVClient(ctx); e != nil {
		nlog.Logger().Warn().Err(e).Msg("metadata store unavailable, running degraded (no dedup, no listing)")
	} else {
		m.KV = kvClient
	}

	// 工作队列（允许降级）
	if q, e := queue.New(ctx, &cfg.Queue); e != nil {
		nlog.Logger().Warn().Err(e).Msg("work queue unavailable, uploads will not be queued for processing")
	} else {
		m.Queue = q
	}

	nlog.Logger().Info().
		Str("backend", cfg.Artifact.Backend).
		Bool("metadata", m.MetadataAvailable()).
		Bool("queue", m.QueueAvailable()).
		Msg("storage manager initialized")

	return m, nil
}

// newBlobStore 按配置选择默认载荷后端.本地后端始终注册，
// 保证历史 file:// 路径在默认后端切换后仍可读取.
func newBlobStore(ctx context.Context, cfg *configs.AppConfig) (*blob.Store, *s3c.Client, error) {
	local, err := blob.NewLocalBackend(cfg.Artifact.LocalRoot)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Artifact.Backend {
	case "s3":
		s3Client, err := s3c.New(ctx, &cfg.S3, cfg.Artifact.Bucket)
		if err != nil {
			return nil, nil, err
		}

		s3Backend, err := blob.NewS3Backend(s3Client, cfg.Artifact.Bucket)
		if err != nil {
			return nil, nil, err
		}

		store, err := blob.NewStore(s3Backend, local)
		if err != nil {
			return nil, nil, err
		}

		return store, s3Client, nil
	case "local":
		store, err := blob.NewStore(local)
		if err != nil {
			return nil, nil, err
		}

		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported artifact backend: %s", cfg.Artifact.Backend)
	}
}

// MetadataAvailable 元数据后端是否可用.
func (m *Manager) MetadataAvailable() bool {
	return m != nil && m.KV != nil
}

// QueueAvailable 队列后端是否可用.
func (m *Manager) QueueAvailable() bool {
	return m != nil && m.Queue != nil
}

// GetBlobStore 获取载荷存储.
func (m *Manager) GetBlobStore() *blob.Store {
	return m.Blob
}

// GetKVClient 获取元数据 KV 客户端，降级模式下为 nil.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetQueue 获取工作队列，降级模式下为 nil.
func (m *Manager) GetQueue() queue.WorkQueue {
	return m.Queue
}

// Close 关闭所有存储连接.
func (m *Manager) Close() error {
	var err error

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.Queue != nil {
		if e := m.Queue.Close(); e != nil {
			err = e
		}
	}

	if m.S3 != nil {
		if e := m.S3.Close(); e != nil {
			err = e
		}
	}

	return err
}
