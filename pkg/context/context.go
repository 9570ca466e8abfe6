// Package context 拓展上下文功能，将存储管理器集成到上下文中，方便在应用程序各处传递和使用.
package context

import (
	"context"

	"github.com/yeisme/artifactvault/pkg/internal/storage"
	"github.com/yeisme/artifactvault/pkg/internal/storage/blob"
	kvc "github.com/yeisme/artifactvault/pkg/internal/storage/kv"
	"github.com/yeisme/artifactvault/pkg/internal/storage/queue"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
)

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager 从 context 中获取 Manager.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// GetBlobStore 从 context 中获取载荷存储.
func GetBlobStore(ctx context.Context) *blob.Store {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetBlobStore()
	}

	return nil
}

// GetKVClient 从 context 中获取元数据 KV 客户端.
func GetKVClient(ctx context.Context) *kvc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetKVClient()
	}

	return nil
}

// GetQueue 从 context 中获取工作队列.
func GetQueue(ctx context.Context) queue.WorkQueue {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetQueue()
	}

	return nil
}
