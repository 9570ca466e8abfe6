package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/artifactvault/pkg/internal/model"
	kvc "github.com/yeisme/artifactvault/pkg/internal/storage/kv"
	nlog "github.com/yeisme/artifactvault/pkg/log"
)

const (
	// artifactKeyPrefix 元数据记录键前缀.
	artifactKeyPrefix = "artifact:"
	// hashIndexPrefix 内容哈希 → 制品 ID 的二级索引键前缀.
	// 与记录前缀分开，避免 "artifact:*" 扫描混入索引键.
	hashIndexPrefix = "hash:"
)

// metaStore 是元数据存储的服务侧适配层：负责 (反)序列化、键命名、TTL 与降级.
//
// 底层 KV 不可用时 store 为 nil，所有写操作变为 no-op、读操作返回空结果；
// 可用性通过 Available 显式暴露，调用方按操作检查一次而不是逐个捕获错误.
type metaStore struct {
	store *kvc.Client
	ttl   time.Duration
}

func newMetaStore(store *kvc.Client, ttl time.Duration) *metaStore {
	return &metaStore{store: store, ttl: ttl}
}

// Available 元数据后端是否可用.
func (m *metaStore) Available() bool {
	return m != nil && m.store != nil
}

// Save 持久化元数据记录，键带保留窗口 TTL.降级模式下直接跳过.
func (m *metaStore) Save(ctx context.Context, a *model.Artifact) error {
	if !m.Available() {
		nlog.Logger().Debug().Str("artifact_id", a.ArtifactID).Msg("metadata store unavailable, skipping save")
		return nil
	}

	data, err := sonic.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artifact metadata: %w", err)
	}

	if err := m.store.Set(ctx, artifactKeyPrefix+a.ArtifactID, data, m.ttl); err != nil {
		return fmt.Errorf("store artifact metadata: %w", err)
	}

	return nil
}

// Get 读取元数据记录.不存在（含已过期、降级模式）返回 (nil, nil).
func (m *metaStore) Get(ctx context.Context, artifactID string) (*model.Artifact, error) {
	if !m.Available() {
		return nil, nil
	}

	data, err := m.store.Get(ctx, artifactKeyPrefix+artifactID)
	if errors.Is(err, kvc.ErrKeyNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get artifact metadata: %w", err)
	}

	var a model.Artifact
	if err := sonic.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal artifact metadata: %w", err)
	}

	return &a, nil
}

// Delete 删除元数据记录与对应的哈希索引.
func (m *metaStore) Delete(ctx context.Context, artifactID, contentHash string) error {
	if !m.Available() {
		return nil
	}

	if err := m.store.Delete(ctx, artifactKeyPrefix+artifactID); err != nil {
		return fmt.Errorf("delete artifact metadata: %w", err)
	}

	if contentHash != "" {
		if err := m.store.Delete(ctx, hashIndexPrefix+contentHash); err != nil {
			nlog.Logger().Warn().Err(err).Str("artifact_id", artifactID).Msg("delete hash index entry failed")
		}
	}

	return nil
}

// All 扫描全部元数据记录.单条读取/解码失败记日志后跳过，批量读取偏向可用性.
func (m *metaStore) All(ctx context.Context) []*model.Artifact {
	if !m.Available() {
		return []*model.Artifact{}
	}

	keys, err := m.store.Keys(ctx, artifactKeyPrefix+"*")
	if err != nil {
		nlog.Logger().Error().Err(err).Msg("scan artifact keys failed")
		return []*model.Artifact{}
	}

	artifacts := make([]*model.Artifact, 0, len(keys))

	for _, key := range keys {
		data, err := m.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, kvc.ErrKeyNotFound) {
				nlog.Logger().Warn().Err(err).Str("key", key).Msg("load artifact metadata failed")
			}

			continue
		}

		var a model.Artifact
		if err := sonic.Unmarshal(data, &a); err != nil {
			nlog.Logger().Warn().Err(err).Str("key", key).Msg("decode artifact metadata failed")
			continue
		}

		artifacts = append(artifacts, &a)
	}

	return artifacts
}

// FindByHash 通过哈希索引查找既有制品.索引缺失或指向已消失的记录返回 nil.
func (m *metaStore) FindByHash(ctx context.Context, contentHash string) (*model.Artifact, error) {
	if !m.Available() {
		return nil, nil
	}

	id, err := m.store.Get(ctx, hashIndexPrefix+contentHash)
	if errors.Is(err, kvc.ErrKeyNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("lookup hash index: %w", err)
	}

	return m.Get(ctx, string(id))
}

// ReserveHash 原子地登记 content_hash → artifact_id 映射.
// 返回 false 表示已有并发或历史上传占住了该哈希.
func (m *metaStore) ReserveHash(ctx context.Context, contentHash, artifactID string) (bool, error) {
	if !m.Available() {
		// 无元数据后端时去重关闭，每次上传都当作新制品
		return true, nil
	}

	ok, err := m.store.SetNX(ctx, hashIndexPrefix+contentHash, []byte(artifactID), m.ttl)
	if err != nil {
		return false, fmt.Errorf("reserve hash index: %w", err)
	}

	return ok, nil
}

// BindHash 尝试重绑 content_hash → artifact_id 映射，
// 用于索引指向已消失记录时的重绑.走 insert-if-absent：
// 索引条目在此期间已过期则绑定成功，仍然存活（并发上传的占位）则保持不动.
func (m *metaStore) BindHash(ctx context.Context, contentHash, artifactID string) {
	if !m.Available() {
		return
	}

	ok, err := m.store.SetNX(ctx, hashIndexPrefix+contentHash, []byte(artifactID), m.ttl)
	if err != nil {
		nlog.Logger().Warn().Err(err).Msg("rebind hash index entry failed")
		return
	}

	if !ok {
		nlog.Logger().Debug().Str("artifact_id", artifactID).Msg("hash index still held, skipping rebind")
	}
}

// ReleaseHash 回收哈希占位（上传中途失败时调用）.
func (m *metaStore) ReleaseHash(ctx context.Context, contentHash string) {
	if !m.Available() {
		return
	}

	if err := m.store.Delete(ctx, hashIndexPrefix+contentHash); err != nil {
		nlog.Logger().Warn().Err(err).Msg("release hash index entry failed")
	}
}
