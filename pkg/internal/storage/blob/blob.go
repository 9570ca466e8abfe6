// Package blob 提供制品载荷的持久化后端抽象.
//
// 每个后端产生带 scheme 前缀的存储路径（如 s3://bucket/artifacts/<id>/<name>、
// file:///data/<id>/<name>）.读取与删除按路径的 scheme 分发，因此即使服务的
// 默认后端变更，历史记录仍然可以取回.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrObjectNotFound 载荷不存在.
var ErrObjectNotFound = errors.New("object not found")

// Backend 定义单个载荷存储后端.
type Backend interface {
	// Scheme 返回该后端产生的存储路径前缀（不含 "://"）.
	Scheme() string
	// Store 写入载荷，返回完整存储路径.
	Store(ctx context.Context, artifactID, filename string, data []byte) (string, error)
	// Retrieve 按完整存储路径读取载荷.
	Retrieve(ctx context.Context, storagePath string) ([]byte, error)
	// Delete 按完整存储路径删除载荷.
	Delete(ctx context.Context, storagePath string) error
}

// Store 聚合多个后端，写入走默认后端，读取/删除按路径 scheme 分发.
type Store struct {
	backends map[string]Backend
	def      Backend
}

// NewStore 创建 Store，defaultBackend 必须已包含在 backends 中.
func NewStore(defaultBackend Backend, backends ...Backend) (*Store, error) {
	if defaultBackend == nil {
		return nil, fmt.Errorf("default backend is nil")
	}

	m := map[string]Backend{defaultBackend.Scheme(): defaultBackend}

	for _, b := range backends {
		if b == nil {
			continue
		}

		m[b.Scheme()] = b
	}

	return &Store{backends: m, def: defaultBackend}, nil
}

// DefaultScheme 返回默认后端的 scheme.
func (s *Store) DefaultScheme() string {
	return s.def.Scheme()
}

// Store 通过默认后端写入载荷.
func (s *Store) Store(ctx context.Context, artifactID, filename string, data []byte) (string, error) {
	return s.def.Store(ctx, artifactID, filename, data)
}

// Retrieve 按存储路径读取载荷.
func (s *Store) Retrieve(ctx context.Context, storagePath string) ([]byte, error) {
	b, err := s.backendFor(storagePath)
	if err != nil {
		return nil, err
	}

	return b.Retrieve(ctx, storagePath)
}

// Delete 按存储路径删除载荷.
func (s *Store) Delete(ctx context.Context, storagePath string) error {
	b, err := s.backendFor(storagePath)
	if err != nil {
		return err
	}

	return b.Delete(ctx, storagePath)
}

// backendFor 按 scheme 前缀选择后端.
func (s *Store) backendFor(storagePath string) (Backend, error) {
	scheme, _, ok := strings.Cut(storagePath, "://")
	if !ok {
		return nil, fmt.Errorf("invalid storage path %q", storagePath)
	}

	b, exists := s.backends[scheme]
	if !exists {
		return nil, fmt.Errorf("no backend registered for scheme %q", scheme)
	}

	return b, nil
}
