package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const localScheme = "file"

// LocalBackend 本地文件系统后端，载荷存放在 <root>/<artifact_id>/<filename>.
type LocalBackend struct {
	root string
}

// NewLocalBackend 创建本地后端并确保根目录存在.
func NewLocalBackend(root string) (*LocalBackend, error) {
	if root == "" {
		return nil, fmt.Errorf("local backend root is empty")
	}

	const dirPerm = 0o755

	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("create local root %s: %w", root, err)
	}

	return &LocalBackend{root: root}, nil
}

// Scheme 返回 "file".
func (l *LocalBackend) Scheme() string {
	return localScheme
}

// Store 写入载荷，按需创建父目录.
func (l *LocalBackend) Store(ctx context.Context, artifactID, filename string, data []byte) (string, error) {
	const (
		dirPerm  = 0o755
		filePerm = 0o644
	)

	dir := filepath.Join(l.root, artifactID)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("write artifact file: %w", err)
	}

	return localScheme + "://" + path, nil
}

// Retrieve 读取载荷.
func (l *LocalBackend) Retrieve(ctx context.Context, storagePath string) ([]byte, error) {
	path, err := l.stripScheme(storagePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, storagePath)
	}

	if err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}

	return data, nil
}

// Delete 删除载荷文件，并尽力删除可能已空的父目录（失败忽略）.
func (l *LocalBackend) Delete(ctx context.Context, storagePath string) error {
	path, err := l.stripScheme(storagePath)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact file: %w", err)
	}

	// best-effort：目录非空时 Remove 直接失败
	_ = os.Remove(filepath.Dir(path))

	return nil
}

func (l *LocalBackend) stripScheme(storagePath string) (string, error) {
	path, ok := strings.CutPrefix(storagePath, localScheme+"://")
	if !ok {
		return "", fmt.Errorf("not a local storage path: %s", storagePath)
	}

	return path, nil
}
