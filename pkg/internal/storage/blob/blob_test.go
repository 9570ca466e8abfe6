package blob_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yeisme/artifactvault/pkg/internal/storage/blob"
)

func newLocalStore(t *testing.T) (*blob.Store, string) {
	t.Helper()

	root := t.TempDir()

	backend, err := blob.NewLocalBackend(root)
	if err != nil {
		t.Fatalf("create local backend: %v", err)
	}

	store, err := blob.NewStore(backend)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	return store, root
}

func TestLocalStoreRetrieveDelete(t *testing.T) {
	ctx := context.Background()
	store, root := newLocalStore(t)

	payload := []byte("hello artifact")

	path, err := store.Store(ctx, "a1", "report.txt", payload)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if !strings.HasPrefix(path, "file://") {
		t.Fatalf("expected file scheme, got %s", path)
	}

	got, err := store.Retrieve(ctx, path)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	if string(got) != string(payload) {
		t.Fatalf("unexpected payload: %s", got)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// 文件和已空的父目录都应被移除
	if _, err := os.Stat(filepath.Join(root, "a1")); !os.IsNotExist(err) {
		t.Fatalf("expected artifact dir removed, got %v", err)
	}

	if _, err := store.Retrieve(ctx, path); !errors.Is(err, blob.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalDeleteKeepsNonEmptyParent(t *testing.T) {
	ctx := context.Background()
	store, root := newLocalStore(t)

	p1, err := store.Store(ctx, "a1", "one.txt", []byte("1"))
	if err != nil {
		t.Fatalf("store one: %v", err)
	}

	if _, err := store.Store(ctx, "a1", "two.txt", []byte("2")); err != nil {
		t.Fatalf("store two: %v", err)
	}

	if err := store.Delete(ctx, p1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// 目录里还有 two.txt，父目录删除失败被忽略
	if _, err := os.Stat(filepath.Join(root, "a1", "two.txt")); err != nil {
		t.Fatalf("sibling file must survive: %v", err)
	}
}

func TestStoreDispatchUnknownScheme(t *testing.T) {
	ctx := context.Background()
	store, _ := newLocalStore(t)

	if _, err := store.Retrieve(ctx, "gcs://bucket/artifacts/a1/x"); err == nil {
		t.Fatal("expected error for unregistered scheme")
	}

	if _, err := store.Retrieve(ctx, "no-scheme-path"); err == nil {
		t.Fatal("expected error for malformed path")
	}
}
