package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/artifactvault/pkg/configs"
	"github.com/yeisme/artifactvault/pkg/internal/model"
	"github.com/yeisme/artifactvault/pkg/internal/storage"
	"github.com/yeisme/artifactvault/pkg/internal/storage/blob"
	kvc "github.com/yeisme/artifactvault/pkg/internal/storage/kv"
	"github.com/yeisme/artifactvault/pkg/internal/storage/queue"
)

func newTestService(t *testing.T, retentionDays int) *ArtifactService {
	t.Helper()

	ctx := context.Background()

	local, err := blob.NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend: %v", err)
	}

	store, err := blob.NewStore(local)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	mem, err := kvc.NewMemoryKV(ctx, nil)
	if err != nil {
		t.Fatalf("NewMemoryKV: %v", err)
	}

	q, err := queue.NewMemoryQueue(ctx, nil)
	if err != nil {
		t.Fatalf("NewMemoryQueue: %v", err)
	}

	mgr := &storage.Manager{
		Blob:  store,
		KV:    &kvc.Client{KVStore: mem},
		Queue: q,
	}

	return New(mgr, &configs.ArtifactConfig{
		Backend:       "local",
		MaxSizeMB:     1,
		RetentionDays: retentionDays,
	})
}

// newDegradedService 构造元数据与队列均不可用的服务.
func newDegradedService(t *testing.T) *ArtifactService {
	t.Helper()

	local, err := blob.NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend: %v", err)
	}

	store, err := blob.NewStore(local)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	mgr := &storage.Manager{Blob: store}

	return New(mgr, &configs.ArtifactConfig{
		Backend:       "local",
		MaxSizeMB:     1,
		RetentionDays: 90,
	})
}

func TestUploadDeduplicatesSameContent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	first, err := svc.Upload(ctx, []byte("same bytes"), "a.txt", "text/plain", "u1", nil)
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}

	second, err := svc.Upload(ctx, []byte("same bytes"), "b.txt", "text/plain", "u2", nil)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if second.ArtifactID != first.ArtifactID {
		t.Errorf("duplicate content got new artifact: %s vs %s", second.ArtifactID, first.ArtifactID)
	}

	other, err := svc.Upload(ctx, []byte("different bytes"), "c.txt", "text/plain", "u1", nil)
	if err != nil {
		t.Fatalf("third upload: %v", err)
	}

	if other.ArtifactID == first.ArtifactID {
		t.Error("different content reused artifact id")
	}

	if got := len(svc.List(ctx, "", "", 0)); got != 2 {
		t.Errorf("expected 2 distinct artifacts, got %d", got)
	}
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	payload := make([]byte, svc.maxBytes+1)

	if _, err := svc.Upload(ctx, payload, "big.bin", "application/octet-stream", "", nil); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}

	// 拒绝必须无副作用
	if got := len(svc.List(ctx, "", "", 0)); got != 0 {
		t.Errorf("rejected upload left %d records behind", got)
	}
}

func TestProcessPlainText(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	a, err := svc.Upload(ctx, []byte("hello artifact"), "note.txt", "text/plain", "", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	result := svc.Process(ctx, a.ArtifactID)
	if !result.Success {
		t.Fatalf("processing failed: %s", result.ErrorMessage)
	}

	if result.ExtractedText != "hello artifact" {
		t.Errorf("extracted text = %q", result.ExtractedText)
	}

	got, err := svc.Get(ctx, a.ArtifactID)
	if err != nil || got == nil {
		t.Fatalf("get after process: %v, %v", got, err)
	}

	if got.ProcessingStatus != model.StatusCompleted {
		t.Errorf("status = %s, want %s", got.ProcessingStatus, model.StatusCompleted)
	}

	if got.ProcessedTimestamp == nil {
		t.Error("processed_timestamp not set")
	}

	if got.ExtractedText != "hello artifact" {
		t.Errorf("persisted extracted text = %q", got.ExtractedText)
	}
}

func TestProcessMissingPayloadMarksFailed(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	a, err := svc.Upload(ctx, []byte("doomed"), "gone.txt", "text/plain", "", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// 先抽走载荷，再处理
	if err := svc.blob.Delete(ctx, a.StoragePath); err != nil {
		t.Fatalf("delete payload: %v", err)
	}

	result := svc.Process(ctx, a.ArtifactID)
	if result.Success {
		t.Fatal("processing succeeded without payload")
	}

	got, err := svc.Get(ctx, a.ArtifactID)
	if err != nil || got == nil {
		t.Fatalf("get after process: %v, %v", got, err)
	}

	if got.ProcessingStatus != model.StatusFailed {
		t.Errorf("status = %s, want %s", got.ProcessingStatus, model.StatusFailed)
	}

	// 处理尝试后绝不能停留在 pending/processing
	if got.ProcessingStatus == model.StatusPending || got.ProcessingStatus == model.StatusProcessing {
		t.Errorf("non-terminal status after processing attempt: %s", got.ProcessingStatus)
	}
}

func TestProcessUnknownArtifact(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	result := svc.Process(ctx, "no-such-id")
	if result.Success {
		t.Fatal("processing unknown artifact succeeded")
	}

	if !strings.Contains(result.ErrorMessage, "not found") {
		t.Errorf("error message = %q", result.ErrorMessage)
	}
}

func TestDeleteRemovesPayloadAndMetadata(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	a, err := svc.Upload(ctx, []byte("delete me"), "d.txt", "text/plain", "", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	ok, err := svc.Delete(ctx, a.ArtifactID)
	if err != nil || !ok {
		t.Fatalf("delete: %v, %v", ok, err)
	}

	if got, _ := svc.Get(ctx, a.ArtifactID); got != nil {
		t.Error("metadata still present after delete")
	}

	if _, err := svc.blob.Retrieve(ctx, a.StoragePath); !errors.Is(err, blob.ErrObjectNotFound) {
		t.Errorf("payload still present after delete: %v", err)
	}

	// 二次删除返回 false 而不是错误
	ok, err = svc.Delete(ctx, a.ArtifactID)
	if err != nil || ok {
		t.Errorf("second delete = %v, %v", ok, err)
	}

	// 哈希索引随删除释放，同内容重传得到新制品
	b, err := svc.Upload(ctx, []byte("delete me"), "d.txt", "text/plain", "", nil)
	if err != nil {
		t.Fatalf("re-upload: %v", err)
	}

	if b.ArtifactID == a.ArtifactID {
		t.Error("re-upload after delete reused artifact id")
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	u1, err := svc.Upload(ctx, []byte("one"), "1.txt", "text/plain", "alice", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.Upload(ctx, []byte("two"), "2.txt", "text/plain", "bob", nil); err != nil {
		t.Fatalf("upload: %v", err)
	}

	if r := svc.Process(ctx, u1.ArtifactID); !r.Success {
		t.Fatalf("process: %s", r.ErrorMessage)
	}

	if got := svc.List(ctx, "alice", "", 0); len(got) != 1 || got[0].ArtifactID != u1.ArtifactID {
		t.Errorf("user filter returned %d records", len(got))
	}

	if got := svc.List(ctx, "", model.StatusCompleted, 0); len(got) != 1 || got[0].ArtifactID != u1.ArtifactID {
		t.Errorf("status filter returned %d records", len(got))
	}

	if got := svc.List(ctx, "", model.StatusPending, 0); len(got) != 1 {
		t.Errorf("pending filter returned %d records", len(got))
	}

	if got := svc.List(ctx, "", "", 1); len(got) != 1 {
		t.Errorf("limit ignored, got %d records", len(got))
	}
}

func TestListOrdersByUploadTimestampDescending(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	var ids []string

	for _, body := range []string{"oldest", "middle", "newest"} {
		a, err := svc.Upload(ctx, []byte(body), body+".txt", "text/plain", "", nil)
		if err != nil {
			t.Fatalf("upload %s: %v", body, err)
		}

		ids = append(ids, a.ArtifactID)

		// 拉开 upload_timestamp，排序断言才有区分度
		time.Sleep(5 * time.Millisecond)
	}

	got := svc.List(ctx, "", "", 0)
	if len(got) != 3 {
		t.Fatalf("list returned %d records, want 3", len(got))
	}

	// 最新的排最前
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if got[i].ArtifactID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ArtifactID, want)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].UploadTimestamp.After(got[i-1].UploadTimestamp) {
			t.Errorf("position %d newer than position %d", i, i-1)
		}
	}

	// limit 截断后保留的是最新的一条
	if limited := svc.List(ctx, "", "", 1); len(limited) != 1 || limited[0].ArtifactID != ids[2] {
		t.Errorf("limit=1 returned %v, want newest %s", limited, ids[2])
	}
}

func TestBindHashKeepsLiveReservation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 90)

	const hash = "feedface"

	ok, err := svc.meta.ReserveHash(ctx, hash, "winner")
	if err != nil || !ok {
		t.Fatalf("reserve: %v, %v", ok, err)
	}

	// 占位仍存活时重绑必须保持原值
	svc.meta.BindHash(ctx, hash, "loser")

	id, err := svc.meta.store.Get(ctx, hashIndexPrefix+hash)
	if err != nil {
		t.Fatalf("get index: %v", err)
	}

	if string(id) != "winner" {
		t.Errorf("live reservation overwritten: index = %s", id)
	}

	// 占位释放后重绑生效
	svc.meta.ReleaseHash(ctx, hash)
	svc.meta.BindHash(ctx, hash, "loser")

	id, err = svc.meta.store.Get(ctx, hashIndexPrefix+hash)
	if err != nil {
		t.Fatalf("get index after release: %v", err)
	}

	if string(id) != "loser" {
		t.Errorf("rebind after release failed: index = %s", id)
	}
}

func TestCleanupExpired(t *testing.T) {
	ctx := context.Background()
	// 保留窗口为零：所有已上传的制品立即过期
	svc := newTestService(t, 0)

	if _, err := svc.Upload(ctx, []byte("old one"), "1.txt", "text/plain", "", nil); err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.Upload(ctx, []byte("old two"), "2.txt", "text/plain", "", nil); err != nil {
		t.Fatalf("upload: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if deleted := svc.CleanupExpired(ctx); deleted != 2 {
		t.Errorf("first cleanup deleted %d, want 2", deleted)
	}

	if deleted := svc.CleanupExpired(ctx); deleted != 0 {
		t.Errorf("second cleanup deleted %d, want 0", deleted)
	}

	if got := len(svc.List(ctx, "", "", 0)); got != 0 {
		t.Errorf("%d records survived cleanup", got)
	}
}

func TestDegradedModeUploadStillWorks(t *testing.T) {
	ctx := context.Background()
	svc := newDegradedService(t)

	if svc.MetadataAvailable() {
		t.Fatal("degraded service reports metadata available")
	}

	a, err := svc.Upload(ctx, []byte("still works"), "s.txt", "text/plain", "", nil)
	if err != nil {
		t.Fatalf("degraded upload: %v", err)
	}

	if a.ArtifactID == "" || a.StoragePath == "" {
		t.Error("degraded upload returned incomplete record")
	}

	// 载荷必须真实落盘
	data, err := svc.blob.Retrieve(ctx, a.StoragePath)
	if err != nil || string(data) != "still works" {
		t.Errorf("payload retrieve: %q, %v", data, err)
	}

	// 查询与列表按降级契约返回空
	if got, err := svc.Get(ctx, a.ArtifactID); got != nil || err != nil {
		t.Errorf("degraded get = %v, %v", got, err)
	}

	if got := svc.List(ctx, "", "", 0); len(got) != 0 {
		t.Errorf("degraded list returned %d records", len(got))
	}
}

func TestDegradedModeDisablesDedup(t *testing.T) {
	ctx := context.Background()
	svc := newDegradedService(t)

	first, err := svc.Upload(ctx, []byte("same"), "a.txt", "text/plain", "", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	second, err := svc.Upload(ctx, []byte("same"), "a.txt", "text/plain", "", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if first.ArtifactID == second.ArtifactID {
		t.Error("dedup active without metadata store")
	}
}
