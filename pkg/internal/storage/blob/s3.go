package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	minio "github.com/minio/minio-go/v7"

	s3c "github.com/yeisme/artifactvault/pkg/internal/storage/s3"
)

const s3Scheme = "s3"

// S3Backend 基于 MinIO/S3 的载荷后端，对象键为 artifacts/<artifact_id>/<filename>.
type S3Backend struct {
	client *s3c.Client
	bucket string
}

// NewS3Backend 创建 S3 后端.
func NewS3Backend(client *s3c.Client, bucket string) (*S3Backend, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}

	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is empty")
	}

	return &S3Backend{client: client, bucket: bucket}, nil
}

// Scheme 返回 "s3".
func (s *S3Backend) Scheme() string {
	return s3Scheme
}

// Store 写入载荷对象.
func (s *S3Backend) Store(ctx context.Context, artifactID, filename string, data []byte) (string, error) {
	key := objectKey(artifactID, filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return fmt.Sprintf("%s://%s/%s", s3Scheme, s.bucket, key), nil
}

// Retrieve 读取载荷对象.
func (s *S3Backend) Retrieve(ctx context.Context, storagePath string) ([]byte, error) {
	bucket, key, err := parseS3Path(storagePath)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, storagePath)
		}

		return nil, fmt.Errorf("read object %s: %w", key, err)
	}

	return data, nil
}

// Delete 删除载荷对象.
func (s *S3Backend) Delete(ctx context.Context, storagePath string) error {
	bucket, key, err := parseS3Path(storagePath)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

// objectKey 构建对象键.
func objectKey(artifactID, filename string) string {
	return path.Join("artifacts", artifactID, path.Base(filename))
}

// parseS3Path 拆出 bucket 与对象键.
func parseS3Path(storagePath string) (string, string, error) {
	rest, ok := strings.CutPrefix(storagePath, s3Scheme+"://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 storage path: %s", storagePath)
	}

	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 storage path: %s", storagePath)
	}

	return bucket, key, nil
}
