package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/admin/astro/rashi-api/internal/ports/storage"
	"github.com/minio/minio-go/v7"
)

// Client источник файлов эфемерид в бакете
type Client struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

func NewClient(client *minio.Client, bucket string, log *slog.Logger) *Client {
	return &Client{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

// Download копирует объект в w потоком, файлы эфемерид бывают по десятку мегабайт
func (c *Client) Download(ctx context.Context, key string, w io.Writer) (int64, error) {
	object, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer object.Close()

	n, err := io.Copy(w, object)
	if err != nil {
		return n, fmt.Errorf("failed to download object %s: %w", key, err)
	}
	return n, nil
}

func (c *Client) ListObjects(ctx context.Context, prefix string) ([]storage.Object, error) {
	var objects []storage.Object

	for info := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, info.Err)
		}
		if info.Key == "" || strings.HasSuffix(info.Key, "/") {
			continue
		}
		objects = append(objects, storage.Object{Key: info.Key, Size: info.Size})
	}

	c.log.Debug("listed ephemeris objects", "bucket", c.bucket, "prefix", prefix, "count", len(objects))
	return objects, nil
}
