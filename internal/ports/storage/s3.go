package storage

import (
	"context"
	"io"
)

// Object метаданные объекта в бакете
type Object struct {
	Key  string
	Size int64
}

// IS3Client чтение файлов из S3-совместимого хранилища (MinIO)
type IS3Client interface {
	// ListObjects объекты под префиксом, без «директорий»
	ListObjects(ctx context.Context, prefix string) ([]Object, error)
	// Download пишет содержимое объекта в w и возвращает число байт
	Download(ctx context.Context, key string, w io.Writer) (int64, error)
}
