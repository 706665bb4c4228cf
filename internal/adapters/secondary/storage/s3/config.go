package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config подключение к MinIO, из которого подтягиваются файлы эфемерид.
// Host без тега envconfig, чтобы не подхватить HOST без префикса.
type Config struct {
	Host         string        // localhost:9000
	AccessKey    string        `envconfig:"ACCESS_KEY"`
	SecretKey    string        `envconfig:"SECRET_KEY"`
	Region       string        `envconfig:"REGION"`
	Bucket       string        `envconfig:"BUCKET" default:"ephemeris"`
	UseSSL       bool          `envconfig:"USE_SSL" default:"false"`
	ProbeTimeout time.Duration `envconfig:"PROBE_TIMEOUT" default:"5s"`
}

// Enabled секция считается заданной, если указан хост
func (c *Config) Enabled() bool {
	return c != nil && c.Host != ""
}

func (c *Config) options() *minio.Options {
	return &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	}
}

// NewClient создаёт MinIO клиент и проверяет, что бакет с эфемеридами существует
func (c *Config) NewClient(ctx context.Context) (*minio.Client, error) {
	client, err := minio.New(c.Host, c.options())
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.ProbeTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", c.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", c.Bucket)
	}

	return client, nil
}
