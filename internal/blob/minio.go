package blob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds the S3 connection settings.
type MinioConfig struct {
	Endpoint        string // e.g. "minio:9000"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	Region          string
	PublicURL       string        // when set URLs are PublicURL/Bucket/key instead of presigned
	URLExpiry       time.Duration // lifetime of presigned URLs
}

// Minio is a Store on top of an S3 compatible server.
type Minio struct {
	mc  *minio.Client
	cfg MinioConfig
}

// NewMinio creates the client. It does not contact the server.
func NewMinio(cfg MinioConfig) (*Minio, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	return &Minio{mc: mc, cfg: cfg}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (m *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := m.mc.BucketExists(ctx, m.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.cfg.Bucket, err)
	}

	if exists {
		return nil
	}

	if err = m.mc.MakeBucket(ctx, m.cfg.Bucket, minio.MakeBucketOptions{Region: m.cfg.Region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.cfg.Bucket, err)
	}

	return nil
}

// Put implements Store.
func (m *Minio) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) (int64, error) {
	p := NewProgress(size, progress)

	info, err := m.mc.PutObject(ctx, m.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		Progress:    p,
	})
	if err != nil {
		return 0, fmt.Errorf("put %s: %w", key, err)
	}

	if size >= 0 && info.Size != size {
		return info.Size, fmt.Errorf("%w: announced %d, got %d", ErrSizeMismatch, size, info.Size)
	}

	p.Finish()

	return info.Size, nil
}

// URL implements Store.
func (m *Minio) URL(ctx context.Context, key string) (string, error) {
	if m.cfg.PublicURL != "" {
		return m.cfg.PublicURL + "/" + m.cfg.Bucket + "/" + (&url.URL{Path: key}).EscapedPath(), nil
	}

	u, err := m.mc.PresignedGetObject(ctx, m.cfg.Bucket, key, m.cfg.URLExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return u.String(), nil
}

// Delete implements Store.
func (m *Minio) Delete(ctx context.Context, key string) error {
	err := m.mc.RemoveObject(ctx, m.cfg.Bucket, key, minio.RemoveObjectOptions{})
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return nil
	}

	return fmt.Errorf("remove %s: %w", key, err)
}
