package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/mikelabs-llc/schoolgate-pass/internal/config"
)

// OSSStore uploads passport photos to an Aliyun OSS bucket and resolves
// their public URLs.
type OSSStore struct {
	bucket        *oss.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

func NewOSSStore(cfg config.StorageConfig, logger *slog.Logger) (*OSSStore, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("opening bucket %q: %w", cfg.Bucket, err)
	}

	logger.Info("OSS store initialized", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	return &OSSStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// UploadPassportPhoto stores the photo under a key derived from the child
// UID, overwriting any previous photo for the same student. It returns the
// object key.
func (s *OSSStore) UploadPassportPhoto(ctx context.Context, childUID, ext string, r io.Reader) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	key := fmt.Sprintf("%s/passport-photo.%s", childUID, ext)

	options := []oss.Option{oss.ForbidOverWrite(false)}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		options = append(options, oss.ContentType(ct))
	}

	if err := s.bucket.PutObject(key, r, options...); err != nil {
		return "", fmt.Errorf("uploading passport photo %q: %w", key, err)
	}

	s.logger.Info("passport photo uploaded", "key", key)
	return key, nil
}

// PublicURL maps an object key to its public address.
func (s *OSSStore) PublicURL(key string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}
