package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appconfig "s3transport/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
)

var (
	ErrNotFound       = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
)

// Client is a bucket-addressed object store. GetObject returns an error
// matching ErrNotFound when the key is absent.
type Client interface {
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	ListBuckets(ctx context.Context) ([]string, error)
	CreateBucket(ctx context.Context, bucket string) error
}

func NewFromConfig(cfg appconfig.Config, localRoot string, creds aws.CredentialsProvider) (Client, error) {
	switch cfg.Backend {
	case appconfig.BackendLocal:
		return NewLocalClient(localRoot), nil
	case appconfig.BackendS3, "":
		opts := S3Options{
			Credentials:    creds,
			RequestTimeout: time.Duration(cfg.S3.RequestTimeoutSeconds) * time.Second,
		}
		return NewS3Client(cfg.S3, opts)
	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}
}

// ValidateKey applies the key rules shared by every backend: no surrounding
// whitespace, no leading slash, and no empty, "." or ".." segments. Two
// distinct valid keys never name the same object.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) != key || strings.HasPrefix(key, "/") {
		return fmt.Errorf("invalid object key %q", key)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("invalid object key %q", key)
		}
	}
	return nil
}
