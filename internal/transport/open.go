package transport

import (
	"context"
	"fmt"

	appconfig "s3transport/internal/config"
	"s3transport/internal/credentials"
	"s3transport/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"
)

// Open builds an ObjectTransport from cfg: credentials, storage client,
// connection on the configured bucket (created when s3.create_bucket is set).
// localRoot is only used by the local backend.
func Open(ctx context.Context, cfg *appconfig.Config, localRoot string, logger *logrus.Logger) (*ObjectTransport, error) {
	var creds aws.CredentialsProvider
	if cfg.Backend != appconfig.BackendLocal {
		provider, err := credentials.Resolve(cfg.Credentials)
		if err != nil {
			return nil, fmt.Errorf("resolve credentials: %w", err)
		}
		creds = provider
	}

	client, err := storage.NewFromConfig(*cfg, localRoot, creds)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	conn, err := storage.NewConnection(client, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}
	if err := conn.SetBucket(ctx, cfg.S3.Bucket, cfg.S3.CreateBucket); err != nil {
		return nil, fmt.Errorf("set bucket: %w", err)
	}

	return New(conn, Options{
		Name:             cfg.Transport.Name,
		ProbeConcurrency: cfg.Transport.ProbeConcurrency,
		Logger:           logger,
	})
}
