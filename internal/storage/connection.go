package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	appconfig "s3transport/internal/config"
)

// Connection binds a Client to the active bucket. Every put and get reads the
// bucket at call time, so SetBucket takes effect for subsequent operations.
type Connection struct {
	client Client

	mu     sync.RWMutex
	bucket string
}

func NewConnection(client Client, bucket string) (*Connection, error) {
	if client == nil {
		return nil, errors.New("storage client is required")
	}
	if err := appconfig.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	return &Connection{client: client, bucket: bucket}, nil
}

func (c *Connection) Bucket() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bucket
}

func (c *Connection) Buckets(ctx context.Context) ([]string, error) {
	names, err := c.client.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	return names, nil
}

// SetBucket adopts name as the active bucket. When missingOk is set and the
// bucket is not listed, it is created first.
func (c *Connection) SetBucket(ctx context.Context, name string, missingOk bool) error {
	if err := appconfig.ValidateBucketName(name); err != nil {
		return err
	}
	if missingOk {
		names, err := c.Buckets(ctx)
		if err != nil {
			return err
		}
		if !slices.Contains(names, name) {
			if err := c.client.CreateBucket(ctx, name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
	}

	c.mu.Lock()
	c.bucket = name
	c.mu.Unlock()
	return nil
}

func (c *Connection) PutObject(ctx context.Context, key string, data []byte) error {
	return c.client.PutObject(ctx, c.Bucket(), key, data)
}

func (c *Connection) GetObject(ctx context.Context, key string) ([]byte, error) {
	return c.client.GetObject(ctx, c.Bucket(), key)
}

func (c *Connection) String() string {
	return fmt.Sprintf("Connection(bucket: %s)", c.Bucket())
}
