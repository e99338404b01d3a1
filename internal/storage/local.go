package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalClient keeps each bucket as a subdirectory of rootDir.
type LocalClient struct {
	rootDir string
}

func NewLocalClient(rootDir string) *LocalClient {
	return &LocalClient{rootDir: rootDir}
}

func (c *LocalClient) PutObject(_ context.Context, bucket, key string, data []byte) error {
	bucketDir, err := c.existingBucketDir(bucket)
	if err != nil {
		return err
	}
	fullPath, err := objectPath(bucketDir, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".put-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (c *LocalClient) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	bucketDir, err := c.existingBucketDir(bucket)
	if err != nil {
		return nil, err
	}
	fullPath, err := objectPath(bucketDir, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
		}
		return nil, err
	}
	return data, nil
}

func (c *LocalClient) ListBuckets(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (c *LocalClient) CreateBucket(_ context.Context, bucket string) error {
	dir, err := c.bucketDir(bucket)
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

func (c *LocalClient) bucketDir(bucket string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket name %q", bucket)
	}
	return filepath.Join(c.rootDir, bucket), nil
}

func (c *LocalClient) existingBucketDir(bucket string) (string, error) {
	dir, err := c.bucketDir(bucket)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("bucket path %s is not a directory", dir)
	}
	return dir, nil
}

// objectPath maps a key onto a file under bucketDir. Keys that filepath.Clean
// would rewrite are rejected so that each file has exactly one key.
func objectPath(bucketDir, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	native := filepath.FromSlash(key)
	if filepath.Clean(native) != native || filepath.IsAbs(native) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(bucketDir, native), nil
}
