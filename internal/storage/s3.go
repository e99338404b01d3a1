package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	appconfig "s3transport/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const (
	defaultS3RequestTimeout = 30 * time.Second
	usEast1                 = "us-east-1"
)

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type objectUploader interface {
	UploadObject(ctx context.Context, input *transfermanager.UploadObjectInput, optFns ...func(*transfermanager.Options)) (*transfermanager.UploadObjectOutput, error)
}

type S3Options struct {
	// Credentials overrides the AWS default credential chain when non-nil.
	Credentials    aws.CredentialsProvider
	RequestTimeout time.Duration
}

type S3Client struct {
	api            s3API
	uploader       objectUploader
	region         string
	prefix         string
	requestTimeout time.Duration
}

func NewS3Client(cfg appconfig.S3Config, opts S3Options) (*S3Client, error) {
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		return nil, errors.New("s3 region is required")
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	prefix, err := normalizePrefix(cfg.Prefix)
	if err != nil {
		return nil, err
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if opts.Credentials != nil {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(opts.Credentials))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultS3RequestTimeout
	}

	return &S3Client{
		api:            client,
		uploader:       transfermanager.New(client),
		region:         region,
		prefix:         prefix,
		requestTimeout: timeout,
	}, nil
}

func (c *S3Client) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	if c.uploader == nil {
		return errors.New("s3 uploader is not configured")
	}
	objectKey, err := c.prefixedKey(key)
	if err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err = c.uploader.UploadObject(ctx, &transfermanager.UploadObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return wrapS3Error("put object", err)
	}
	return nil
}

func (c *S3Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if c.api == nil {
		return nil, errors.New("s3 api client is not configured")
	}
	objectKey, err := c.prefixedKey(key)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, wrapS3Error("get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return data, nil
}

func (c *S3Client) ListBuckets(ctx context.Context) ([]string, error) {
	if c.api == nil {
		return nil, errors.New("s3 api client is not configured")
	}

	names := make([]string, 0)
	var token *string
	for {
		page, err := c.listBucketsPage(ctx, token)
		if err != nil {
			return nil, err
		}
		for _, bucket := range page.Buckets {
			if bucket.Name == nil || *bucket.Name == "" {
				continue
			}
			names = append(names, *bucket.Name)
		}
		if page.ContinuationToken == nil || *page.ContinuationToken == "" {
			return names, nil
		}
		token = page.ContinuationToken
	}
}

func (c *S3Client) listBucketsPage(ctx context.Context, token *string) (*s3.ListBucketsOutput, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{ContinuationToken: token})
	if err != nil {
		return nil, wrapS3Error("list buckets", err)
	}
	return out, nil
}

func (c *S3Client) CreateBucket(ctx context.Context, bucket string) error {
	if c.api == nil {
		return errors.New("s3 api client is not configured")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if c.region != "" && c.region != usEast1 {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.region),
		}
	}

	if _, err := c.api.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return wrapS3Error("create bucket", err)
	}
	return nil
}

func (c *S3Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}

func (c *S3Client) prefixedKey(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return c.prefix + key, nil
}

// wrapS3Error maps missing keys and buckets onto the package sentinels and
// keeps the AWS error in the chain.
func wrapS3Error(op string, err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return fmt.Errorf("%s: %w: %w", op, ErrBucketNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		case "NoSuchBucket":
			return fmt.Errorf("%s: %w: %w", op, ErrBucketNotFound, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func normalizeEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return "", nil
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("s3 endpoint %q must be a valid http(s) URL", endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("s3 endpoint %q must use http or https", endpoint)
	}
	return strings.TrimRight(endpoint, "/"), nil
}

func normalizePrefix(raw string) (string, error) {
	prefix := strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))
	if prefix == "" {
		return "", nil
	}
	if strings.HasPrefix(prefix, "/") {
		return "", fmt.Errorf("s3 prefix %q must be relative", raw)
	}
	for _, segment := range strings.Split(prefix, "/") {
		if segment == ".." {
			return "", fmt.Errorf("s3 prefix %q must not contain parent segments", raw)
		}
	}
	cleaned := path.Clean(prefix)
	if cleaned == "." {
		return "", nil
	}
	return cleaned + "/", nil
}
