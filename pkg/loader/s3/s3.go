package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jerusalem-70-ad/jad-builder/internal/util"
	"github.com/jerusalem-70-ad/jad-builder/pkg/loader"
)

// S3DatasetLoader reads dataset tables from an S3 bucket, optionally below a
// key prefix. It also works against S3-compatible stores such as MinIO.
type S3DatasetLoader struct {
	bucket     string
	prefix     string
	client     *s3.Client
	maxRetries int
	cache      *loader.Cache
}

// NewS3DatasetLoaderWithClient reuses a preconfigured client.
func NewS3DatasetLoaderWithClient(bucket, prefix string, client *s3.Client) *S3DatasetLoader {
	return &S3DatasetLoader{
		bucket:     bucket,
		prefix:     prefix,
		client:     client,
		maxRetries: 3,
		cache:      loader.NewCache(),
	}
}

// NewS3DatasetLoaderParams configures a loader with static credentials.
//
// Endpoint overrides the S3 endpoint for S3-compatible storage.
type NewS3DatasetLoaderParams struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3DatasetLoader creates a client from params.
//
// Example:
//
//	l, err := s3.NewS3DatasetLoader(ctx, s3.NewS3DatasetLoaderParams{
//		Bucket:    "jad-data",
//		Prefix:    "dump/",
//		Region:    "eu-central-1",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
//		SecretKey: os.Getenv("AWS_SECRET_KEY"),
//	})
func NewS3DatasetLoader(ctx context.Context, params NewS3DatasetLoaderParams) (*S3DatasetLoader, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	}
	if params.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(params.Endpoint))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return NewS3DatasetLoaderWithClient(params.Bucket, params.Prefix, client), nil
}

// Key returns the object key of a table.
func (l *S3DatasetLoader) Key(name string) string {
	if l.prefix == "" {
		return name
	}
	return path.Join(l.prefix, name)
}

// Load fetches the table object. Results are cached until Reset.
func (l *S3DatasetLoader) Load(ctx context.Context, name string) ([]byte, error) {
	key := l.Key(name)
	return l.cache.Get(loader.CacheKey(l.Describe(), name), func() ([]byte, error) {
		return util.RetryWithContext(ctx, l.maxRetries, 500*time.Millisecond, func(ctx context.Context) ([]byte, error) {
			out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(l.bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to get s3://%s/%s: %w", l.bucket, key, err)
			}
			defer out.Body.Close()

			var buf bytes.Buffer
			if _, err := io.Copy(&buf, out.Body); err != nil {
				return nil, fmt.Errorf("failed to read s3://%s/%s: %w", l.bucket, key, err)
			}
			return buf.Bytes(), nil
		})
	})
}

func (l *S3DatasetLoader) Reset() {
	l.cache.Reset()
}

func (l *S3DatasetLoader) Describe() string {
	return "s3://" + l.bucket + "/" + l.prefix
}
