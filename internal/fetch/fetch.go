// Package fetch downloads remote registry inputs (s3://bucket/key) to local
// files so the table loaders can read them.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const scheme = "s3://"

// S3Client is the subset of the S3 API used by Fetcher.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config configures the S3 client. Empty fields fall back to the default
// AWS credential chain and region resolution.
type Config struct {
	Region         string `koanf:"region"`
	Endpoint       string `koanf:"endpoint"`
	AccessKeyID    string `koanf:"access_key_id"`
	SecretKey      string `koanf:"secret_key"`
	ForcePathStyle bool   `koanf:"force_path_style"`
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithS3Client sets a pre-configured client. Useful for testing with mocks.
func WithS3Client(client S3Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// Fetcher downloads objects. The AWS client is created on first use.
type Fetcher struct {
	cfg    Config
	client S3Client
	logger *slog.Logger
}

// New creates a Fetcher.
func New(cfg Config, opts ...Option) *Fetcher {
	f := &Fetcher{cfg: cfg}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	return f
}

// IsRemote reports whether p is an s3:// URL.
func IsRemote(p string) bool {
	return strings.HasPrefix(strings.ToLower(p), scheme)
}

// ParseURL splits s3://bucket/key into its parts.
func ParseURL(raw string) (bucket, key string, err error) {
	if !IsRemote(raw) {
		return "", "", fmt.Errorf("%w: %q has no s3:// scheme", ErrInvalidURL, raw)
	}
	rest := raw[len(scheme):]
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %q must be s3://bucket/key", ErrInvalidURL, raw)
	}
	return bucket, key, nil
}

// Fetch downloads the object at url into dir and returns the local path.
// The file keeps the object's base name so the format can be detected from it.
func (f *Fetcher) Fetch(ctx context.Context, url, dir string) (string, error) {
	bucket, key, err := ParseURL(url)
	if err != nil {
		return "", err
	}
	client, err := f.s3Client(ctx)
	if err != nil {
		return "", err
	}

	f.logger.Debug("downloading object", "bucket", bucket, "key", key)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", classifyS3Error(err, url)
	}
	defer func() { _ = out.Body.Close() }()

	dst := filepath.Join(dir, path.Base(key))
	file, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	n, err := io.Copy(file, out.Body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	f.logger.Info("object downloaded", "url", url, "path", dst, "bytes", n)
	return dst, nil
}

func (f *Fetcher) s3Client(ctx context.Context) (S3Client, error) {
	if f.client != nil {
		return f.client, nil
	}

	var awsOptions []func(*config.LoadOptions) error
	if f.cfg.Region != "" {
		awsOptions = append(awsOptions, config.WithRegion(f.cfg.Region))
	}
	if f.cfg.AccessKeyID != "" && f.cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				f.cfg.AccessKeyID,
				f.cfg.SecretKey,
				"",
			)),
		)
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}

	f.client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if f.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(f.cfg.Endpoint)
		}
		o.UsePathStyle = f.cfg.ForcePathStyle
	})
	return f.client, nil
}

func classifyS3Error(err error, url string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: get %s", ErrOperationCanceled, url)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, url)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, url)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrObjectNotFound, url)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s", ErrBucketNotFound, url)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %s", ErrAccessDenied, url)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s", ErrServiceUnavailable, url)
		}
	}
	return fmt.Errorf("get %s: %w", url, err)
}
