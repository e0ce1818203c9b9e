package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// S3Config configures an S3-compatible asset backend (AWS S3, MinIO).
type S3Config struct {
	Name          string `hcl:"name,optional"`     // backend name, defaults to "s3"
	Endpoint      string `hcl:"endpoint,optional"` // custom endpoint for MinIO etc.
	Region        string `hcl:"region"`
	Bucket        string `hcl:"bucket"`
	Prefix        string `hcl:"prefix,optional"`
	AccessKey     string `hcl:"access_key,optional"`
	SecretKey     string `hcl:"secret_key,optional"`
	PublicBaseURL string `hcl:"public_base_url,optional"`

	RequestTimeoutSeconds int  `hcl:"request_timeout_seconds,optional"`
	InsecureSkipVerify    bool `hcl:"insecure_skip_verify,optional"` // testing only
}

// Validate checks the required connection settings.
func (c *S3Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Region, validation.Required),
		validation.Field(&c.Bucket, validation.Required),
	)
}

// SetDefaults fills in defaults for optional fields.
func (c *S3Config) SetDefaults() {
	if c.Name == "" {
		c.Name = "s3"
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = 30
	}
}

// S3Backend stores assets in an S3 bucket under an optional key prefix.
type S3Backend struct {
	name   string
	client *s3.Client
	cfg    *S3Config
	logger hclog.Logger
}

var _ Backend = (*S3Backend)(nil)

// NewS3Backend builds the AWS client and verifies the bucket is
// reachable.
func NewS3Backend(cfg *S3Config, logger hclog.Logger) (*S3Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid s3 configuration: %w", err)
	}
	cfg.SetDefaults()
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	awsCfg, err := createAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Force path-style addressing for MinIO
			o.UsePathStyle = true
		}
	})

	b := &S3Backend{
		name:   cfg.Name,
		client: client,
		cfg:    cfg,
		logger: logger.Named("s3-backend"),
	}

	if _, err := client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("bucket %s is not accessible: %w", cfg.Bucket, err)
	}

	logger.Info("s3 asset backend initialized",
		"name", cfg.Name,
		"bucket", cfg.Bucket,
		"prefix", cfg.Prefix,
	)
	return b, nil
}

func createAWSConfig(cfg *S3Config) (aws.Config, error) {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify,
			},
		},
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpClient),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(context.Background(), opts...)
}

func (b *S3Backend) Name() string { return b.name }

func (b *S3Backend) Write(ctx context.Context, name string, r io.Reader) (*StoredAsset, error) {
	fname, err := cleanAssetName(name)
	if err != nil {
		return nil, err
	}
	key := b.key(fname)

	if _, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
		Body:   r,
	}); err != nil {
		return nil, fmt.Errorf("error putting object %q: %w", key, err)
	}

	head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("error heading object %q: %w", key, err)
	}

	asset := &StoredAsset{
		ID:      uuid.New(),
		Name:    fname,
		Backend: b.name,
		URI:     fmt.Sprintf("s3://%s/%s", b.cfg.Bucket, key),
		Size:    aws.ToInt64(head.ContentLength),
	}
	if b.cfg.PublicBaseURL != "" {
		asset.PublicURL = strings.TrimSuffix(b.cfg.PublicBaseURL, "/") + "/" + key
	}
	return asset, nil
}

func (b *S3Backend) Remove(ctx context.Context, uri string) error {
	prefix := fmt.Sprintf("s3://%s/", b.cfg.Bucket)
	key := strings.TrimPrefix(uri, prefix)
	if key == uri || key == "" {
		return fmt.Errorf("uri %q does not belong to bucket %q", uri, b.cfg.Bucket)
	}
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
	})
	return err
}

func (b *S3Backend) key(fname string) string {
	if b.cfg.Prefix == "" {
		return fname
	}
	return strings.TrimSuffix(b.cfg.Prefix, "/") + "/" + fname
}
