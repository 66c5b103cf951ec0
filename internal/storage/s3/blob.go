// Package s3 stores note attachments in an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"studynotes/internal/domain"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// DefaultURLTTL is how long a presigned download URL stays valid when
// Config.URLTTL is zero.
const DefaultURLTTL = 15 * time.Minute

// Config selects the bucket and credentials. Endpoint switches to
// path-style addressing for S3-compatible services (MinIO, R2, Supabase
// Storage). Static keys are optional; the default AWS credential chain is
// used without them.
//
// PublicBaseURL prefixes the object path in the URLs stored on notes. It is
// either a public bucket or CDN origin, or the server's own /blobs/ route,
// which redirects to a URL from SignedURL.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	URLTTL          time.Duration
}

// BlobStore implements wsrepo.BlobStore on S3.
type BlobStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	presign  *s3.PresignClient
	bucket   string
	baseURL  string
	ttl      time.Duration
	logger   *slog.Logger
}

var _ wsrepo.BlobStore = (*BlobStore)(nil)

// New loads the AWS configuration and builds the S3 clients.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, &domain.ConfigurationError{Setting: "S3_BUCKET", Message: "bucket is required for the s3 blob backend"}
	}
	if cfg.PublicBaseURL == "" {
		return nil, &domain.ConfigurationError{Setting: "S3_PUBLIC_BASE_URL", Message: "public base url is required for the s3 blob backend"}
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, &domain.ConfigurationError{Setting: "S3_ACCESS_KEY_ID", Message: "access key id and secret must be set together"}
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}

	logger.Info("s3 blob store configured",
		"bucket", cfg.Bucket,
		"region", awsCfg.Region,
		"endpoint", cfg.Endpoint,
		"public_base_url", cfg.PublicBaseURL,
		"url_ttl", ttl,
	)
	return &BlobStore{
		client:   client,
		uploader: manager.NewUploader(client),
		presign:  s3.NewPresignClient(client),
		bucket:   cfg.Bucket,
		baseURL:  cfg.PublicBaseURL,
		ttl:      ttl,
		logger:   logger,
	}, nil
}

// Upload streams body to path. The uploader switches to multipart for
// large bodies, so size is only a hint.
func (b *BlobStore) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (wsrepo.BlobRef, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	start := time.Now()
	if _, err := b.uploader.Upload(ctx, input); err != nil {
		return wsrepo.BlobRef{}, fmt.Errorf("upload %s: %w", path, err)
	}
	b.logger.Debug("blob uploaded",
		"path", path,
		"size", size,
		"duration", time.Since(start),
	)
	return wsrepo.BlobRef{Path: path}, nil
}

// PublicURL returns the stable URL of ref under the public base URL. It
// carries no signature, so it can be stored with the note.
func (b *BlobStore) PublicURL(ctx context.Context, ref wsrepo.BlobRef) (string, error) {
	u, err := url.JoinPath(b.baseURL, ref.Path)
	if err != nil {
		return "", fmt.Errorf("build blob url: %w", err)
	}
	return u, nil
}

// SignedURL presigns a short-lived GET URL for the object at path.
func (b *BlobStore) SignedURL(ctx context.Context, path string) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(b.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", path, err)
	}
	return req.URL, nil
}

// Delete removes the object at path. S3 reports success for missing keys.
func (b *BlobStore) Delete(ctx context.Context, path string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	b.logger.Debug("blob deleted", "path", path)
	return nil
}
