package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/clipforge/clipforge/config"
)

// S3Config holds the settings for the S3 media host
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3ConfigFromEnv reads the S3 media host settings from the environment.
// An empty bucket means no media host is configured.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:          config.GetEnv("CLIPFORGE_S3_REGION", "us-east-1"),
		Bucket:          config.GetEnv("CLIPFORGE_S3_BUCKET", ""),
		Prefix:          config.GetEnv("CLIPFORGE_S3_PREFIX", "clips"),
		AccessKeyID:     config.GetEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
}

// S3Host uploads media to an S3 bucket with public-read access
type S3Host struct {
	uploader *s3manager.Uploader
	region   string
	bucket   string
	prefix   string
}

var _ MediaHost = (*S3Host)(nil)

// NewS3Host creates an S3 media host. Static credentials are used when
// provided; otherwise the default AWS credential chain applies.
func NewS3Host(cfg S3Config) (*S3Host, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 media host requires a bucket")
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return &S3Host{
		uploader: s3manager.NewUploader(sess),
		region:   cfg.Region,
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
	}, nil
}

// Upload stores the file under <prefix>/<basename> and returns its
// public URL
func (h *S3Host) Upload(ctx context.Context, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open media file: %w", err)
	}
	defer func() { _ = file.Close() }()

	key := filepath.Base(localPath)
	if h.prefix != "" {
		key = h.prefix + "/" + key
	}

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "video/mp4"
	}

	_, err = h.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.bucket, h.region, key), nil
}
