// internal/services/s3_host.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/javajoker/catalog-admin/internal/config"
)

// S3ImageHost keeps product images in an S3 bucket, optionally served through
// CloudFront.
type S3ImageHost struct {
	client s3iface.S3API
	cfg    config.AWSConfig
}

func NewS3ImageHost(cfg config.AWSConfig) (*S3ImageHost, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required for the s3 image host")
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	// Without static keys the SDK falls back to its default credential chain.
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newS3ImageHost(s3.New(sess), cfg), nil
}

func newS3ImageHost(client s3iface.S3API, cfg config.AWSConfig) *S3ImageHost {
	return &S3ImageHost{client: client, cfg: cfg}
}

func (h *S3ImageHost) Upload(ctx context.Context, file UploadFile) (string, error) {
	key := h.objectKey(file.Name)

	_, err := h.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(h.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentType:   aws.String(file.ContentType),
		ContentLength: aws.Int64(int64(len(file.Data))),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return h.publicURL(key), nil
}

func (h *S3ImageHost) Delete(ctx context.Context, imageURL string) error {
	base := h.publicURL("")
	if !strings.HasPrefix(imageURL, base) {
		return fmt.Errorf("%q is not served from %s", imageURL, base)
	}
	key, _, _ := strings.Cut(strings.TrimPrefix(imageURL, base), "?")
	if key == "" {
		return fmt.Errorf("no object key in %q", imageURL)
	}

	_, err := h.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.cfg.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// objectKey is "<prefix>/<YYYYMMDD>_<8 hex>.<ext>".
func (h *S3ImageHost) objectKey(originalName string) string {
	id := uuid.New()
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := fmt.Sprintf("%s_%s%s", time.Now().Format("20060102"), id.String()[:8], ext)

	if prefix := strings.Trim(h.cfg.S3Prefix, "/"); prefix != "" {
		return prefix + "/" + filename
	}
	return filename
}

func (h *S3ImageHost) publicURL(key string) string {
	if h.cfg.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(h.cfg.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		h.cfg.S3Bucket, h.cfg.Region, key)
}
