package objstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Config struct {
	Region    string
	Endpoint  string // For S3 compatible stores, e.g. minio
	Bucket    string
	PublicURL string // Overrides the upload location when set
}

// S3 uploads objects to a bucket.
type S3 struct {
	uploader  *s3manager.Uploader
	bucket    string
	publicURL string
}

func NewS3(cfg S3Config) (S3, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return S3{}, fmt.Errorf("error creating aws session: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = Bucket
	}

	return S3{
		uploader:  s3manager.NewUploader(sess),
		bucket:    bucket,
		publicURL: cfg.PublicURL,
	}, nil
}

func (s S3) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}

	if s.publicURL != "" {
		return joinURL(s.publicURL, key), nil
	}
	return out.Location, nil
}
