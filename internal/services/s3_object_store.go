package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"adboard/internal/config"
	"adboard/internal/interfaces"
)

var _ interfaces.ObjectStore = (*S3ObjectStore)(nil)

type S3ObjectStore struct {
	client        *s3.Client
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
}

func NewS3ObjectStore(cfg *config.S3Config) *S3ObjectStore {
	return &S3ObjectStore{
		client:        cfg.Client,
		uploader:      manager.NewUploader(cfg.Client),
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
	}
}

func (s *S3ObjectStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return PublicURL(s.publicBaseURL, key), nil
}

func (s *S3ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}
