// internal/config/s3.go
package config

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the client and bucket used for ad images
type S3Config struct {
	Client        *s3.Client
	Bucket        string
	PublicBaseURL string
}

// NewS3Config builds an S3 client from static credentials in the environment.
func NewS3Config(ctx context.Context, settings S3Settings) (*S3Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(settings.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBaseURL := settings.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = "https://" + settings.Bucket + ".s3." + settings.Region + ".amazonaws.com"
	}

	return &S3Config{
		Client:        client,
		Bucket:        settings.Bucket,
		PublicBaseURL: publicBaseURL,
	}, nil
}
