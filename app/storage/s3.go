package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vibast-solutions/ms-go-donations/config"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes public-read objects to one bucket.
type S3Uploader struct {
	client        s3API
	bucket        string
	region        string
	publicBaseURL string
}

func NewS3Uploader(ctx context.Context, cfg config.StorageConfig) (*S3Uploader, error) {
	if strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil, errors.New("S3_BUCKET is required for the s3 storage driver")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client s3API, cfg config.StorageConfig) *S3Uploader {
	return &S3Uploader{
		client:        client,
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}
}

func (u *S3Uploader) Put(ctx context.Context, obj *Object) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(obj.Key),
		Body:        obj.Body,
		ContentType: aws.String(obj.ContentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to s3: %w", err)
	}
	return u.objectURL(obj.Key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
