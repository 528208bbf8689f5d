package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/config"
	"github.com/d1s-utils/hole/internal/pkg/logger"
)

const defaultRegion = "us-east-1"

// s3API is the subset of the S3 client used by the store.
type s3API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Store struct {
	client   s3API
	uploader *manager.Uploader
	bucket   string
	prefix   string
	logger   logger.Logger
}

// NewS3Store creates an ObjectStore keeping each object under prefix+ID in an S3 bucket.
// A custom endpoint (e.g. MinIO) switches to path-style addressing.
func NewS3Store(ctx context.Context, settings *config.StorageSettings, logger logger.Logger) (objects.ObjectStore, error) {
	region := settings.Region
	if region == "" {
		region = defaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if settings.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("using S3 storage", "bucket", settings.Bucket, "region", region)
	return newS3Store(client, settings.Bucket, settings.Prefix, logger), nil
}

func newS3Store(client s3API, bucket, prefix string, logger logger.Logger) *s3Store {
	return &s3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
		logger:   logger,
	}
}

func (s *s3Store) key(id string) string {
	return s.prefix + id
}

// Create streams content through the multipart uploader, which does not need the length in advance.
func (s *s3Store) Create(ctx context.Context, id string) (objects.ContentWriter, error) {
	return newPipeWriter(ctx, func(ctx context.Context, r io.Reader) error {
		_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(id)),
			Body:   r,
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", s.key(id), err)
		}
		return nil
	}), nil
}

func (s *s3Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.key(id), err)
	}
	return out.Body, nil
}

func (s *s3Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.key(id), err)
	}

	s.logger.Debug("deleted object content", "bucket", s.bucket, "key", s.key(id))
	return nil
}
