package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/everlightos/federation/internal/domain"
)

// maxListKeys is the page size of a single list call.
const maxListKeys = 1000

// S3ClientConfig holds configuration for S3Client
type S3ClientConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// s3API is the subset of *s3.Client used by S3Client.
type s3API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3Client provides operations for S3-compatible storage (R2, RustFS, AWS)
type S3Client struct {
	client s3API
	bucket string
}

// NewS3Client creates a new S3Client with the given configuration
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*S3Client, error) {
	// Create custom resolver for S3-compatible endpoints
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Client{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// URI returns the s3:// address of key.
func (c *S3Client) URI(key string) string {
	return fmt.Sprintf("s3://%s/%s", c.bucket, key)
}

// List returns one page of objects under prefix, in key order.
func (c *S3Client) List(ctx context.Context, prefix string) ([]domain.BucketObject, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		MaxKeys: aws.Int32(maxListKeys),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	output, err := c.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, domain.Wrap(domain.ErrStorageOperationFail, fmt.Errorf("failed to list objects: %w", err))
	}

	objects := make([]domain.BucketObject, 0, len(output.Contents))
	for _, obj := range output.Contents {
		objects = append(objects, domain.BucketObject{
			Key:      aws.ToString(obj.Key),
			Size:     aws.ToInt64(obj.Size),
			Uploaded: aws.ToTime(obj.LastModified),
		})
	}
	return objects, nil
}

// Get reads a whole object. A missing key returns ok=false and no error.
func (c *S3Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	output, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, false, nil
		}
		return nil, false, domain.Wrap(domain.ErrStorageOperationFail, fmt.Errorf("failed to get object: %w", err))
	}
	defer output.Body.Close()

	body, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, false, domain.Wrap(domain.ErrStorageOperationFail, fmt.Errorf("failed to read object: %w", err))
	}
	return body, true, nil
}

// Put writes body under key.
func (c *S3Client) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return domain.Wrap(domain.ErrStorageOperationFail, fmt.Errorf("failed to put object: %w", err))
	}
	return nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (c *S3Client) EnsureBucket(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = c.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return domain.Wrap(domain.ErrStorageOperationFail, fmt.Errorf("failed to create bucket: %w", err))
	}

	return nil
}
