package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/everlightos/federation/internal/domain"
)

type MockS3API struct {
	mock.Mock
}

func (m *MockS3API) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func (m *MockS3API) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3API) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3API) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func (m *MockS3API) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.CreateBucketOutput), args.Error(1)
}

func TestS3Client_List(t *testing.T) {
	api := new(MockS3API)
	c := &S3Client{client: api, bucket: "one-bucket-everlightos"}
	ctx := context.Background()
	uploaded := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	api.On("ListObjectsV2", ctx, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "voyagers-chunks/" && aws.ToInt32(in.MaxKeys) == 1000
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("voyagers-chunks/a.md"), Size: aws.Int64(12), LastModified: aws.Time(uploaded)},
			{Key: aws.String("voyagers-chunks/b.md"), Size: aws.Int64(34), LastModified: aws.Time(uploaded)},
		},
	}, nil)

	objects, err := c.List(ctx, "voyagers-chunks/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "voyagers-chunks/a.md", objects[0].Key)
	assert.Equal(t, int64(34), objects[1].Size)
	assert.Equal(t, uploaded, objects[0].Uploaded)
	api.AssertExpectations(t)
}

func TestS3Client_List_EmptyPrefixOmitted(t *testing.T) {
	api := new(MockS3API)
	c := &S3Client{client: api, bucket: "b"}
	ctx := context.Background()

	api.On("ListObjectsV2", ctx, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.Prefix == nil
	})).Return(&s3.ListObjectsV2Output{}, nil)

	objects, err := c.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestS3Client_List_Error(t *testing.T) {
	api := new(MockS3API)
	c := &S3Client{client: api, bucket: "b"}
	ctx := context.Background()

	api.On("ListObjectsV2", ctx, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := c.List(ctx, "x/")
	assert.ErrorContains(t, err, "failed to list objects")
	assert.ErrorIs(t, err, domain.ErrStorageOperationFail)
}

func TestS3Client_Get_Error(t *testing.T) {
	api := new(MockS3API)
	c := &S3Client{client: api, bucket: "b"}
	ctx := context.Background()

	api.On("GetObject", ctx, mock.Anything).Return(nil, errors.New("timeout"))

	body, ok, err := c.Get(ctx, "k.md")
	assert.ErrorIs(t, err, domain.ErrStorageOperationFail)
	assert.ErrorContains(t, err, "timeout")
	assert.False(t, ok)
	assert.Nil(t, body)
}

func TestS3Client_Get(t *testing.T) {
	api := new(MockS3API)
	c := &S3Client{client: api, bucket: "b"}
	ctx := context.Background()

	api.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "k.md"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("hello"))}, nil)
	api.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "missing.md"
	})).Return(nil, &types.NoSuchKey{})

	body, ok, err := c.Get(ctx, "k.md")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", string(body))

	body, ok, err = c.Get(ctx, "missing.md")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)
}

func TestS3Client_Put(t *testing.T) {
	api := new(MockS3API)
	c := &S3Client{client: api, bucket: "b"}
	ctx := context.Background()

	api.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Key) == "voyagers-chunks/a.md" &&
			aws.ToString(in.ContentType) == "text/markdown" &&
			aws.ToInt64(in.ContentLength) == 5
	})).Return(&s3.PutObjectOutput{}, nil)

	require.NoError(t, c.Put(ctx, "voyagers-chunks/a.md", []byte("hello"), "text/markdown"))
	api.AssertExpectations(t)
}

func TestS3Client_EnsureBucket(t *testing.T) {
	api := new(MockS3API)
	c := &S3Client{client: api, bucket: "b"}
	ctx := context.Background()

	api.On("HeadBucket", ctx, mock.Anything).Return(nil, errors.New("not found"))
	api.On("CreateBucket", ctx, mock.Anything).Return(&s3.CreateBucketOutput{}, nil)

	require.NoError(t, c.EnsureBucket(ctx))
	api.AssertExpectations(t)
}

func TestS3Client_URI(t *testing.T) {
	c := &S3Client{bucket: "one-bucket-everlightos"}
	assert.Equal(t, "s3://one-bucket-everlightos/voyagers-chunks/a.md", c.URI("voyagers-chunks/a.md"))
}
