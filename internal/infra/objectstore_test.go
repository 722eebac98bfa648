package infra

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3MediaStore_Put(t *testing.T) {
	fake := &fakePutter{}
	store := newS3MediaStore(fake, "dreams", "https://cdn.example.com/")

	url, err := store.Put(context.Background(), "images", "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	require.NotNil(t, fake.in)
	key := aws.ToString(fake.in.Key)
	assert.Equal(t, "dreams", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.in.ContentType))
	assert.True(t, strings.HasPrefix(key, "images/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "https://cdn.example.com/"+key, url)
	assert.Equal(t, []byte("png-bytes"), fake.body)
}

func TestS3MediaStore_PutError(t *testing.T) {
	store := newS3MediaStore(&fakePutter{err: errors.New("access denied")}, "dreams", "https://cdn.example.com")

	_, err := store.Put(context.Background(), "videos", "video/mp4", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3MediaStore_DefaultPublicURL(t *testing.T) {
	store, err := NewS3MediaStore(context.Background(), S3Config{
		Bucket:    "dreams",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000/",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/dreams", store.publicURL)
}

func TestNewS3MediaStore_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := NewS3MediaStore(context.Background(), S3Config{Bucket: "dreams"})
	assert.ErrorContains(t, err, "no profile")
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".mp4", extensionFor("video/mp4"))
	assert.Equal(t, "", extensionFor("application/octet-stream"))
}
