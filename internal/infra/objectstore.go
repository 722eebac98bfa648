package infra

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL prefixes object keys in returned links. Defaults to
	// Endpoint/Bucket.
	PublicURL string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3MediaStore uploads generated media and returns its public URL.
type S3MediaStore struct {
	client    objectPutter
	bucket    string
	publicURL string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

func NewS3MediaStore(ctx context.Context, cfg S3Config) (*S3MediaStore, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	public := cfg.PublicURL
	if public == "" {
		public = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return newS3MediaStore(client, cfg.Bucket, public), nil
}

func newS3MediaStore(client objectPutter, bucket, publicURL string) *S3MediaStore {
	return &S3MediaStore{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// Put stores data under a dated random key below prefix.
func (s *S3MediaStore) Put(ctx context.Context, prefix, contentType string, data []byte) (string, error) {
	key := storageKey(prefix, extensionFor(contentType))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func storageKey(prefix, ext string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", strings.Trim(prefix, "/"), d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	}
	return ""
}
