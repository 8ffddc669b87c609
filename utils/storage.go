// utils/storage.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"recycling-rewards-backend/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore uploads public assets (material icons, content images) to an
// S3-compatible bucket and returns their CDN URL.
type ObjectStore struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

func NewObjectStore(ctx context.Context, cfg config.StorageConfig) (*ObjectStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &ObjectStore{
		client:     client,
		bucket:     cfg.Bucket,
		cdnBaseURL: strings.TrimSuffix(cfg.CDNBaseURL, "/"),
	}, nil
}

// Put stores body under key (e.g. "materials/abc.png") and returns the public URL.
func (s *ObjectStore) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *ObjectStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.cdnBaseURL, key)
}
