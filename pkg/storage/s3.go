package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	internalConfig "github.com/chodocu/chodocu-backend/internal/config"
)

// S3Storage talks to any S3-compatible store; in deployment that is a MinIO
// instance fronting the product images and avatars.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3Storage(cfg *internalConfig.Config) (*S3Storage, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: cfg.Storage.Endpoint}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// MinIO serves buckets under the path, not a subdomain.
		o.UsePathStyle = true
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Storage.Bucket,
		publicURL: strings.TrimRight(cfg.Storage.PublicURL, "/"),
	}, nil
}

func (s *S3Storage) Upload(key string, src io.Reader, contentType string) error {
	var body io.Reader
	var size int64

	if seeker, ok := src.(io.ReadSeeker); ok {
		end, err := seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return fmt.Errorf("failed to seek to end: %w", err)
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek back to start: %w", err)
		}
		body, size = seeker, end
	} else {
		buf, err := io.ReadAll(src)
		if err != nil {
			return fmt.Errorf("failed to read file content: %w", err)
		}
		body, size = bytes.NewReader(buf), int64(len(buf))
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}

	if _, err := s.client.PutObject(context.TODO(), input); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func (s *S3Storage) Delete(key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	_, err := s.client.DeleteObject(context.TODO(), input)
	return err
}

// PublicURL returns the browser-reachable URL for an object key.
func (s *S3Storage) PublicURL(key string) string {
	return s.publicURL + "/" + key
}

// PublicEndpoint is the prefix all hosted image URLs must carry. Product
// creation uses it to refuse URLs pointing anywhere else.
func (s *S3Storage) PublicEndpoint() string {
	return s.publicURL
}

// ObjectKeyFromURL extracts the object key from a public URL, or "" when the
// URL does not belong to this store.
func (s *S3Storage) ObjectKeyFromURL(raw string) string {
	if !strings.HasPrefix(raw, s.publicURL+"/") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
