package transpile

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config points at an S3-compatible endpoint (AWS, MinIO).
type S3Config struct {
	Endpoint  string `koanf:"endpoint" yaml:"endpoint"`
	Region    string `koanf:"region" yaml:"region"`
	AccessKey string `koanf:"access_key" yaml:"access_key"`
	SecretKey string `koanf:"secret_key" yaml:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl" yaml:"use_ssl"`
}

// S3Sink stores each converted file as <prefix>/<runID>/<rel>. Directories
// are implicit in object keys.
type S3Sink struct {
	client *minio.Client
	bucket string
	prefix string
	region string

	mu    sync.Mutex
	runID string

	initOnce sync.Once
	initErr  error
}

// ParseS3URL splits s3://bucket/prefix. ok is false for anything else.
func ParseS3URL(raw string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(raw), "s3://")
	if !found {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, strings.Trim(prefix, "/"), true
}

func NewS3Sink(cfg S3Config, bucket, prefix string) (*S3Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		region: region,
	}, nil
}

func (s *S3Sink) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Sink) Begin(ctx context.Context, runID string) error {
	if strings.TrimSpace(runID) == "" {
		return fmt.Errorf("run id is required")
	}
	s.mu.Lock()
	s.runID = runID
	s.mu.Unlock()
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *S3Sink) MkdirAll(context.Context, string) error { return nil }

func (s *S3Sink) WriteFile(ctx context.Context, rel string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(rel), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	return err
}

func (s *S3Sink) Location(rel string) string {
	return "s3://" + s.bucket + "/" + s.objectKey(rel)
}

func (s *S3Sink) objectKey(rel string) string {
	s.mu.Lock()
	runID := s.runID
	s.mu.Unlock()
	return objectKey(s.prefix, runID, rel)
}

func objectKey(prefix, runID, rel string) string {
	rel = strings.TrimLeft(strings.TrimSpace(rel), "/")
	if rel == "" {
		return path.Join(prefix, runID)
	}
	return path.Join(prefix, runID, rel)
}
