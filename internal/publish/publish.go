// Package publish uploads written report artifacts to S3-compatible storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config describes the target store.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Target is a parsed "s3://bucket/prefix" location.
type Target struct {
	Bucket string
	Prefix string
}

// ParseTarget parses an s3:// URL. The prefix may be empty.
func ParseTarget(raw string) (Target, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "s3://")
	if !ok {
		return Target{}, fmt.Errorf("publish target %q: must start with s3://", raw)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Target{}, fmt.Errorf("publish target %q: bucket is required", raw)
	}
	return Target{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// ObjectKey joins prefix and the base name of a local file.
func ObjectKey(prefix, file string) string {
	name := filepath.Base(file)
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Publisher uploads files to one bucket.
type Publisher struct {
	client *minio.Client
	bucket string
	prefix string
	region string
}

// New validates cfg and builds the client. No request is made until Upload.
func New(cfg Config) (*Publisher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
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
	return &Publisher{client: client, bucket: bucket, prefix: cfg.Prefix, region: region}, nil
}

// Upload creates the bucket if needed and puts every file under the
// configured prefix. It returns the keys that were stored; failures of
// individual files are joined into the error.
func (p *Publisher) Upload(ctx context.Context, files []string) ([]string, error) {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", p.bucket, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", p.bucket, err)
		}
	}

	var (
		keys []string
		errs []error
	)
	for _, f := range files {
		key := ObjectKey(p.prefix, f)
		_, err := p.client.FPutObject(ctx, p.bucket, key, f, minio.PutObjectOptions{
			ContentType: contentType(f),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("upload %s: %w", f, err))
			continue
		}
		keys = append(keys, key)
	}
	return keys, errors.Join(errs...)
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".csv":
		return "text/csv; charset=utf-8"
	}
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}
