package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options for connecting to MinIO / S3.
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL overrides the scheme://host used in returned object URLs.
	PublicURL string
}

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	publicURL  string
}

// New buat koneksi MinIO dan pastikan bucket ada
func New(ctx context.Context, opt Options) (*Store, error) {
	cli, err := minio.New(opt.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opt.AccessKey, opt.SecretKey, ""),
		Secure: opt.UseSSL,
		Region: opt.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, opt.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opt.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, opt.Bucket, minio.MakeBucketOptions{Region: opt.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opt.Bucket, err)
		}
	}

	base := opt.PublicURL
	if base == "" {
		base = cli.EndpointURL().Scheme + "://" + cli.EndpointURL().Host
	}
	return &Store{client: cli, bucketName: opt.Bucket, region: opt.Region, publicURL: base}, nil
}

// Upload implementasi ArtifactStore: simpan body di key, balikin URL object
func (s *Store) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	// URL publik (jika bucket public), kalau private harus generate presigned URL
	return objectURL(s.publicURL, s.bucketName, key)
}

func objectURL(base, bucket, key string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("public url %q: %w", base, err)
	}
	return u.JoinPath(bucket, key).String(), nil
}
