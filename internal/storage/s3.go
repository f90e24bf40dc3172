// Package storage wraps the three object buckets: documents (private,
// presigned access), avatars and logos (public).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Bucket identifies one of the application buckets.
type Bucket string

const (
	BucketDocuments Bucket = "documents"
	BucketAvatars   Bucket = "avatars"
	BucketLogos     Bucket = "logos"
)

// Store holds the S3 client and resolved bucket names.
type Store struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Region    string
	buckets   map[Bucket]string
}

// NewStore builds a store from environment configuration. Missing
// bucket variables leave the store disabled rather than failing boot.
func NewStore(ctx context.Context) (*Store, error) {
	buckets := map[Bucket]string{
		BucketDocuments: os.Getenv("DOCUMENTS_S3_BUCKET"),
		BucketAvatars:   os.Getenv("AVATARS_S3_BUCKET"),
		BucketLogos:     os.Getenv("LOGOS_S3_BUCKET"),
	}
	if buckets[BucketDocuments] == "" && buckets[BucketAvatars] == "" && buckets[BucketLogos] == "" {
		return &Store{buckets: buckets}, nil
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "eu-central-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg)
	return &Store{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Region:    region,
		buckets:   buckets,
	}, nil
}

// Enabled reports whether the bucket is configured and usable.
func (s *Store) Enabled(b Bucket) bool {
	return s != nil && s.Client != nil && s.buckets[b] != ""
}

// Upload puts an object into the bucket.
func (s *Store) Upload(ctx context.Context, b Bucket, key, contentType string, body []byte) error {
	if !s.Enabled(b) {
		return fmt.Errorf("%s bucket not configured", b)
	}
	bucket := s.buckets[b]
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Remove deletes an object from the bucket.
func (s *Store) Remove(ctx context.Context, b Bucket, key string) error {
	if !s.Enabled(b) {
		return fmt.Errorf("%s bucket not configured", b)
	}
	bucket := s.buckets[b]
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

// SignedURL returns a time-limited GET URL for a private object.
// Only the documents bucket hands out signed URLs.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if !s.Enabled(BucketDocuments) {
		return "", fmt.Errorf("documents bucket not configured")
	}
	bucket := s.buckets[BucketDocuments]
	out, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}
	return out.URL, nil
}

// PublicURL returns the stable URL of an object in a public bucket.
func (s *Store) PublicURL(b Bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.buckets[b], s.Region, key)
}

// ObjectKey builds a tenant-prefixed object key so one company can
// never address another company's files.
func ObjectKey(companyID, name string) string {
	return fmt.Sprintf("%s/%s-%s", companyID, time.Now().UTC().Format("20060102T150405Z"), name)
}
