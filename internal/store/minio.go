package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
)

// ErrObjectExists is returned by Upload when the public id is already taken.
var ErrObjectExists = errors.New("object already exists")

// MinioStore is the media host: image objects in one bucket, addressed by
// their public id.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStore connects to the media host. cloudName is the bucket;
// publicURL, when set, is the base used for retrieval URLs.
func NewMinioStore(ctx context.Context, endpoint, apiKey, apiSecret, cloudName, publicURL string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(apiKey, apiSecret, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, cloudName)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cloudName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}
	return &MinioStore{client: client, bucket: cloudName, baseURL: publicURL}, nil
}

// Upload stores data under publicID and returns its retrieval URL. It never
// overwrites: an existing key yields ErrObjectExists.
func (s *MinioStore) Upload(ctx context.Context, publicID string, data []byte, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	opts.SetMatchETagExcept("*")
	_, err := s.client.PutObject(ctx, s.bucket, publicID, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		if minio.ToErrorResponse(err).StatusCode == http.StatusPreconditionFailed {
			return "", fmt.Errorf("minio put %s: %w", publicID, ErrObjectExists)
		}
		return "", fmt.Errorf("minio put %s: %w", publicID, err)
	}
	return ObjectURL(s.baseURL, s.bucket, publicID), nil
}

// Remove deletes the object. The S3 API treats deleting a missing key as
// success, so existence is checked first.
func (s *MinioStore) Remove(ctx context.Context, publicID string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, publicID, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return apperror.NotFound("image", publicID)
		}
		return fmt.Errorf("minio stat %s: %w", publicID, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove %s: %w", publicID, err)
	}
	return nil
}

// ObjectURL joins base, bucket and key into a path-style object URL.
func ObjectURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(bucket) + "/" + url.PathEscape(key)
}
