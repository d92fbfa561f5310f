package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	fbstorage "firebase.google.com/go/v4/storage"
	"github.com/google/uuid"
)

const urlTTL = 15 * time.Minute

// BlobStore abstracts the media blob service. The application only ever
// stores and reads opaque blob IDs; URLs are minted on demand.
type BlobStore interface {
	// GenerateUploadURL mints a pre-signed PUT URL and the blob ID the
	// client must reference once the upload completes.
	GenerateUploadURL(ctx context.Context) (uploadURL, blobID string, err error)
	// ResolveURL mints a short-lived read URL for a stored blob ID.
	ResolveURL(ctx context.Context, blobID string) (string, error)
}

// GCSBlobStore implements BlobStore on the Firebase default bucket
type GCSBlobStore struct {
	bucket *gcs.BucketHandle
}

// NewGCSBlobStore creates a GCSBlobStore from the Firebase storage client
func NewGCSBlobStore(ctx context.Context, client *fbstorage.Client) (*GCSBlobStore, error) {
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default storage bucket: %w", err)
	}
	return &GCSBlobStore{bucket: bucket}, nil
}

// GenerateUploadURL mints a signed PUT URL for a fresh object key
func (s *GCSBlobStore) GenerateUploadURL(ctx context.Context) (string, string, error) {
	blobID := "media/" + uuid.New().String()
	url, err := s.bucket.SignedURL(blobID, &gcs.SignedURLOptions{
		Method:  http.MethodPut,
		Expires: time.Now().Add(urlTTL),
	})
	if err != nil {
		return "", "", fmt.Errorf("error signing upload URL: %w", err)
	}
	return url, blobID, nil
}

// ResolveURL mints a signed GET URL for an existing blob
func (s *GCSBlobStore) ResolveURL(ctx context.Context, blobID string) (string, error) {
	url, err := s.bucket.SignedURL(blobID, &gcs.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(urlTTL),
	})
	if err != nil {
		return "", fmt.Errorf("error signing read URL for %s: %w", blobID, err)
	}
	return url, nil
}
