package media

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/formworks/submission-service/internal/config"
	"github.com/formworks/submission-service/internal/types"
)

// Service stores submission media in a MinIO (or any S3-compatible)
// bucket and hands back publicly resolvable URLs.
type Service struct {
	client     *minio.Client
	bucketName string
	useSSL     bool
}

// NewService creates a new media service instance
func NewService(cfg *config.Config) (*Service, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKeyID, cfg.MinIO.SecretAccessKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	service := &Service{
		client:     client,
		bucketName: cfg.MinIO.BucketName,
		useSSL:     cfg.MinIO.UseSSL,
	}

	if err := service.ensureBucket(); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return service, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (s *Service) ensureBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// GenerateObjectKey creates a unique object key for an attachment
func (s *Service) GenerateObjectKey(kind types.MediaKind, contentType string) string {
	extensions, err := mime.ExtensionsByType(contentType)
	var ext string
	if err == nil && len(extensions) > 0 {
		ext = extensions[0]
	} else {
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "video/mp4":
			ext = ".mp4"
		case "video/mpeg":
			ext = ".mpeg"
		default:
			ext = ""
		}
	}

	filename := uuid.New().String() + ext

	return fmt.Sprintf("submissions/%s/%s", kind.ObjectKind(), filename)
}

// Upload stores one attachment blob and returns its public URL.
func (s *Service) Upload(ctx context.Context, data []byte, contentType string, kind types.MediaKind) (string, error) {
	objectKey := s.GenerateObjectKey(kind, contentType)

	_, err := s.client.PutObject(ctx, s.bucketName, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}

	return s.GetMediaURL(objectKey), nil
}

// GetMediaURL returns the public URL for accessing media (if bucket is public)
func (s *Service) GetMediaURL(objectKey string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}

	endpoint := strings.TrimPrefix(s.client.EndpointURL().String(), scheme+"://")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, s.bucketName, objectKey)
}

// ObjectKeyFromURL maps a public media URL back to its object key.
// Returns false if the URL does not point into this service's bucket.
func (s *Service) ObjectKeyFromURL(mediaURL string) (string, bool) {
	prefix := s.GetMediaURL("")
	if !strings.HasPrefix(mediaURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(mediaURL, prefix), true
}

// DeleteObject removes an object from storage
func (s *Service) DeleteObject(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
}

// ListObjects lists every submission object currently in the bucket
func (s *Service) ListObjects(ctx context.Context) ([]minio.ObjectInfo, error) {
	var objects []minio.ObjectInfo
	objectsCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    "submissions/",
		Recursive: true,
	})

	for object := range objectsCh {
		if object.Err != nil {
			return nil, object.Err
		}
		objects = append(objects, object)
	}

	return objects, nil
}
