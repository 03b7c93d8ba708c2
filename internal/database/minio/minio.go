package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"maturity-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient wraps the MinIO client with maturity service specific buckets.
type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
}

// Storage defines the bucket names used by the service.
var Storage = struct {
	EvidenceAttachments string
	ValidationReports   string
}{
	EvidenceAttachments: "evidence-attachments",
	ValidationReports:   "validation-reports",
}

// BucketNames contains every bucket the service requires.
var BucketNames = []string{
	Storage.EvidenceAttachments,
	Storage.ValidationReports,
}

// ObjectLocationPrefix marks evidence locations that point into object
// storage instead of an external URL.
const ObjectLocationPrefix = "minio://"

// NewMinioClient initializes a MinIO client and ensures the required buckets.
func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		slog.Warn("Invalid value for MinIO secure flag, defaulting to false", "error", err)
		isSecure = false
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err = minioClient.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}

	mc := &MinioClient{client: minioClient, config: cfg}

	if err := mc.ensureRequiredBuckets(); err != nil {
		return nil, fmt.Errorf("failed to ensure required buckets: %w", err)
	}

	slog.Info("MinIO client initialized", "endpoint", endpoint, "buckets", len(BucketNames))
	return mc, nil
}

func (mc *MinioClient) ensureRequiredBuckets() error {
	ctx := context.Background()
	for _, bucketName := range BucketNames {
		if err := mc.ensureBucket(ctx, bucketName); err != nil {
			return fmt.Errorf("failed to ensure bucket %s: %w", bucketName, err)
		}
	}
	return nil
}

func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		err := mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
			Region: mc.config.MinioLocation,
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %s: %w", bucketName, err)
		}
		slog.Info("Created bucket", "bucket", bucketName)
	}
	return nil
}

// UploadBytes uploads byte data to the specified bucket.
func (mc *MinioClient) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := mc.client.PutObject(ctx, bucketName, objectName, reader, int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload bytes to %s in bucket %s: %w", objectName, bucketName, err)
	}
	return nil
}

// GetBytes retrieves an object's content from the specified bucket.
func (mc *MinioClient) GetBytes(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	object, err := mc.client.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", objectName, bucketName, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s from bucket %s: %w", objectName, bucketName, err)
	}
	return data, nil
}

// FetchObjectLocation resolves a minio://bucket/object evidence location and
// returns the stored content.
func (mc *MinioClient) FetchObjectLocation(ctx context.Context, location string) ([]byte, error) {
	bucketName, objectName, err := ParseObjectLocation(location)
	if err != nil {
		return nil, err
	}
	return mc.GetBytes(ctx, bucketName, objectName)
}

// ParseObjectLocation splits a minio://bucket/object location into its parts.
func ParseObjectLocation(location string) (bucket string, object string, err error) {
	if !strings.HasPrefix(location, ObjectLocationPrefix) {
		return "", "", fmt.Errorf("not an object storage location: %s", location)
	}
	rest := strings.TrimPrefix(location, ObjectLocationPrefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed object storage location: %s", location)
	}
	return parts[0], parts[1], nil
}

// IsObjectLocation reports whether an evidence location points into object storage.
func IsObjectLocation(location string) bool {
	return strings.HasPrefix(location, ObjectLocationPrefix)
}
