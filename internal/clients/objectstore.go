package clients

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/lakeshed/lakeshed/internal/config"
	"github.com/lakeshed/lakeshed/internal/logging"
	"github.com/lakeshed/lakeshed/pkg/version"
)

// ObjectStoreClient wraps the MinIO bucket backing the warehouse.
type ObjectStoreClient struct {
	mc     *minio.Client
	bucket string
	log    zerolog.Logger
}

// NewObjectStoreClient builds a client for the configured endpoint. No
// request is made until the first operation.
func NewObjectStoreClient(cfg *config.Config) (*ObjectStoreClient, error) {
	mc, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	mc.SetAppInfo(cfg.AppName, version.Short())

	log := logging.Component("minio")
	log.Debug().
		Str("endpoint", cfg.MinIOEndpoint).
		Str("bucket", cfg.MinIOBucket).
		Bool("secure", cfg.MinIOSecure).
		Msg("Object store client initialized")

	return &ObjectStoreClient{mc: mc, bucket: cfg.MinIOBucket, log: log}, nil
}

// Bucket returns the warehouse bucket name.
func (c *ObjectStoreClient) Bucket() string {
	return c.bucket
}

// BucketExists reports whether the warehouse bucket is present.
func (c *ObjectStoreClient) BucketExists(ctx context.Context) (bool, error) {
	ok, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket %s: %w", c.bucket, err)
	}
	return ok, nil
}

// Upload stores a local file under the given object name.
func (c *ObjectStoreClient) Upload(ctx context.Context, objectName, filePath string) error {
	info, err := c.mc.FPutObject(ctx, c.bucket, objectName, filePath, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", filePath, err)
	}
	c.log.Info().
		Str("object", objectName).
		Int64("size", info.Size).
		Msg("Uploaded object")
	return nil
}

// Download fetches an object into a local file.
func (c *ObjectStoreClient) Download(ctx context.Context, objectName, filePath string) error {
	if err := c.mc.FGetObject(ctx, c.bucket, objectName, filePath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("failed to download %s: %w", objectName, err)
	}
	c.log.Info().Str("object", objectName).Str("path", filePath).Msg("Downloaded object")
	return nil
}

// List returns the object names under a prefix.
func (c *ObjectStoreClient) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for obj := range c.mc.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, obj.Err)
		}
		names = append(names, obj.Key)
	}
	c.log.Debug().Str("prefix", prefix).Int("objects", len(names)).Msg("Listed objects")
	return names, nil
}

// Remove deletes an object.
func (c *ObjectStoreClient) Remove(ctx context.Context, objectName string) error {
	if err := c.mc.RemoveObject(ctx, c.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectName, err)
	}
	c.log.Info().Str("object", objectName).Msg("Removed object")
	return nil
}

// Exists reports whether an object is present.
func (c *ObjectStoreClient) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := c.mc.StatObject(ctx, c.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", objectName, err)
	}
	return true, nil
}
