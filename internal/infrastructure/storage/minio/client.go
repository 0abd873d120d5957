// Package minio backs the upload object store with a MinIO (or any S3
// compatible) bucket.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtlebank/teenfin/internal/config"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/upload"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

const noSuchKey = "NoSuchKey"

// objectAPI is the slice of the minio-go client the store uses.  Kept as an
// interface so tests can run without a live server.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
}

// Client implements upload.ObjectStore on one bucket.
type Client struct {
	api    objectAPI
	bucket string
	expiry time.Duration
	log    logging.Logger
}

var _ upload.ObjectStore = (*Client)(nil)

// NewClient connects to the configured endpoint and makes sure the upload
// bucket exists.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create minio client")
	}

	c := &Client{
		api:    api,
		bucket: cfg.Bucket,
		expiry: cfg.PresignExpiry,
		log:    log.Named("minio"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("minio connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "check upload bucket")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal,
			fmt.Sprintf("create bucket %s", c.bucket))
	}
	c.log.Info("created upload bucket", logging.String("bucket", c.bucket))
	return nil
}

// Put streams one object into the bucket.
func (c *Client) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, err := c.api.PutObject(ctx, c.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Get returns the object content and its stored content type.  The stat
// round trip surfaces missing objects before a reader is handed out, since
// minio-go reports NoSuchKey lazily on first read otherwise.
func (c *Client) Get(ctx context.Context, objectName string) (io.ReadCloser, string, error) {
	info, err := c.api.StatObject(ctx, c.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return nil, "", upload.ErrObjectNotFound
		}
		return nil, "", err
	}

	obj, err := c.api.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	return obj, info.ContentType, nil
}

// PresignedGetURL builds a time-limited direct download link.
func (c *Client) PresignedGetURL(ctx context.Context, objectName string) (string, error) {
	expiry := c.expiry
	if expiry == 0 {
		expiry = time.Hour
	}
	u, err := c.api.PresignedGetObject(ctx, c.bucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// HealthCheck verifies the server answers and the bucket is present.
func (c *Client) HealthCheck(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "minio health check")
	}
	if !exists {
		return apperrors.Newf(apperrors.ErrCodeServiceUnavailable, "bucket %s missing", c.bucket)
	}
	return nil
}
