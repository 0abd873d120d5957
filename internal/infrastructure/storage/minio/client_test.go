package minio

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/upload"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

type fakeAPI struct {
	bucketExists bool
	existsErr    error
	madeBuckets  []string

	putBucket      string
	putObject      string
	putSize        int64
	putContentType string
	putErr         error

	statErr  error
	statInfo minio.ObjectInfo

	presigned string
}

func (f *fakeAPI) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.existsErr
}

func (f *fakeAPI) MakeBucket(_ context.Context, bucketName string, _ minio.MakeBucketOptions) error {
	f.madeBuckets = append(f.madeBuckets, bucketName)
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, bucketName, objectName string, _ io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.putBucket = bucketName
	f.putObject = objectName
	f.putSize = size
	f.putContentType = opts.ContentType
	return minio.UploadInfo{}, f.putErr
}

func (f *fakeAPI) GetObject(_ context.Context, _, _ string, _ minio.GetObjectOptions) (*minio.Object, error) {
	return nil, nil
}

func (f *fakeAPI) StatObject(_ context.Context, _, _ string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func (f *fakeAPI) PresignedGetObject(_ context.Context, _, objectName string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse(f.presigned + objectName)
}

func (f *fakeAPI) ListBuckets(_ context.Context) ([]minio.BucketInfo, error) {
	return nil, nil
}

func newTestClient(api *fakeAPI) *Client {
	return &Client{api: api, bucket: "teenfin-uploads", log: logging.NewNopLogger()}
}

func TestEnsureBucket_CreatesWhenMissing(t *testing.T) {
	api := &fakeAPI{bucketExists: false}
	c := newTestClient(api)

	require.NoError(t, c.ensureBucket(context.Background()))
	assert.Equal(t, []string{"teenfin-uploads"}, api.madeBuckets)
}

func TestEnsureBucket_SkipsWhenPresent(t *testing.T) {
	api := &fakeAPI{bucketExists: true}
	c := newTestClient(api)

	require.NoError(t, c.ensureBucket(context.Background()))
	assert.Empty(t, api.madeBuckets)
}

func TestPut_ForwardsContentType(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(api)

	err := c.Put(context.Background(), "obj.png", strings.NewReader("x"), 1, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "teenfin-uploads", api.putBucket)
	assert.Equal(t, "obj.png", api.putObject)
	assert.Equal(t, int64(1), api.putSize)
	assert.Equal(t, "image/png", api.putContentType)
}

func TestGet_MapsNoSuchKey(t *testing.T) {
	api := &fakeAPI{statErr: minio.ErrorResponse{Code: "NoSuchKey"}}
	c := newTestClient(api)

	_, _, err := c.Get(context.Background(), "missing.png")
	assert.ErrorIs(t, err, upload.ErrObjectNotFound)
}

func TestGet_OtherStatErrorsPassThrough(t *testing.T) {
	boom := errors.New("connection reset")
	api := &fakeAPI{statErr: boom}
	c := newTestClient(api)

	_, _, err := c.Get(context.Background(), "obj.png")
	assert.ErrorIs(t, err, boom)
}

func TestGet_ReturnsStoredContentType(t *testing.T) {
	api := &fakeAPI{statInfo: minio.ObjectInfo{ContentType: "image/png"}}
	c := newTestClient(api)

	_, contentType, err := c.Get(context.Background(), "obj.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
}

func TestHealthCheck(t *testing.T) {
	c := newTestClient(&fakeAPI{bucketExists: true})
	assert.NoError(t, c.HealthCheck(context.Background()))

	c = newTestClient(&fakeAPI{bucketExists: false})
	err := c.HealthCheck(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsServiceUnavailable(err))

	c = newTestClient(&fakeAPI{existsErr: errors.New("down")})
	err = c.HealthCheck(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsServiceUnavailable(err))
}

func TestPresignedGetURL_DefaultExpiry(t *testing.T) {
	api := &fakeAPI{presigned: "https://minio.local/teenfin-uploads/"}
	c := newTestClient(api)

	u, err := c.PresignedGetURL(context.Background(), "obj.png")
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/teenfin-uploads/obj.png", u)
}
