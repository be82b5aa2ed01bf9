package minio

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
)

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}

func (m *MockObjectAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *MockObjectAPI) SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error {
	return m.Called(ctx, bucketName, config).Error(0)
}

func (m *MockObjectAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockObjectAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*minio.Object), args.Error(1)
}

func (m *MockObjectAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockObjectAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucketName, objectName, opts).Error(0)
}

func (m *MockObjectAPI) PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expiry, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*url.URL), args.Error(1)
}

func newTestClient(api ObjectAPI, cfg ClientConfig) *Client {
	if cfg.Bucket == "" {
		cfg.Bucket = "reports"
	}
	return newClient(api, cfg, logging.NewNopLogger())
}

func TestNewClient_RequiresEndpointAndBucket(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{Bucket: "b"}, logging.NewNopLogger())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestApplyDefaults(t *testing.T) {
	c := newTestClient(new(MockObjectAPI), ClientConfig{})
	assert.Equal(t, "us-east-1", c.cfg.Region)
	assert.Equal(t, time.Hour, c.cfg.PresignExpiry)
	assert.Equal(t, "reports", c.Bucket())
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		api := new(MockObjectAPI)
		api.On("BucketExists", ctx, "reports").Return(true, nil)
		require.NoError(t, newTestClient(api, ClientConfig{}).EnsureBucket(ctx))
		api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		api := new(MockObjectAPI)
		api.On("BucketExists", ctx, "reports").Return(false, nil)
		api.On("MakeBucket", ctx, "reports", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)
		require.NoError(t, newTestClient(api, ClientConfig{Region: "eu-west-1"}).EnsureBucket(ctx))
		api.AssertExpectations(t)
	})

	t.Run("lookup fails", func(t *testing.T) {
		api := new(MockObjectAPI)
		api.On("BucketExists", ctx, "reports").Return(false, errors.New("denied"))
		err := newTestClient(api, ClientConfig{}).EnsureBucket(ctx)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStorageError))
	})
}

func TestSetupLifecycle(t *testing.T) {
	ctx := context.Background()
	api := new(MockObjectAPI)
	api.On("SetBucketLifecycle", ctx, "reports", mock.MatchedBy(func(lc *lifecycle.Configuration) bool {
		return len(lc.Rules) == 1 &&
			lc.Rules[0].Expiration.Days == 30 &&
			lc.Rules[0].RuleFilter.Prefix == "batches"
	})).Return(errors.New("not implemented"))

	// A lifecycle failure is only logged.
	newTestClient(api, ClientConfig{ReportExpiryDays: 30, Prefix: "batches"}).setupLifecycle(ctx)
	api.AssertExpectations(t)

	noRule := new(MockObjectAPI)
	newTestClient(noRule, ClientConfig{}).setupLifecycle(ctx)
	noRule.AssertNotCalled(t, "SetBucketLifecycle", mock.Anything, mock.Anything, mock.Anything)
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	api := new(MockObjectAPI)
	api.On("ListBuckets", ctx).Return([]minio.BucketInfo{{Name: "reports"}}, nil)
	api.On("BucketExists", ctx, "reports").Return(true, nil).Once()
	api.On("BucketExists", ctx, "reports").Return(false, nil).Once()
	c := newTestClient(api, ClientConfig{})

	assert.NoError(t, c.HealthCheck(ctx))
	assert.True(t, apperrors.IsCode(c.HealthCheck(ctx), apperrors.ErrCodeStorageError))

	down := new(MockObjectAPI)
	down.On("ListBuckets", ctx).Return(nil, errors.New("dial tcp: refused"))
	err := newTestClient(down, ClientConfig{}).HealthCheck(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeServiceUnavailable))

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.HealthCheck(ctx), ErrClientClosed)
}
