package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

const jsonContentType = "application/json"

// ReportStore reads and writes JSON documents under the client's bucket.
type ReportStore struct {
	client *Client
	logger logging.Logger
}

// NewReportStore creates a ReportStore on client.
func NewReportStore(client *Client, log logging.Logger) *ReportStore {
	return &ReportStore{client: client, logger: log}
}

func (s *ReportStore) objectKey(key string) string {
	if s.client.cfg.Prefix == "" {
		return key
	}
	return path.Join(s.client.cfg.Prefix, key)
}

// Location renders the s3:// URI of key.
func (s *ReportStore) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.client.cfg.Bucket, s.objectKey(key))
}

// PutJSON marshals v and stores it at key.  It returns the object location.
func (s *ReportStore) PutJSON(ctx context.Context, key string, v any) (string, error) {
	if key == "" {
		return "", errors.New(errors.ErrCodeValidation, "object key required")
	}
	if s.client.isClosed() {
		return "", ErrClientClosed
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal report")
	}

	objectKey := s.objectKey(key)
	info, err := s.client.api.PutObject(ctx, s.client.cfg.Bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  jsonContentType,
			UserMetadata: map[string]string{"archived-at": time.Now().UTC().Format(time.RFC3339)},
		})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to upload report").WithDetail(objectKey)
	}

	s.logger.Info("Report archived",
		logging.String("bucket", info.Bucket),
		logging.String("key", objectKey),
		logging.Int64("size", info.Size))
	return s.Location(key), nil
}

// GetJSON loads key and decodes it into dest.
func (s *ReportStore) GetJSON(ctx context.Context, key string, dest any) error {
	if s.client.isClosed() {
		return ErrClientClosed
	}
	objectKey := s.objectKey(key)
	obj, err := s.client.api.GetObject(ctx, s.client.cfg.Bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return s.readError(err, objectKey)
	}
	defer obj.Close()

	if err := json.NewDecoder(obj).Decode(dest); err != nil {
		if isNotFound(err) {
			return s.readError(err, objectKey)
		}
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode report").WithDetail(objectKey)
	}
	return nil
}

// Exists reports whether key is stored.
func (s *ReportStore) Exists(ctx context.Context, key string) (bool, error) {
	objectKey := s.objectKey(key)
	_, err := s.client.api.StatObject(ctx, s.client.cfg.Bucket, objectKey, minio.StatObjectOptions{})
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat report").WithDetail(objectKey)
	}
}

// Delete removes key.  Deleting a missing object succeeds.
func (s *ReportStore) Delete(ctx context.Context, key string) error {
	objectKey := s.objectKey(key)
	if err := s.client.api.RemoveObject(ctx, s.client.cfg.Bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to delete report").WithDetail(objectKey)
	}
	return nil
}

// PresignedURL returns a time-limited download link for key.  Zero expiry
// uses the client default.
func (s *ReportStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = s.client.cfg.PresignExpiry
	}
	u, err := s.client.api.PresignedGetObject(ctx, s.client.cfg.Bucket, s.objectKey(key), expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign report URL")
	}
	return u.String(), nil
}

func (s *ReportStore) readError(err error, objectKey string) error {
	if isNotFound(err) {
		return errors.Wrap(err, errors.ErrCodeNotFound, "report not found").WithDetail(objectKey)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, "failed to download report").WithDetail(objectKey)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}
