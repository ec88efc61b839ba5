package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/person-service/backend/internal/domain/person"
)

// S3API is the subset of the S3 client used by S3PersonStore
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3PersonStore implements person.RecordStore with one JSON object per person.
// Conditional delete resolves the object's ETag with HeadObject and deletes with
// If-Match, so a concurrent rewrite is never removed blindly.
type S3PersonStore struct {
	client S3API
	bucket string
	prefix string
}

// NewS3PersonStore creates a new S3PersonStore
func NewS3PersonStore(client S3API, bucket, keyPrefix string) *S3PersonStore {
	return &S3PersonStore{client: client, bucket: bucket, prefix: keyPrefix}
}

// Key returns the object key for id
func (s *S3PersonStore) Key(id string) string {
	return s.prefix + id + ".json"
}

// Put uploads the record as JSON
func (s *S3PersonStore) Put(ctx context.Context, rec person.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal person %s: %w", rec.ID, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(rec.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put person %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteIfExists deletes the object if present
func (s *S3PersonStore) DeleteIfExists(ctx context.Context, id string) error {
	key := s.Key(id)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return fmt.Errorf("delete person %s: %w", id, person.ErrRecordNotFound)
		}
		return fmt.Errorf("failed to check person %s: %w", id, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket:  aws.String(s.bucket),
		Key:     aws.String(key),
		IfMatch: head.ETag,
	})
	if err != nil {
		if isS3NotFound(err) {
			return fmt.Errorf("delete person %s: %w", id, person.ErrRecordNotFound)
		}
		return fmt.Errorf("failed to delete person %s: %w", id, err)
	}
	return nil
}

// FindByID downloads and decodes the record
func (s *S3PersonStore) FindByID(ctx context.Context, id string) (*person.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(id)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, person.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get person %s: %w", id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read person %s: %w", id, err)
	}

	var rec person.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode person %s: %w", id, err)
	}
	return &rec, nil
}

// Ping checks bucket access
func (s *S3PersonStore) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("failed to head bucket %s: %w", s.bucket, err)
	}
	return nil
}

// isS3NotFound matches the typed errors and, for S3-compatible servers that
// return them differently, the raw API error codes.
func isS3NotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

var _ person.RecordStore = (*S3PersonStore)(nil)
