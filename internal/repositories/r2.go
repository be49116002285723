package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// R2Store keeps objects in a Cloudflare R2 (or any S3 compatible) bucket.
type R2Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
}

// NewR2Store builds the client from static credentials. An empty endpoint
// selects the account's R2 endpoint.
func NewR2Store(accessKey, secretKey, accountID, endpoint, bucket, region string) *R2Store {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
		// R2 rejects the SDK's default trailing checksums on streamed bodies.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &R2Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		endpoint:  endpoint,
	}
}

func (s *R2Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	ctx, span := tracer.Start(ctx, "r2.put_object",
		trace.WithAttributes(
			attribute.String("object_key", key),
			attribute.Int64("size_bytes", size),
		),
	)
	defer span.End()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func (s *R2Store) Remove(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "r2.delete_object",
		trace.WithAttributes(attribute.String("object_key", key)),
	)
	defer span.End()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PresignGet creates a presigned URL for downloading an object.
func (s *R2Store) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// BucketExists returns false, nil when the bucket is missing and an error for
// anything else (auth, network).
func (s *R2Store) BucketExists(ctx context.Context) (bool, error) {
	ctx, span := tracer.Start(ctx, "r2.head_bucket")
	defer span.End()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var nf *s3types.NotFound
		var nsb *s3types.NoSuchBucket
		if errors.As(err, &nf) || errors.As(err, &nsb) {
			return false, nil
		}
		span.RecordError(err)
		return false, err
	}
	return true, nil
}
