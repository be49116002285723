package repositories

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("optivus-storage")

// ObjectStore is the bucket holding file binaries, addressed by object key.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	BucketExists(ctx context.Context) (bool, error)
}
