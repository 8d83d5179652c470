package cache

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer(
	"github.com/adzkyyy/adCTF/internal/cache",
)

// ErrMiss is returned by Get when no value is stored under the key.
var ErrMiss = errors.New("cache miss")

//go:generate mockgen -destination ./mock/mock.go -package mock . Cache

// Cache is a TTL'd key-value store. Implementations must be safe for
// concurrent use. Callers treat every error as an availability problem,
// never a correctness one.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
