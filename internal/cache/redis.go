package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Ensure RedisCache implements Cache interface.
var _ Cache = (*RedisCache)(nil)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "RedisCache.Get", trace.WithAttributes(
		attribute.String("key", key),
	))
	defer span.End()

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "key not present")
			return nil, ErrMiss
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get key")
		return nil, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "got key")
	return val, nil
}

func (c *RedisCache) Set(
	ctx context.Context,
	key string,
	value []byte,
	ttl time.Duration,
) error {
	ctx, span := tracer.Start(ctx, "RedisCache.Set", trace.WithAttributes(
		attribute.String("key", key),
		attribute.Int64("ttl_ms", ttl.Milliseconds()),
	))
	defer span.End()

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set key")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "set key")
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "RedisCache.Delete", trace.WithAttributes(
		attribute.String("key", key),
	))
	defer span.End()

	if err := c.client.Del(ctx, key).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete key")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "deleted key")
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "RedisCache.Ping")
	defer span.End()

	if err := c.client.Ping(ctx).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "redis unreachable")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "pong")
	return nil
}
