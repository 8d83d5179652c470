package scoring

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/adzkyyy/adCTF/internal/audit"
	"github.com/adzkyyy/adCTF/internal/cache"
	"github.com/adzkyyy/adCTF/internal/logger"
	"github.com/adzkyyy/adCTF/internal/types"
)

const scoreboardKey = "scoreboard:latest"

// ttlBuffer keeps the backend entry alive slightly past the freshness
// window so Status can still report a stale-but-present entry.
const ttlBuffer = 10 * time.Second

// envelope carries the payload together with its generation time in a
// single cache entry, so freshness and payload can never disagree.
type envelope struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Scores      []types.UserScore `json:"scores"`
}

// Ensure Cached implements Computer interface.
var _ Computer = (*Cached)(nil)

// Cached memoizes a Computer's output. The cache is an optimization only:
// any cache failure degrades to direct computation and is never surfaced
// to the caller.
type Cached struct {
	engine Computer
	cache  cache.Cache
	window time.Duration
}

func NewCached(engine Computer, c cache.Cache, window time.Duration) *Cached {
	return &Cached{engine: engine, cache: c, window: window}
}

func (c *Cached) Compute(ctx context.Context) ([]types.UserScore, error) {
	ctx, span := tracer.Start(ctx, "Cached.Compute")
	defer span.End()

	if env := c.lookup(ctx); env != nil {
		span.AddEvent("serving cached scoreboard")
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "served from cache")
		audit.LogScoreboardComputed("cache", len(env.Scores))
		return env.Scores, nil
	}

	scores, err := c.engine.Compute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to compute scoreboard")
		return nil, err
	}

	c.fill(ctx, scores)
	audit.LogScoreboardComputed("computed", len(scores))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "computed fresh scoreboard")
	return scores, nil
}

// Invalidate drops the memoized scoreboard. A delete failure is returned
// so the operator endpoint can report it, but the next read simply
// recomputes either way.
func (c *Cached) Invalidate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Cached.Invalidate")
	defer span.End()

	if err := c.cache.Delete(ctx, scoreboardKey); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to invalidate scoreboard cache")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "invalidated scoreboard cache")
	return nil
}

// CacheStatus describes the cache for the operator status endpoint.
type CacheStatus struct {
	Connected   bool       `json:"connected"`
	Cached      bool       `json:"cached"`
	Fresh       bool       `json:"fresh"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

func (c *Cached) Status(ctx context.Context) CacheStatus {
	ctx, span := tracer.Start(ctx, "Cached.Status")
	defer span.End()

	status := CacheStatus{}

	if err := c.cache.Ping(ctx); err != nil {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "cache unreachable")
		return status
	}
	status.Connected = true

	raw, err := c.cache.Get(ctx, scoreboardKey)
	if err != nil {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "no cached scoreboard")
		return status
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "undecodable cached scoreboard")
		return status
	}

	status.Cached = true
	status.Fresh = time.Since(env.GeneratedAt) < c.window
	status.GeneratedAt = &env.GeneratedAt

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "got cache status")
	return status
}

// lookup returns the cached envelope when it exists, decodes and is still
// inside the freshness window. Every failure path means "miss".
func (c *Cached) lookup(ctx context.Context) *envelope {
	if err := c.cache.Ping(ctx); err != nil {
		logger.Logger.Warn("cache unreachable, computing scoreboard directly", "error", err)
		return nil
	}

	raw, err := c.cache.Get(ctx, scoreboardKey)
	if err != nil {
		if err != cache.ErrMiss {
			logger.Logger.Warn("cache get failed, computing scoreboard directly", "error", err)
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Logger.Warn("dropping undecodable cached scoreboard", "error", err)
		return nil
	}

	// The entry's own TTL carries a buffer, so re-check the window here.
	if time.Since(env.GeneratedAt) >= c.window {
		return nil
	}

	return &env
}

func (c *Cached) fill(ctx context.Context, scores []types.UserScore) {
	raw, err := json.Marshal(envelope{
		GeneratedAt: time.Now().UTC(),
		Scores:      scores,
	})
	if err != nil {
		logger.Logger.Warn("failed to encode scoreboard for caching", "error", err)
		return
	}

	if err := c.cache.Set(ctx, scoreboardKey, raw, c.window+ttlBuffer); err != nil {
		logger.Logger.Warn("failed to cache scoreboard", "error", err)
	}
}
