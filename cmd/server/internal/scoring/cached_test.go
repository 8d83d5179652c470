package scoring_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adzkyyy/adCTF/cmd/server/internal/scoring"
	mockscoring "github.com/adzkyyy/adCTF/cmd/server/internal/scoring/mock"
	"github.com/adzkyyy/adCTF/internal/cache"
	mockcache "github.com/adzkyyy/adCTF/internal/cache/mock"
	"github.com/adzkyyy/adCTF/internal/types"
)

const cacheWindow = 60 * time.Second

func cachedEntry(t *testing.T, generatedAt time.Time, scores []types.UserScore) []byte {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"generated_at": generatedAt,
		"scores":       scores,
	})
	require.NoError(t, err, "failed to build cache entry")
	return raw
}

func TestCachedCompute(t *testing.T) {
	t.Run("FreshEntryServedFromCache", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		engine := mockscoring.NewMockComputer(ctrl)
		c := mockcache.NewMockCache(ctrl)

		want := []types.UserScore{{Username: "alice", TotalPoints: 2.25}}
		c.EXPECT().Ping(gomock.Any()).Return(nil).Times(1)
		c.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(cachedEntry(t, time.Now(), want), nil).
			Times(1)

		got, err := scoring.NewCached(engine, c, cacheWindow).Compute(ctx)

		require.NoError(t, err, "failed to compute scoreboard")
		assert.Equal(t, want, got, "cached scores should be returned untouched")
	})

	t.Run("StaleEntryRecomputes", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		engine := mockscoring.NewMockComputer(ctrl)
		c := mockcache.NewMockCache(ctrl)

		stale := []types.UserScore{{Username: "stale"}}
		fresh := []types.UserScore{{Username: "fresh", TotalPoints: 1}}

		c.EXPECT().Ping(gomock.Any()).Return(nil).Times(1)
		// Backend entry still present only because of the TTL buffer.
		c.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(cachedEntry(t, time.Now().Add(-2*cacheWindow), stale), nil).
			Times(1)
		engine.EXPECT().Compute(gomock.Any()).Return(fresh, nil).Times(1)
		c.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), cacheWindow+10*time.Second).
			Return(nil).
			Times(1)

		got, err := scoring.NewCached(engine, c, cacheWindow).Compute(ctx)

		require.NoError(t, err, "failed to compute scoreboard")
		assert.Equal(t, fresh, got, "stale entries must be recomputed")
	})

	t.Run("MissRecomputesAndFills", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		engine := mockscoring.NewMockComputer(ctrl)
		c := mockcache.NewMockCache(ctrl)

		fresh := []types.UserScore{{Username: "alice"}}

		c.EXPECT().Ping(gomock.Any()).Return(nil).Times(1)
		c.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, cache.ErrMiss).Times(1)
		engine.EXPECT().Compute(gomock.Any()).Return(fresh, nil).Times(1)

		var stored []byte
		c.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, raw []byte, _ time.Duration) error {
				stored = raw
				return nil
			}).
			Times(1)

		got, err := scoring.NewCached(engine, c, cacheWindow).Compute(ctx)

		require.NoError(t, err, "failed to compute scoreboard")
		assert.Equal(t, fresh, got)

		var env struct {
			GeneratedAt time.Time         `json:"generated_at"`
			Scores      []types.UserScore `json:"scores"`
		}
		require.NoError(t, json.Unmarshal(stored, &env), "stored entry should decode")
		assert.WithinDuration(t, time.Now(), env.GeneratedAt, 5*time.Second,
			"stored entry should carry its generation time")
		assert.Equal(t, fresh, env.Scores, "stored entry should carry the scores")
	})

	t.Run("CacheUnreachableComputesDirectly", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		engine := mockscoring.NewMockComputer(ctrl)
		c := mockcache.NewMockCache(ctrl)

		fresh := []types.UserScore{{Username: "alice"}}

		c.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused")).Times(1)
		engine.EXPECT().Compute(gomock.Any()).Return(fresh, nil).Times(1)
		// The fill attempt is still made; its failure is swallowed.
		c.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection refused")).
			Times(1)

		got, err := scoring.NewCached(engine, c, cacheWindow).Compute(ctx)

		require.NoError(t, err, "cache failures must never surface to the caller")
		assert.Equal(t, fresh, got)
	})

	t.Run("EngineErrorPropagates", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		engine := mockscoring.NewMockComputer(ctrl)
		c := mockcache.NewMockCache(ctrl)

		expected := errors.New("database gone")

		c.EXPECT().Ping(gomock.Any()).Return(nil).Times(1)
		c.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, cache.ErrMiss).Times(1)
		engine.EXPECT().Compute(gomock.Any()).Return(nil, expected).Times(1)

		_, err := scoring.NewCached(engine, c, cacheWindow).Compute(ctx)

		require.ErrorIs(t, err, expected, "engine errors must propagate")
	})
}

func TestCachedInvalidate(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	engine := mockscoring.NewMockComputer(ctrl)
	c := mockcache.NewMockCache(ctrl)

	c.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	err := scoring.NewCached(engine, c, cacheWindow).Invalidate(ctx)
	require.NoError(t, err, "failed to invalidate")
}

func TestCachedStatus(t *testing.T) {
	t.Run("Unreachable", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		engine := mockscoring.NewMockComputer(ctrl)
		c := mockcache.NewMockCache(ctrl)

		c.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused")).Times(1)

		status := scoring.NewCached(engine, c, cacheWindow).Status(ctx)

		assert.False(t, status.Connected, "unreachable cache is not connected")
		assert.False(t, status.Cached)
		assert.False(t, status.Fresh)
	})

	t.Run("FreshEntry", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		engine := mockscoring.NewMockComputer(ctrl)
		c := mockcache.NewMockCache(ctrl)

		generatedAt := time.Now().Add(-time.Second)
		c.EXPECT().Ping(gomock.Any()).Return(nil).Times(1)
		c.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(cachedEntry(t, generatedAt, nil), nil).
			Times(1)

		status := scoring.NewCached(engine, c, cacheWindow).Status(ctx)

		assert.True(t, status.Connected)
		assert.True(t, status.Cached)
		assert.True(t, status.Fresh, "a second-old entry is inside the window")
		require.NotNil(t, status.GeneratedAt)
		assert.WithinDuration(t, generatedAt, *status.GeneratedAt, time.Second)
	})

	t.Run("StaleEntry", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		engine := mockscoring.NewMockComputer(ctrl)
		c := mockcache.NewMockCache(ctrl)

		c.EXPECT().Ping(gomock.Any()).Return(nil).Times(1)
		c.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(cachedEntry(t, time.Now().Add(-2*cacheWindow), nil), nil).
			Times(1)

		status := scoring.NewCached(engine, c, cacheWindow).Status(ctx)

		assert.True(t, status.Connected)
		assert.True(t, status.Cached)
		assert.False(t, status.Fresh, "an entry past the window reports stale")
	})
}
