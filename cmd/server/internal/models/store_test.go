package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adzkyyy/adCTF/cmd/server/internal/models"
	"github.com/adzkyyy/adCTF/cmd/server/internal/scheduler"
)

// newTestDB opens a private in-memory database holding only the clock
// tables. The pool is pinned to one connection so every query sees the
// same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "failed to acquire underlying database connection")
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Config{}, &models.Tick{}),
		"failed to migrate clock tables")
	return db
}

func TestStoreEnsureConfig(t *testing.T) {
	t.Run("CreatesSingletonRow", func(t *testing.T) {
		ctx := context.Background()
		store := models.NewStore(newTestDB(t))

		require.NoError(t, store.EnsureConfig(ctx, 60), "failed to seed config row")

		settings, err := store.Settings(ctx)
		require.NoError(t, err, "failed to read seeded settings")
		assert.False(t, settings.Started, "a fresh config row must not mark the challenge started")
		assert.Equal(t, time.Minute, settings.TickDuration, "wrong seeded tick duration")
	})

	t.Run("SecondCallIsNoop", func(t *testing.T) {
		ctx := context.Background()
		db := newTestDB(t)
		store := models.NewStore(db)

		require.NoError(t, store.EnsureConfig(ctx, 60), "failed to seed config row")
		require.NoError(t, store.SetChallengeStarted(ctx, true), "failed to start challenge")

		// A restart calls EnsureConfig again, possibly with a different
		// default. The existing row must survive untouched.
		require.NoError(t, store.EnsureConfig(ctx, 30), "repeat bootstrap should be a no-op")

		settings, err := store.Settings(ctx)
		require.NoError(t, err, "failed to read settings")
		assert.Equal(t, time.Minute, settings.TickDuration,
			"repeat bootstrap must not overwrite the configured tick duration")
		assert.True(t, settings.Started,
			"repeat bootstrap must not reset the started flag")

		var count int64
		require.NoError(t, db.Model(&models.Config{}).Count(&count).Error)
		assert.EqualValues(t, 1, count, "config row must stay a singleton")
	})
}

func TestStoreSetChallengeStarted(t *testing.T) {
	t.Run("NoConfigRow", func(t *testing.T) {
		ctx := context.Background()
		store := models.NewStore(newTestDB(t))

		err := store.SetChallengeStarted(ctx, true)
		require.ErrorIs(t, err, scheduler.ErrConfigMissing,
			"starting without a config row must fail with the missing-config error")
	})

	t.Run("FlipsFlag", func(t *testing.T) {
		ctx := context.Background()
		store := models.NewStore(newTestDB(t))

		require.NoError(t, store.EnsureConfig(ctx, 60), "failed to seed config row")
		require.NoError(t, store.SetChallengeStarted(ctx, true), "failed to start challenge")

		settings, err := store.Settings(ctx)
		require.NoError(t, err, "failed to read settings")
		assert.True(t, settings.Started, "started flag should be set")
	})
}

func TestStoreLastTickTime(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := models.NewStore(db)

	_, err := store.LastTickTime(ctx)
	require.ErrorIs(t, err, scheduler.ErrNoTicks, "expected the no-ticks sentinel before tick 1")

	earlier := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	latest := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.Create(&models.Tick{CreatedAt: earlier}).Error)
	require.NoError(t, db.Create(&models.Tick{CreatedAt: latest}).Error)

	at, err := store.LastTickTime(ctx)
	require.NoError(t, err, "failed to read last tick time")
	assert.True(t, at.Equal(latest), "highest tick id must win, not insertion luck")
}
