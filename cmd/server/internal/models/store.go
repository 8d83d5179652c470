package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/adzkyyy/adCTF/cmd/server/internal/scheduler"
	"github.com/adzkyyy/adCTF/cmd/server/internal/scoring"
	"github.com/adzkyyy/adCTF/cmd/server/internal/tick"
	"github.com/adzkyyy/adCTF/internal/types"
)

// Store adapts the database to the read/write contracts of the scheduler,
// the tick runner and the scoring engine.
type Store struct {
	db *gorm.DB
}

var (
	_ scheduler.Store = (*Store)(nil)
	_ tick.Store      = (*Store)(nil)
	_ scoring.Store   = (*Store)(nil)
)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// EnsureConfig creates the singleton config row when none exists yet.
func (s *Store) EnsureConfig(ctx context.Context, defaultTickSeconds int) error {
	ctx, span := tracer.Start(ctx, "Store.EnsureConfig")
	defer span.End()

	db := s.db.WithContext(ctx)

	var config Config
	err := db.First(&config).Error
	if err == nil {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "config row present")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check config row")
		return err
	}

	config = Config{
		ID:                  1,
		ChallengeStarted:    false,
		TickDurationSeconds: defaultTickSeconds,
		TicksCount:          0,
	}
	if err := db.Create(&config).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create config row")
		return err
	}

	span.AddEvent("created default config")
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "created config row")
	return nil
}

// SetChallengeStarted flips the running flag observed by the scheduler.
func (s *Store) SetChallengeStarted(ctx context.Context, started bool) error {
	ctx, span := tracer.Start(ctx, "Store.SetChallengeStarted")
	defer span.End()

	span.SetAttributes(attribute.Bool("started", started))

	result := s.db.WithContext(ctx).
		Model(&Config{}).
		Where("id = ?", 1).
		Update("challenge_started", started)
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "failed to update challenge flag")
		return result.Error
	}
	if result.RowsAffected == 0 {
		span.RecordError(scheduler.ErrConfigMissing)
		span.SetStatus(codes.Error, "no config row")
		return scheduler.ErrConfigMissing
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "updated challenge flag")
	return nil
}

// Settings implements scheduler.Store.
func (s *Store) Settings(ctx context.Context) (*scheduler.Settings, error) {
	ctx, span := tracer.Start(ctx, "Store.Settings")
	defer span.End()

	var config Config
	err := s.db.WithContext(ctx).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(scheduler.ErrConfigMissing)
			span.SetStatus(codes.Error, "no config row")
			return nil, scheduler.ErrConfigMissing
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load config row")
		return nil, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "loaded challenge settings")
	return &scheduler.Settings{
		Started:      config.ChallengeStarted,
		TickDuration: time.Duration(config.TickDurationSeconds) * time.Second,
	}, nil
}

// LastTickTime implements scheduler.Store.
func (s *Store) LastTickTime(ctx context.Context) (time.Time, error) {
	ctx, span := tracer.Start(ctx, "Store.LastTickTime")
	defer span.End()

	var lastTick Tick
	err := s.db.WithContext(ctx).Order("id DESC").First(&lastTick).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "no ticks yet")
			return time.Time{}, scheduler.ErrNoTicks
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load last tick")
		return time.Time{}, err
	}

	span.SetAttributes(attribute.Int64("tick.id", lastTick.ID))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "loaded last tick")
	return lastTick.CreatedAt, nil
}

// Targets implements tick.Store: every non-admin user crossed with every
// challenge, in creation order.
func (s *Store) Targets(ctx context.Context) ([]tick.Target, error) {
	ctx, span := tracer.Start(ctx, "Store.Targets")
	defer span.End()

	db := s.db.WithContext(ctx)

	var users []User
	if err := db.Where("is_admin = ?", false).Order("created_at ASC").Find(&users).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load users")
		return nil, err
	}

	var challenges []Challenge
	if err := db.Order("created_at ASC").Find(&challenges).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load challenges")
		return nil, err
	}

	targets := make([]tick.Target, 0, len(users)*len(challenges))
	for _, user := range users {
		for _, challenge := range challenges {
			targets = append(targets, tick.Target{
				UserID:      user.ID,
				ChallengeID: challenge.ID,
				Host:        user.HostIP,
				Port:        challenge.Port,
			})
		}
	}

	span.SetAttributes(attribute.Int("targets", len(targets)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "built check targets")
	return targets, nil
}

// AppendTick implements tick.Store. The tick row, the ticks_count bump and
// all check rows commit atomically.
func (s *Store) AppendTick(
	ctx context.Context,
	at time.Time,
	checks []tick.CheckResult,
) (int64, error) {
	ctx, span := tracer.Start(ctx, "Store.AppendTick")
	defer span.End()

	var tickID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := Tick{CreatedAt: at}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		tickID = row.ID

		result := tx.Model(&Config{}).
			Where("id = ?", 1).
			Update("ticks_count", gorm.Expr("ticks_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return scheduler.ErrConfigMissing
		}

		if len(checks) == 0 {
			return nil
		}

		rows := make([]Check, 0, len(checks))
		for _, check := range checks {
			rows = append(rows, Check{
				UserID:  check.UserID,
				ChallID: check.ChallengeID,
				TickID:  tickID,
				Status:  string(check.Status),
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to append tick")
		return 0, err
	}

	span.SetAttributes(
		attribute.Int64("tick.id", tickID),
		attribute.Int("checks", len(checks)),
	)
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "appended tick")
	return tickID, nil
}

// Players implements scoring.Store.
func (s *Store) Players(ctx context.Context) ([]scoring.Player, error) {
	ctx, span := tracer.Start(ctx, "Store.Players")
	defer span.End()

	var users []User
	err := s.db.WithContext(ctx).
		Where("is_admin = ?", false).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load players")
		return nil, err
	}

	players := make([]scoring.Player, 0, len(users))
	for _, user := range users {
		players = append(players, scoring.Player{ID: user.ID, Username: user.Username})
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "loaded players")
	return players, nil
}

// Challenges implements scoring.Store.
func (s *Store) Challenges(ctx context.Context) ([]scoring.Challenge, error) {
	ctx, span := tracer.Start(ctx, "Store.Challenges")
	defer span.End()

	var rows []Challenge
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load challenges")
		return nil, err
	}

	challenges := make([]scoring.Challenge, 0, len(rows))
	for _, row := range rows {
		challenges = append(challenges, scoring.Challenge{ID: row.ID, Name: row.Name})
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "loaded challenges")
	return challenges, nil
}

// LatestTickID implements scoring.Store. Returns 0 before the first tick.
func (s *Store) LatestTickID(ctx context.Context) (int64, error) {
	var lastTick Tick
	err := s.db.WithContext(ctx).Order("id DESC").First(&lastTick).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return lastTick.ID, nil
}

// AttackCount implements scoring.Store.
func (s *Store) AttackCount(
	ctx context.Context,
	attackerID, challengeID uuid.UUID,
) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Submission{}).
		Where("attacker_id = ? AND chall_id = ?", attackerID, challengeID).
		Count(&count).Error
	return count, err
}

// StolenCount implements scoring.Store.
func (s *Store) StolenCount(
	ctx context.Context,
	targetID, challengeID uuid.UUID,
) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Submission{}).
		Where("target_id = ? AND chall_id = ?", targetID, challengeID).
		Count(&count).Error
	return count, err
}

// PlayerChecks implements scoring.Store. Ascending tick order so the
// latest status per challenge wins.
func (s *Store) PlayerChecks(
	ctx context.Context,
	playerID uuid.UUID,
) ([]scoring.CheckRow, error) {
	ctx, span := tracer.Start(ctx, "Store.PlayerChecks")
	defer span.End()

	var rows []Check
	err := s.db.WithContext(ctx).
		Where("user_id = ?", playerID).
		Order("tick_id ASC").
		Find(&rows).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load checks")
		return nil, err
	}

	checks := make([]scoring.CheckRow, 0, len(rows))
	for _, row := range rows {
		checks = append(checks, scoring.CheckRow{
			ChallengeID: row.ChallID,
			Status:      types.CheckStatus(row.Status),
		})
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "loaded checks")
	return checks, nil
}
