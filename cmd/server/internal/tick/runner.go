package tick

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/adzkyyy/adCTF/internal/types"
)

const name = "github.com/adzkyyy/adCTF/cmd/server/internal/tick"

var tracer = otel.Tracer(name)

// Target is one (player, challenge) pair to health-check.
type Target struct {
	UserID      uuid.UUID
	ChallengeID uuid.UUID
	Host        string
	Port        int
}

// CheckResult is the probe outcome for one target, recorded against the
// tick being created.
type CheckResult struct {
	UserID      uuid.UUID
	ChallengeID uuid.UUID
	Status      types.CheckStatus
}

//go:generate mockgen -destination ./mock/mock.go -package mock . Store,Prober

// Store persists tick state. AppendTick must group the tick row, the
// ticks_count bump and the check rows in one transaction so scoreboard
// reads never observe a half-written tick.
type Store interface {
	Targets(ctx context.Context) ([]Target, error)
	AppendTick(ctx context.Context, at time.Time, checks []CheckResult) (int64, error)
}

// Prober decides whether a target's service is reachable.
type Prober interface {
	Probe(ctx context.Context, host string, port int) types.CheckStatus
}

// Runner is the production tick body: it probes every target and appends
// the next tick with its checks. Safe to invoke repeatedly; each call is
// one discrete tick.
type Runner struct {
	store  Store
	prober Prober
}

func NewRunner(store Store, prober Prober) *Runner {
	return &Runner{store: store, prober: prober}
}

func (r *Runner) Execute(ctx context.Context) (*types.TickResult, error) {
	ctx, span := tracer.Start(ctx, "Runner.Execute")
	defer span.End()

	targets, err := r.store.Targets(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load check targets")
		return nil, err
	}

	span.SetAttributes(attribute.Int("targets", len(targets)))

	// Probe before opening the transaction so no network wait happens
	// with the write lock held.
	checks := make([]CheckResult, 0, len(targets))
	up := 0
	for _, target := range targets {
		status := r.prober.Probe(ctx, target.Host, target.Port)
		if status == types.CheckStatusUp {
			up++
		}
		checks = append(checks, CheckResult{
			UserID:      target.UserID,
			ChallengeID: target.ChallengeID,
			Status:      status,
		})
	}

	tickID, err := r.store.AppendTick(ctx, time.Now().UTC(), checks)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to append tick")
		return nil, err
	}

	result := &types.TickResult{
		TickID:   tickID,
		Round:    types.RoundForTick(tickID),
		Checks:   len(checks),
		ChecksUp: up,
	}

	span.SetAttributes(
		attribute.Int64("tick.id", result.TickID),
		attribute.Int64("tick.round", result.Round),
		attribute.Int("tick.checks_up", up),
	)
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "executed tick")
	return result, nil
}
