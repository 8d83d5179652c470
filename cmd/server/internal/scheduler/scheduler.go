package scheduler

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/adzkyyy/adCTF/internal/types"
)

const name = "github.com/adzkyyy/adCTF/cmd/server/internal/scheduler"

var tracer = otel.Tracer(name)

var (
	// ErrConfigMissing means no challenge config row exists. Start fails
	// cleanly with it; it never crashes the process.
	ErrConfigMissing = errors.New("challenge config missing")

	// ErrNoTicks is returned by Store.LastTickTime before the first tick.
	ErrNoTicks = errors.New("no ticks recorded")
)

// Settings is the slice of the config row the scheduler polls.
type Settings struct {
	Started      bool
	TickDuration time.Duration
}

//go:generate mockgen -destination ./mock/mock.go -package mock . Store,Body,Scheduler

// Store gives the scheduler read access to durable clock state.
type Store interface {
	Settings(ctx context.Context) (*Settings, error)
	LastTickTime(ctx context.Context) (time.Time, error)
}

// Body is one tick's worth of work. It is the unit that records the next
// tick row; the scheduler only decides when to invoke it. Implementations
// must tolerate repeated calls.
type Body interface {
	Execute(ctx context.Context) (*types.TickResult, error)
}

// BodyFunc adapts a plain function to Body.
type BodyFunc func(ctx context.Context) (*types.TickResult, error)

func (f BodyFunc) Execute(ctx context.Context) (*types.TickResult, error) {
	return f(ctx)
}

// Scheduler drives recurring tick body executions while the challenge is
// active. Both strategies give the same guarantees: at most one body
// execution in flight, and no further executions once the challenge is
// stopped or Stop is called.
type Scheduler interface {
	// Start begins scheduling and fires the bootstrap tick synchronously.
	// Returns ErrConfigMissing when no config row exists. Calling Start on
	// a scheduler that is already running is a no-op.
	Start(ctx context.Context) error
	// Stop cancels future firings and waits for the scheduling loop to
	// exit. Idempotent, never fails, and does not interrupt an execution
	// that is already running.
	Stop()
	Running() bool
}

type Strategy string

const (
	StrategyInterval Strategy = "interval"
	StrategyPolling  Strategy = "polling"
)

// New selects a scheduling strategy. The interval strategy is the default;
// the polling fallback only makes sense where precise process-local timers
// cannot be trusted (heavily suspended hosts), so it has to be asked for
// explicitly.
func New(strategy Strategy, store Store, body Body) Scheduler {
	if strategy == StrategyPolling {
		return NewPolling(store, body)
	}
	return NewInterval(store, body)
}

// sleepCtx sleeps for d or until ctx is done, reporting whether the full
// sleep elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
