package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/adzkyyy/adCTF/internal/audit"
	"github.com/adzkyyy/adCTF/internal/logger"
)

// Ensure Polling implements Scheduler interface.
var _ Scheduler = (*Polling)(nil)

// Polling is the fallback strategy: a single loop that paces itself with
// sleeps and anchors the next firing to the recorded time of the last tick
// rather than to its own iteration time. It trades the interval strategy's
// strict non-overlap for a settle delay, and observes external state
// changes within the poll interval. The loop runs for the lifetime of the
// scheduler and never exits on error.
type Polling struct {
	store Store
	body  Body

	pollInterval time.Duration
	settleDelay  time.Duration
	errorBackoff time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup

	inFlight atomic.Bool
}

func NewPolling(store Store, body Body) *Polling {
	return &Polling{
		store:        store,
		body:         body,
		pollInterval: 5 * time.Second,
		settleDelay:  time.Second,
		errorBackoff: 10 * time.Second,
	}
}

func (p *Polling) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Polling.Start")
	defer span.End()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "already running")
		return nil
	}

	settings, err := p.store.Settings(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load challenge settings")
		return err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.running = true

	// Same bootstrap as the interval strategy: tick 1 fires immediately so
	// the loop has an anchor to pace itself from.
	span.AddEvent("executing bootstrap tick")
	p.fire(ctx)

	p.wg.Add(1)
	go p.loop(runCtx)

	audit.LogChallengeStarted(int(settings.TickDuration / time.Second))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "started polling loop")
	return nil
}

// Stop cancels the polling loop and waits for it to exit, so a completed
// Stop means no loop iteration is still in progress.
func (p *Polling) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.running = false
	logger.Logger.Info("tick polling stopped")
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Polling) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Polling) loop(ctx context.Context) {
	defer p.wg.Done()

	logger.Logger.Info("tick polling loop started")

	for {
		if ctx.Err() != nil {
			return
		}

		if err := p.step(ctx); err != nil {
			// Back off instead of crashing; the loop is expected to run
			// for the process lifetime.
			logger.Logger.Error("scheduler loop error, backing off", "error", err)
			sleepCtx(ctx, p.errorBackoff)
		}
	}
}

// step performs one pacing decision. It returns an error only for
// unexpected failures; quiet states (challenge stopped, no config, no
// ticks yet) sleep and return nil.
func (p *Polling) step(ctx context.Context) error {
	settings, err := p.store.Settings(ctx)
	if err != nil {
		if errors.Is(err, ErrConfigMissing) {
			sleepCtx(ctx, p.pollInterval)
			return nil
		}
		return err
	}

	if !settings.Started {
		sleepCtx(ctx, p.pollInterval)
		return nil
	}

	lastTick, err := p.store.LastTickTime(ctx)
	if err != nil {
		if errors.Is(err, ErrNoTicks) {
			// Waiting for a manual start to record the first tick.
			sleepCtx(ctx, p.pollInterval)
			return nil
		}
		return err
	}

	nextFire := lastTick.Add(settings.TickDuration)
	now := time.Now()
	if now.Before(nextFire) {
		// Bounded so an external stop is observed within the poll interval.
		sleepCtx(ctx, min(nextFire.Sub(now), p.pollInterval))
		return nil
	}

	if err := p.execute(ctx); err != nil {
		return err
	}

	// Short settle delay to avoid double-firing on clock skew.
	sleepCtx(ctx, p.settleDelay)
	return nil
}

func (p *Polling) execute(ctx context.Context) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		logger.Logger.Warn("previous tick still running, dropping firing")
		return nil
	}
	defer p.inFlight.Store(false)

	result, err := p.body.Execute(context.WithoutCancel(ctx))
	if err != nil {
		audit.LogTickFailed(err.Error())
		return err
	}

	logger.Logger.Info("executed tick",
		"tick_id", result.TickID,
		"round", result.Round,
		"checks", result.Checks,
		"checks_up", result.ChecksUp,
	)
	audit.LogTickExecuted(result)
	return nil
}

func (p *Polling) fire(ctx context.Context) {
	if err := p.execute(ctx); err != nil {
		logger.Logger.Error("tick execution failed", "error", err)
	}
}
