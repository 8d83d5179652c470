package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adzkyyy/adCTF/internal/audit"
	"github.com/adzkyyy/adCTF/internal/logger"
)

// Ensure Interval implements Scheduler interface.
var _ Scheduler = (*Interval)(nil)

const defaultMisfireGrace = 5 * time.Second

// Interval is the precise timer strategy. Firing times are anchored to the
// instant scheduling started (epoch + n*period), so per-iteration jitter
// does not accumulate into drift. A slot that cannot run within the misfire
// grace of its scheduled time is treated as missed; all missed slots are
// coalesced into a single catch-up firing.
type Interval struct {
	store Store
	body  Body

	grace time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup

	// at-most-one body execution, shared with the bootstrap firing
	inFlight atomic.Bool
}

func NewInterval(store Store, body Body) *Interval {
	return &Interval{
		store: store,
		body:  body,
		grace: defaultMisfireGrace,
	}
}

func NewIntervalGrace(store Store, body Body, grace time.Duration) *Interval {
	s := NewInterval(store, body)
	s.grace = grace
	return s
}

func (s *Interval) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Interval.Start")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "already scheduled")
		return nil
	}

	settings, err := s.store.Settings(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load challenge settings")
		return err
	}

	span.SetAttributes(
		attribute.Int64("tick_duration_ms", settings.TickDuration.Milliseconds()),
	)

	// The loop must outlive the request that started it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.running = true

	// First tick bootstrap: fire synchronously so the competition does not
	// wait a full interval before tick 1.
	span.AddEvent("executing bootstrap tick")
	s.fire(ctx)

	s.wg.Add(1)
	go s.run(runCtx, settings.TickDuration)

	audit.LogChallengeStarted(int(settings.TickDuration / time.Second))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "scheduled recurring ticks")
	return nil
}

// Stop cancels the timer loop and waits for it to exit, so a completed Stop
// means no loop iteration is still in progress.
func (s *Interval) Stop() {
	s.mu.Lock()
	s.deschedule()
	s.mu.Unlock()

	s.wg.Wait()
}

// deschedule cancels the timer loop. Callers must hold mu.
func (s *Interval) deschedule() {
	if !s.running {
		return
	}
	s.cancel()
	s.running = false
	logger.Logger.Info("tick scheduling stopped")
}

func (s *Interval) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Interval) run(ctx context.Context, period time.Duration) {
	defer s.wg.Done()

	epoch := time.Now()
	slot := int64(1)

	timer := time.NewTimer(period)
	defer timer.Stop()

	for {
		var woke time.Time
		select {
		case <-ctx.Done():
			return
		case woke = <-timer.C:
		}

		due := epoch.Add(time.Duration(slot) * period)
		if late := woke.Sub(due); late > s.grace {
			// Missed one or more slots (suspension, delayed wakeup).
			// Coalesce them: realign to the latest elapsed slot and fire
			// exactly once as catch-up.
			missed := int64(late / period)
			slot += missed
			logger.Logger.Warn("coalescing missed tick firings",
				"missed", missed+1, "late", late.String())
		}

		// Re-check the config row before every firing so an external stop
		// silently halts future ticks without racing the in-flight one.
		settings, err := s.store.Settings(ctx)
		if err != nil {
			logger.Logger.Error("failed to read challenge settings, keeping schedule", "error", err)
		} else if !settings.Started {
			logger.Logger.Info("challenge stopped, removing scheduled ticks")
			s.mu.Lock()
			s.deschedule()
			s.mu.Unlock()
			return
		} else {
			s.fire(ctx)
		}

		slot++
		timer.Reset(time.Until(epoch.Add(time.Duration(slot) * period)))
	}
}

// fire invokes the body once, guarded so overlapping firings are dropped
// rather than queued. Body failures are logged and never cancel the
// schedule.
func (s *Interval) fire(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Interval.fire", trace.WithNewRoot())
	defer span.End()

	if !s.inFlight.CompareAndSwap(false, true) {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "dropped overlapping firing")
		logger.Logger.Warn("previous tick still running, dropping firing")
		return
	}
	defer s.inFlight.Store(false)

	// Stopping the schedule must not interrupt a body that already started.
	result, err := s.body.Execute(context.WithoutCancel(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tick body failed")
		logger.Logger.Error("tick execution failed", "error", err)
		audit.LogTickFailed(err.Error())
		return
	}

	span.SetAttributes(attribute.Int64("tick.id", result.TickID))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "executed tick")
	logger.Logger.Info("executed tick",
		"tick_id", result.TickID,
		"round", result.Round,
		"checks", result.Checks,
		"checks_up", result.ChecksUp,
	)
	audit.LogTickExecuted(result)
}
