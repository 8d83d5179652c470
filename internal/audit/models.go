package audit

import (
	"github.com/adzkyyy/adCTF/internal/types"
)

var schemaVersion = "0.1.0"
var logContext = "audit"

type Disposition string

const (
	DispositionNeutral Disposition = "neutral"
	DispositionGood    Disposition = "good"
	DispositionBad     Disposition = "bad"
)

type EventType string

const (
	EvtChallengeStarted   EventType = "challenge_started"
	EvtChallengeStopped   EventType = "challenge_stopped"
	EvtTickExecuted       EventType = "tick_executed"
	EvtTickFailed         EventType = "tick_failed"
	EvtScoreboardComputed EventType = "scoreboard_computed"
)

type Message struct {
	LogContext    string      `json:"log_context" validate:"required"`
	SchemaVersion string      `json:"version"     validate:"required"`
	Disposition   Disposition `json:"disposition" validate:"required"`
	Type          EventType   `json:"event_type"  validate:"required"`

	Timestamp types.UnixMilli `json:"timestamp" validate:"required"`
}

type ChallengeLifecycleEvent struct {
	TickDurationSeconds int `json:"tick_duration_seconds,omitempty"`
}

type ChallengeLifecycle struct {
	Event ChallengeLifecycleEvent `json:"event"`
	Message
}

type TickExecutedEvent struct {
	TickID   int64 `json:"tick_id"   validate:"required"`
	Round    int64 `json:"round"     validate:"required"`
	Checks   int   `json:"checks"`
	ChecksUp int   `json:"checks_up"`
}

type TickExecuted struct {
	Event TickExecutedEvent `json:"event" validate:"required"`
	Message
}

type TickFailedEvent struct {
	Reason string `json:"reason" validate:"required"`
}

type TickFailed struct {
	Event TickFailedEvent `json:"event" validate:"required"`
	Message
}

type ScoreboardComputedEvent struct {
	Source string `json:"source" validate:"required"` // "cache" or "computed"
	Rows   int    `json:"rows"`
}

type ScoreboardComputed struct {
	Event ScoreboardComputedEvent `json:"event" validate:"required"`
	Message
}
