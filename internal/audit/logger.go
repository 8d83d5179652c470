package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adzkyyy/adCTF/internal/logger"
	"github.com/adzkyyy/adCTF/internal/types"
)

func stamp(m *Message, evt EventType, disp Disposition) {
	m.LogContext = logContext
	m.SchemaVersion = schemaVersion
	m.Type = evt
	m.Disposition = disp
	m.Timestamp = types.UnixMilli(time.Now().UTC().UnixMilli())
}

func emit(event any, evtType EventType) {
	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error("could not serialize audit event", "event_type", evtType)
		return
	}

	fmt.Println(string(evtStr))
}

func LogChallengeStarted(tickDurationSeconds int) {
	event := ChallengeLifecycle{}
	stamp(&event.Message, EvtChallengeStarted, DispositionNeutral)
	event.Event.TickDurationSeconds = tickDurationSeconds
	emit(event, EvtChallengeStarted)
}

func LogChallengeStopped() {
	event := ChallengeLifecycle{}
	stamp(&event.Message, EvtChallengeStopped, DispositionNeutral)
	emit(event, EvtChallengeStopped)
}

func LogTickExecuted(result *types.TickResult) {
	event := TickExecuted{}
	stamp(&event.Message, EvtTickExecuted, DispositionGood)
	event.Event.TickID = result.TickID
	event.Event.Round = result.Round
	event.Event.Checks = result.Checks
	event.Event.ChecksUp = result.ChecksUp
	emit(event, EvtTickExecuted)
}

func LogTickFailed(reason string) {
	event := TickFailed{}
	stamp(&event.Message, EvtTickFailed, DispositionBad)
	event.Event.Reason = reason
	emit(event, EvtTickFailed)
}

func LogScoreboardComputed(source string, rows int) {
	event := ScoreboardComputed{}
	stamp(&event.Message, EvtScoreboardComputed, DispositionNeutral)
	event.Event.Source = source
	event.Event.Rows = rows
	emit(event, EvtScoreboardComputed)
}
