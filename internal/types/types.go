package types

import "strings"

// TicksPerRound is the number of clock ticks that make up one scoring round.
const TicksPerRound = 5

// RoundForTick derives the round number a tick belongs to. Rounds are not
// persisted; they are always computed from the tick id. With no ticks the
// competition is considered to be in round 1.
func RoundForTick(tickID int64) int64 {
	if tickID <= 0 {
		return 1
	}
	return (tickID + TicksPerRound - 1) / TicksPerRound
}

type CheckStatus string

const (
	CheckStatusUp   CheckStatus = "up"
	CheckStatusDown CheckStatus = "down"
)

// SLA renders the status the way the scoreboard reports it.
func (s CheckStatus) SLA() string {
	return strings.ToUpper(string(s))
}

// TickResult summarizes a single firing of the tick body.
type TickResult struct {
	TickID   int64 `json:"tick_id"`
	Round    int64 `json:"round"`
	Checks   int   `json:"checks"`
	ChecksUp int   `json:"checks_up"`
}

type FlagCount struct {
	Captured int64 `json:"captured"`
	Stolen   int64 `json:"stolen"`
}

// UserScore is one scoreboard row. Map keys are challenge names.
type UserScore struct {
	Username      string               `json:"username"`
	TotalPoints   float64              `json:"total_points"`
	AttackPoints  int64                `json:"attack_points"`
	DefensePoints int64                `json:"defense_points"`
	Attacks       map[string]int64     `json:"attacks"`
	Defenses      map[string]int64     `json:"defenses"`
	Flags         map[string]FlagCount `json:"flags"`
	SLA           map[string]string    `json:"sla"`
	PassedChecks  int64                `json:"passed_checks"`
	TotalChecks   int64                `json:"total_checks"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type UnixMilli int64
