package scoring

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/adzkyyy/adCTF/internal/types"
)

const name = "github.com/adzkyyy/adCTF/cmd/server/internal/scoring"

var tracer = otel.Tracer(name)

// availabilityFloor keeps a checkless or fully-down player at a nonzero
// multiplier and guards the passed/total division.
const availabilityFloor = 0.1

// Player is a scoreboard participant. Admins are filtered out by the store.
type Player struct {
	ID       uuid.UUID
	Username string
}

type Challenge struct {
	ID   uuid.UUID
	Name string
}

// CheckRow is one health-check outcome, delivered in ascending tick order
// so the latest status per challenge naturally overwrites earlier ones.
type CheckRow struct {
	ChallengeID uuid.UUID
	Status      types.CheckStatus
}

//go:generate mockgen -destination ./mock/mock.go -package mock . Store,Computer

// Store is a read-only snapshot view over the scoring history. Reads never
// block tick writers; slight staleness is acceptable.
type Store interface {
	// Players returns non-admin users in creation order. That order is the
	// tie-break for equal totals.
	Players(ctx context.Context) ([]Player, error)
	Challenges(ctx context.Context) ([]Challenge, error)
	// LatestTickID returns 0 when no tick has been recorded yet.
	LatestTickID(ctx context.Context) (int64, error)
	AttackCount(ctx context.Context, attackerID, challengeID uuid.UUID) (int64, error)
	StolenCount(ctx context.Context, targetID, challengeID uuid.UUID) (int64, error)
	PlayerChecks(ctx context.Context, playerID uuid.UUID) ([]CheckRow, error)
}

// Computer produces a ranked scoreboard.
type Computer interface {
	Compute(ctx context.Context) ([]types.UserScore, error)
}

// Ensure Engine implements Computer interface.
var _ Computer = (*Engine)(nil)

// Engine recomputes the full scoreboard from the append-only submission
// and check history. The computation is deterministic: identical store
// contents always yield identical ordered output.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Compute(ctx context.Context) ([]types.UserScore, error) {
	ctx, span := tracer.Start(ctx, "Engine.Compute")
	defer span.End()

	players, err := e.store.Players(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load players")
		return nil, err
	}

	challenges, err := e.store.Challenges(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load challenges")
		return nil, err
	}

	latestTick, err := e.store.LatestTickID(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load latest tick")
		return nil, err
	}
	round := types.RoundForTick(latestTick)

	span.SetAttributes(
		attribute.Int("players", len(players)),
		attribute.Int("challenges", len(challenges)),
		attribute.Int64("round", round),
	)

	challengeNames := make(map[uuid.UUID]string, len(challenges))
	for _, challenge := range challenges {
		challengeNames[challenge.ID] = challenge.Name
	}

	scoreboard := make([]types.UserScore, 0, len(players))
	for _, player := range players {
		score, err := e.scorePlayer(ctx, player, players, challenges, challengeNames, round)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to score player")
			return nil, err
		}
		scoreboard = append(scoreboard, *score)
	}

	// Stable: players with equal totals keep encounter order.
	sort.SliceStable(scoreboard, func(i, j int) bool {
		return scoreboard[i].TotalPoints > scoreboard[j].TotalPoints
	})

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "computed scoreboard")
	return scoreboard, nil
}

func (e *Engine) scorePlayer(
	ctx context.Context,
	player Player,
	players []Player,
	challenges []Challenge,
	challengeNames map[uuid.UUID]string,
	round int64,
) (*types.UserScore, error) {
	score := &types.UserScore{
		Username: player.Username,
		Attacks:  make(map[string]int64, len(challenges)),
		Defenses: make(map[string]int64, len(challenges)),
		Flags:    make(map[string]types.FlagCount, len(challenges)),
		SLA:      make(map[string]string, len(challenges)),
	}

	for _, challenge := range challenges {
		attacks, err := e.store.AttackCount(ctx, player.ID, challenge.ID)
		if err != nil {
			return nil, err
		}

		stolen, err := e.store.StolenCount(ctx, player.ID, challenge.ID)
		if err != nil {
			return nil, err
		}

		// A defender starts each round with one potential defense point
		// against every other competitor; each steal subtracts one,
		// floored at zero.
		defense := (int64(len(players))-1)*round - stolen
		if defense < 0 {
			defense = 0
		}

		score.Attacks[challenge.Name] = attacks
		score.Defenses[challenge.Name] = defense
		score.Flags[challenge.Name] = types.FlagCount{Captured: attacks, Stolen: stolen}
		score.SLA[challenge.Name] = types.CheckStatusDown.SLA()

		score.AttackPoints += attacks
		score.DefensePoints += defense
	}

	checks, err := e.store.PlayerChecks(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	for _, check := range checks {
		challengeName, ok := challengeNames[check.ChallengeID]
		if !ok {
			// Check against a challenge that no longer exists.
			continue
		}

		score.TotalChecks++
		if check.Status == types.CheckStatusUp {
			score.PassedChecks++
		}

		score.SLA[challengeName] = check.Status.SLA()
	}

	availability := availabilityFloor
	if score.TotalChecks > 0 {
		ratio := float64(score.PassedChecks) / float64(score.TotalChecks)
		if ratio > availability {
			availability = ratio
		}
	}

	score.TotalPoints = float64(score.AttackPoints+score.DefensePoints) * availability
	return score, nil
}
