package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adzkyyy/adCTF/internal/types"
)

func TestRoundForTick(t *testing.T) {
	tests := []struct {
		name   string
		tickID int64
		round  int64
	}{
		{name: "NoTicks", tickID: 0, round: 1},
		{name: "FirstTick", tickID: 1, round: 1},
		{name: "LastTickOfRound1", tickID: 5, round: 1},
		{name: "FirstTickOfRound2", tickID: 6, round: 2},
		{name: "MidRound3", tickID: 12, round: 3},
		{name: "ExactBoundary", tickID: 10, round: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.round, types.RoundForTick(tt.tickID),
				"wrong round for tick %d", tt.tickID)
		})
	}
}

func TestCheckStatusSLA(t *testing.T) {
	assert.Equal(t, "UP", types.CheckStatusUp.SLA())
	assert.Equal(t, "DOWN", types.CheckStatusDown.SLA())
}
