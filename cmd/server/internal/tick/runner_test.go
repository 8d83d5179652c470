package tick_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adzkyyy/adCTF/cmd/server/internal/tick"
	mocktick "github.com/adzkyyy/adCTF/cmd/server/internal/tick/mock"
	"github.com/adzkyyy/adCTF/internal/types"
)

func TestRunnerExecute(t *testing.T) {
	t.Run("RecordsOneCheckPerTarget", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		store := mocktick.NewMockStore(ctrl)
		prober := mocktick.NewMockProber(ctrl)

		alice := uuid.New()
		bob := uuid.New()
		pwn := uuid.New()

		store.EXPECT().Targets(gomock.Any()).Return([]tick.Target{
			{UserID: alice, ChallengeID: pwn, Host: "10.0.0.1", Port: 31337},
			{UserID: bob, ChallengeID: pwn, Host: "10.0.0.2", Port: 31337},
		}, nil).Times(1)

		prober.EXPECT().Probe(gomock.Any(), "10.0.0.1", 31337).
			Return(types.CheckStatusUp).
			Times(1)
		prober.EXPECT().Probe(gomock.Any(), "10.0.0.2", 31337).
			Return(types.CheckStatusDown).
			Times(1)

		store.EXPECT().AppendTick(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, at time.Time, checks []tick.CheckResult) (int64, error) {
				assert.WithinDuration(t, time.Now(), at, 5*time.Second)
				require.Len(t, checks, 2, "one check per target")
				assert.Equal(t, types.CheckStatusUp, checks[0].Status)
				assert.Equal(t, alice, checks[0].UserID)
				assert.Equal(t, types.CheckStatusDown, checks[1].Status)
				assert.Equal(t, bob, checks[1].UserID)
				return 7, nil
			}).
			Times(1)

		result, err := tick.NewRunner(store, prober).Execute(ctx)

		require.NoError(t, err, "failed to execute tick")
		assert.EqualValues(t, 7, result.TickID)
		assert.EqualValues(t, 2, result.Round, "tick 7 belongs to round 2")
		assert.Equal(t, 2, result.Checks)
		assert.Equal(t, 1, result.ChecksUp)
	})

	t.Run("NoTargets", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		store := mocktick.NewMockStore(ctrl)
		prober := mocktick.NewMockProber(ctrl)

		store.EXPECT().Targets(gomock.Any()).Return(nil, nil).Times(1)
		// The tick row is still appended so pacing has an anchor.
		store.EXPECT().AppendTick(gomock.Any(), gomock.Any(), gomock.Len(0)).
			Return(int64(1), nil).
			Times(1)

		result, err := tick.NewRunner(store, prober).Execute(ctx)

		require.NoError(t, err, "a tick with no targets should still succeed")
		assert.EqualValues(t, 1, result.TickID)
		assert.Zero(t, result.Checks)
	})

	t.Run("AppendError", func(t *testing.T) {
		ctx := context.Background()

		ctrl := gomock.NewController(t)
		store := mocktick.NewMockStore(ctrl)
		prober := mocktick.NewMockProber(ctrl)

		expected := errors.New("serialization failure")

		store.EXPECT().Targets(gomock.Any()).Return([]tick.Target{
			{UserID: uuid.New(), ChallengeID: uuid.New(), Host: "10.0.0.1", Port: 31337},
		}, nil).Times(1)
		prober.EXPECT().Probe(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(types.CheckStatusUp).
			Times(1)
		store.EXPECT().AppendTick(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), expected).
			Times(1)

		_, err := tick.NewRunner(store, prober).Execute(ctx)

		require.ErrorIs(t, err, expected, "append errors must propagate")
	})
}
