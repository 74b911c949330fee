package campaigns

import (
	"testing"

	"github.com/fundlift/fundlift-backend/pkg/enums"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
	"github.com/fundlift/fundlift-backend/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProgress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		raised      int64
		goal        int64
		wantRatio   float64
		wantPercent float64
	}{
		{name: "partial", raised: 285000, goal: 500000, wantRatio: 0.57, wantPercent: 57},
		{name: "zero raised", raised: 0, goal: 500000, wantRatio: 0, wantPercent: 0},
		{name: "exactly funded", raised: 500000, goal: 500000, wantRatio: 1, wantPercent: 100},
		{name: "over funded stays unclamped", raised: 750000, goal: 500000, wantRatio: 1.5, wantPercent: 150},
		{name: "one cent short", raised: 744900, goal: 750000, wantRatio: 0.9932, wantPercent: 99.32},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			progress, err := ComputeProgress(
				money.MustNew(tc.raised, enums.CurrencyUSD),
				money.MustNew(tc.goal, enums.CurrencyUSD),
			)
			require.NoError(t, err)
			assert.InDelta(t, tc.wantRatio, progress.Ratio, 1e-9)
			assert.InDelta(t, tc.wantPercent, progress.Percent, 1e-6)
		})
	}
}

func TestComputeProgressInvalidGoal(t *testing.T) {
	t.Parallel()

	_, err := ComputeProgress(money.Zero(enums.CurrencyUSD), money.Zero(enums.CurrencyUSD))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidGoal))
}

func TestComputeProgressCurrencyMismatch(t *testing.T) {
	t.Parallel()

	_, err := ComputeProgress(
		money.MustNew(100, enums.CurrencyEUR),
		money.MustNew(500000, enums.CurrencyUSD),
	)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeCurrencyMismatch))
}

func TestProgressClampedPercent(t *testing.T) {
	t.Parallel()

	progress, err := ComputeProgress(
		money.MustNew(750000, enums.CurrencyUSD),
		money.MustNew(500000, enums.CurrencyUSD),
	)
	require.NoError(t, err)
	assert.Equal(t, float64(100), progress.ClampedPercent())
	assert.True(t, progress.GoalReached())
	assert.True(t, progress.Remaining().IsZero())
}

func TestProgressRemaining(t *testing.T) {
	t.Parallel()

	progress, err := ComputeProgress(
		money.MustNew(285000, enums.CurrencyUSD),
		money.MustNew(500000, enums.CurrencyUSD),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(215000), progress.Remaining().AmountMinorUnits)
	assert.False(t, progress.GoalReached())
}
