package rewardEngine

import (
	"math/big"
	"testing"

	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/Layr-Labs/stake-vault/pkg/types/numbers"
	"github.com/stretchr/testify/assert"
)

const (
	day       = uint64(86400)
	startedAt = uint64(1_700_000_000)
)

func setup() *RewardEngine {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	return NewRewardEngine(l)
}

func startedState(stakingDuration uint64) *storage.VaultState {
	return &storage.VaultState{
		RateNumerator:    9,
		RateDenominator:  100,
		LockupDuration:   90 * day,
		StakingDuration:  stakingDuration,
		StakingStarted:   true,
		StakingStartedAt: startedAt,
		TotalDeposited:   "0",
	}
}

func stakeOf(principal string) *storage.Stake {
	return &storage.Stake{
		Account:       "0xaa",
		Principal:     principal,
		AccruedReward: "0",
		ClaimedTotal:  "0",
	}
}

// expected computes principal * 9 * elapsed / (100 * SecondsPerYear) with big.Rat and floors it.
func expected(principal *big.Int, elapsed uint64) *big.Int {
	r := new(big.Rat).SetInt(principal)
	r.Mul(r, big.NewRat(9, 100))
	r.Mul(r, new(big.Rat).SetInt(new(big.Int).SetUint64(elapsed)))
	r.Quo(r, new(big.Rat).SetInt(new(big.Int).SetUint64(SecondsPerYear)))
	return new(big.Int).Quo(r.Num(), r.Denom())
}

func Test_Quote(t *testing.T) {
	t.Run("Should quote 100 tokens at 9% for 90 days", func(t *testing.T) {
		principal := numbers.MustParseUnits("100", 18)
		reward := Quote(principal, PercentRate(9), 90*day)

		assert.Equal(t, "2219178082191780821", reward.String())
		assert.InDelta(t, 2.19, numbers.BigToFloat(reward, 18), 0.1)
	})
	t.Run("Should quote zero for empty inputs", func(t *testing.T) {
		assert.Equal(t, int64(0), Quote(nil, PercentRate(9), day).Int64())
		assert.Equal(t, int64(0), Quote(big.NewInt(100), PercentRate(9), 0).Int64())
		assert.Equal(t, int64(0), Quote(big.NewInt(100), Rate{Numerator: 9}, day).Int64())
	})
	t.Run("Should floor fractional rewards", func(t *testing.T) {
		// 1 base unit for a year at 9% is 0.09 base units
		assert.Equal(t, int64(0), Quote(big.NewInt(1), PercentRate(9), SecondsPerYear).Int64())
		assert.Equal(t, int64(9), Quote(big.NewInt(100), PercentRate(9), SecondsPerYear).Int64())
	})
	t.Run("Should match an exact rational computation", func(t *testing.T) {
		principal := numbers.MustParseUnits("1234.56789", 18)
		for _, elapsed := range []uint64{1, 59, day, 17 * day, 365 * day} {
			assert.Equal(t, expected(principal, elapsed).String(), Quote(principal, PercentRate(9), elapsed).String())
		}
	})
	t.Run("Should reject a zero denominator", func(t *testing.T) {
		assert.ErrorIs(t, Rate{Numerator: 1}.Validate(), ErrInvalidRate)
		assert.Nil(t, PercentRate(9).Validate())
	})
}

func Test_RewardEngine(t *testing.T) {
	principal := numbers.MustParseUnits("100", 18)

	t.Run("Should return zero before staking starts", func(t *testing.T) {
		e := setup()
		state := startedState(0)
		state.StakingStarted = false
		state.StakingStartedAt = 0

		reward, err := e.PendingReward(state, stakeOf(principal.String()), startedAt+30*day)
		assert.Nil(t, err)
		assert.Equal(t, int64(0), reward.Int64())
	})
	t.Run("Should return zero when no time elapsed", func(t *testing.T) {
		e := setup()
		reward, err := e.PendingReward(startedState(0), stakeOf(principal.String()), startedAt)
		assert.Nil(t, err)
		assert.Equal(t, int64(0), reward.Int64())
	})
	t.Run("Should accrue proportionally to elapsed time", func(t *testing.T) {
		e := setup()
		reward, err := e.PendingReward(startedState(0), stakeOf(principal.String()), startedAt+90*day)
		assert.Nil(t, err)
		assert.Equal(t, expected(principal, 90*day).String(), reward.String())
	})
	t.Run("Should cap accrual at the staking duration", func(t *testing.T) {
		e := setup()
		state := startedState(90 * day)

		atEnd, err := e.PendingReward(state, stakeOf(principal.String()), startedAt+90*day)
		assert.Nil(t, err)
		later, err := e.PendingReward(state, stakeOf(principal.String()), startedAt+400*day)
		assert.Nil(t, err)
		assert.Equal(t, atEnd.String(), later.String())
	})
	t.Run("Should not double pay after settlement", func(t *testing.T) {
		e := setup()
		state := startedState(0)
		stake := stakeOf(principal.String())
		now := startedAt + 10*day

		first, err := e.Settle(state, stake, now)
		assert.Nil(t, err)
		assert.Equal(t, expected(principal, 10*day).String(), first.String())

		second, err := e.Settle(state, stake, now)
		assert.Nil(t, err)
		assert.Equal(t, int64(0), second.Int64())

		third, err := e.Settle(state, stake, now+5*day)
		assert.Nil(t, err)
		assert.Equal(t, expected(principal, 5*day).String(), third.String())
	})
	t.Run("Should bank earned rewards when accruing", func(t *testing.T) {
		e := setup()
		state := startedState(0)
		stake := stakeOf(principal.String())
		now := startedAt + 30*day

		assert.Nil(t, e.Accrue(state, stake, now))
		assert.Equal(t, expected(principal, 30*day).String(), stake.AccruedReward)
		assert.Equal(t, now, stake.RewardCheckpoint)

		// doubling the principal only affects rewards from the checkpoint onward
		stake.Principal = new(big.Int).Mul(principal, big.NewInt(2)).String()
		reward, err := e.PendingReward(state, stake, now+10*day)
		assert.Nil(t, err)

		want := new(big.Int).Add(expected(principal, 30*day), expected(new(big.Int).Mul(principal, big.NewInt(2)), 10*day))
		assert.Equal(t, want.String(), reward.String())
	})
	t.Run("Should leave records untouched when accruing before the start", func(t *testing.T) {
		e := setup()
		state := startedState(0)
		state.StakingStarted = false
		stake := stakeOf(principal.String())

		assert.Nil(t, e.Accrue(state, stake, startedAt))
		assert.Equal(t, "0", stake.AccruedReward)
		assert.Equal(t, uint64(0), stake.RewardCheckpoint)
	})
	t.Run("Should surface a corrupt rate", func(t *testing.T) {
		e := setup()
		state := startedState(0)
		state.RateDenominator = 0

		_, err := e.PendingReward(state, stakeOf(principal.String()), startedAt+day)
		assert.ErrorIs(t, err, ErrInvalidRate)
	})
}
