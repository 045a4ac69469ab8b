package rewardEngine

import (
	"errors"
	"math/big"

	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/Layr-Labs/stake-vault/pkg/types/numbers"
	"go.uber.org/zap"
)

// SecondsPerYear is the fixed 365 day year rewards are prorated against.
const SecondsPerYear uint64 = 365 * 24 * 60 * 60

var ErrInvalidRate = errors.New("reward engine: rate denominator must be greater than 0")

// Rate is an annual reward rate expressed as Numerator/Denominator, e.g. 9/100 for 9%.
type Rate struct {
	Numerator   uint64
	Denominator uint64
}

func PercentRate(percent uint64) Rate {
	return Rate{Numerator: percent, Denominator: 100}
}

func (r Rate) Validate() error {
	if r.Denominator == 0 {
		return ErrInvalidRate
	}
	return nil
}

func rateFromState(state *storage.VaultState) (Rate, error) {
	r := Rate{Numerator: state.RateNumerator, Denominator: state.RateDenominator}
	return r, r.Validate()
}

// Quote returns floor(principal * rate * elapsed / SecondsPerYear).
func Quote(principal *big.Int, rate Rate, elapsed uint64) *big.Int {
	if principal == nil || principal.Sign() <= 0 || elapsed == 0 || rate.Denominator == 0 {
		return big.NewInt(0)
	}
	num := new(big.Int).Mul(principal, new(big.Int).SetUint64(rate.Numerator))
	num.Mul(num, new(big.Int).SetUint64(elapsed))

	den := new(big.Int).Mul(new(big.Int).SetUint64(rate.Denominator), new(big.Int).SetUint64(SecondsPerYear))
	return num.Quo(num, den)
}

// RewardEngine computes time-proportional rewards for stake records. It never
// touches storage; callers persist the records it mutates.
type RewardEngine struct {
	logger *zap.Logger
}

func NewRewardEngine(l *zap.Logger) *RewardEngine {
	return &RewardEngine{
		logger: l,
	}
}

// accrualWindow returns the [start, end) window in which the stake has earned
// rewards that are not yet banked. ok is false when nothing can have accrued.
func accrualWindow(state *storage.VaultState, stake *storage.Stake, now uint64) (uint64, bool) {
	if !state.StakingStarted {
		return 0, false
	}
	start := max(state.StakingStartedAt, stake.RewardCheckpoint)

	end := now
	if state.StakingDuration > 0 {
		end = min(end, state.StakingStartedAt+state.StakingDuration)
	}
	if end <= start {
		return 0, false
	}
	return end - start, true
}

func (e *RewardEngine) timeReward(state *storage.VaultState, stake *storage.Stake, now uint64) (*big.Int, error) {
	elapsed, ok := accrualWindow(state, stake, now)
	if !ok {
		return big.NewInt(0), nil
	}
	rate, err := rateFromState(state)
	if err != nil {
		return nil, err
	}
	principal, err := numbers.NewBigFromString(stake.Principal)
	if err != nil {
		return nil, err
	}
	return Quote(principal, rate, elapsed), nil
}

// PendingReward is the reward the stake could claim at now. It is zero until staking starts.
func (e *RewardEngine) PendingReward(state *storage.VaultState, stake *storage.Stake, now uint64) (*big.Int, error) {
	if !state.StakingStarted {
		return big.NewInt(0), nil
	}
	accrued, err := numbers.NewBigFromString(stake.AccruedReward)
	if err != nil {
		return nil, err
	}
	earned, err := e.timeReward(state, stake, now)
	if err != nil {
		return nil, err
	}
	return earned.Add(earned, accrued), nil
}

// Accrue banks the reward earned so far into AccruedReward and moves the checkpoint
// to now, so the principal can change without altering what was already earned.
func (e *RewardEngine) Accrue(state *storage.VaultState, stake *storage.Stake, now uint64) error {
	if !state.StakingStarted {
		return nil
	}
	earned, err := e.timeReward(state, stake, now)
	if err != nil {
		return err
	}
	accrued, err := numbers.NewBigFromString(stake.AccruedReward)
	if err != nil {
		return err
	}
	stake.AccruedReward = accrued.Add(accrued, earned).String()
	stake.RewardCheckpoint = now

	e.logger.Sugar().Debugw("Accrued reward",
		zap.String("account", stake.Account),
		zap.String("earned", earned.String()),
		zap.String("accrued", stake.AccruedReward),
		zap.Uint64("checkpoint", now),
	)
	return nil
}

// Settle returns the pending reward and resets the stake so the same reward can
// never be returned twice.
func (e *RewardEngine) Settle(state *storage.VaultState, stake *storage.Stake, now uint64) (*big.Int, error) {
	reward, err := e.PendingReward(state, stake, now)
	if err != nil {
		return nil, err
	}
	stake.AccruedReward = "0"
	stake.RewardCheckpoint = now

	e.logger.Sugar().Debugw("Settled reward",
		zap.String("account", stake.Account),
		zap.String("reward", reward.String()),
		zap.Uint64("checkpoint", now),
	)
	return reward, nil
}
