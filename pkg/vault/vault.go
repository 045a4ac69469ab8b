package vault

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Layr-Labs/stake-vault/internal/metrics"
	"github.com/Layr-Labs/stake-vault/internal/metrics/metricsTypes"
	"github.com/Layr-Labs/stake-vault/pkg/accessGuard"
	"github.com/Layr-Labs/stake-vault/pkg/clock"
	"github.com/Layr-Labs/stake-vault/pkg/eventBus/eventBusTypes"
	"github.com/Layr-Labs/stake-vault/pkg/ledger"
	"github.com/Layr-Labs/stake-vault/pkg/postgres/helpers"
	"github.com/Layr-Labs/stake-vault/pkg/rewardEngine"
	"github.com/Layr-Labs/stake-vault/pkg/stakeRegistry"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/Layr-Labs/stake-vault/pkg/types/numbers"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Vault takes custody of staked tokens and pays out time-proportional rewards once
// the owner has started staking.
//
// Every public method holds the vault lock for its whole duration, and every mutating
// method commits its bookkeeping, its notification row and its ledger transfer as one
// unit: a failure at any step leaves the vault exactly as it was.
type Vault struct {
	params  *Params
	address common.Address

	store    storage.VaultStore
	ledger   ledger.Ledger
	guard    accessGuard.AccessGuard
	clock    clock.Clock
	registry *stakeRegistry.StakeRegistry
	engine   *rewardEngine.RewardEngine

	eventBus eventBusTypes.IEventBus
	metrics  *metrics.MetricsSink
	logger   *zap.Logger

	mu sync.Mutex
}

// ledgerMove is the token movement an operation makes once its bookkeeping is staged.
type ledgerMove struct {
	transfer func() error
	// compensate reverses transfer if the database commit fails afterwards
	compensate func() error
}

type WithdrawResult struct {
	Principal *big.Int
	Reward    *big.Int
}

func (w *WithdrawResult) Total() *big.Int {
	return new(big.Int).Add(w.Principal, w.Reward)
}

type Info struct {
	Token            common.Address
	Owner            common.Address
	Address          common.Address
	Rate             rewardEngine.Rate
	LockupDuration   uint64
	StakingDuration  uint64
	StakingStarted   bool
	StakingStartedAt uint64
	UnlocksAt        uint64
	TotalDeposited   *big.Int
	TotalRewardsPaid *big.Int
	VaultBalance     *big.Int
	// RewardReserve is the custody balance not backing principal
	RewardReserve *big.Int
	Now           uint64
}

func NewVault(
	params *Params,
	store storage.VaultStore,
	ldgr ledger.Ledger,
	guard accessGuard.AccessGuard,
	clk clock.Clock,
	eb eventBusTypes.IEventBus,
	ms *metrics.MetricsSink,
	l *zap.Logger,
) (*Vault, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if ldgr.Address() != params.Token {
		return nil, fmt.Errorf("%w: ledger token %s, vault token %s", ErrParamsMismatch, ldgr.Address(), params.Token)
	}

	p := *params
	if p.VaultAddress == (common.Address{}) {
		p.VaultAddress = DeriveVaultAddress(guard.Owner())
	}

	state, err := store.InitializeVaultState(p.toVaultState(guard.Owner()))
	if err != nil {
		return nil, err
	}
	if !p.matches(state) {
		return nil, fmt.Errorf("%w: persisted vault %s uses token %s at %d/%d",
			ErrParamsMismatch, state.VaultAddress, state.TokenAddress, state.RateNumerator, state.RateDenominator)
	}

	l.Sugar().Infow("Loaded vault",
		zap.String("vault", p.VaultAddress.String()),
		zap.String("token", p.Token.String()),
		zap.String("owner", guard.Owner().String()),
		zap.Bool("stakingStarted", state.StakingStarted),
		zap.String("totalDeposited", state.TotalDeposited),
	)

	return &Vault{
		params:   &p,
		address:  p.VaultAddress,
		store:    store,
		ledger:   ldgr,
		guard:    guard,
		clock:    clk,
		registry: stakeRegistry.NewStakeRegistry(l),
		engine:   rewardEngine.NewRewardEngine(l),
		eventBus: eb,
		metrics:  ms,
		logger:   l,
	}, nil
}

// execute runs fn and its ledger move inside one database transaction, then
// publishes the resulting events once the transaction has committed.
func (v *Vault) execute(
	operation string,
	fn func(tx storage.VaultStore, now uint64) ([]VaultEvent, *ledgerMove, error),
) error {
	started := time.Now()
	now := v.clock.Now()

	var events []VaultEvent
	var move *ledgerMove
	var state *storage.VaultState

	err := v.store.Transaction(func(tx storage.VaultStore) error {
		evs, mv, err := fn(tx, now)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			if _, err := tx.InsertEvent(toRecord(ev)); err != nil {
				return err
			}
		}
		if mv != nil {
			if err := mv.transfer(); err != nil {
				return fmt.Errorf("%w: %w", ErrTransferFailed, err)
			}
		}
		if state, err = tx.GetVaultState(); err != nil {
			return err
		}
		events = evs
		move = mv
		return nil
	})
	if err != nil {
		if errors.Is(err, helpers.ErrCommitFailed) && move != nil {
			v.logger.Sugar().Errorw("Commit failed after ledger transfer, compensating",
				zap.String("operation", operation),
				zap.Error(err),
			)
			if cerr := move.compensate(); cerr != nil {
				v.logger.Sugar().Errorw("Failed to compensate ledger transfer",
					zap.String("operation", operation),
					zap.Error(cerr),
				)
			}
		}
		v.recordFailure(operation, err)
		return err
	}

	for _, ev := range events {
		if v.eventBus != nil {
			v.eventBus.Publish(toBusEvent(ev))
		}
	}
	v.recordSuccess(operation, state, time.Since(started))
	return nil
}

var operationMetrics = map[string]string{
	"deposit":      metricsTypes.Metric_Incr_Deposit,
	"startStaking": metricsTypes.Metric_Incr_StartStaking,
	"claim":        metricsTypes.Metric_Incr_RewardsClaim,
	"withdraw":     metricsTypes.Metric_Incr_Withdraw,
}

func (v *Vault) recordSuccess(operation string, state *storage.VaultState, duration time.Duration) {
	if v.metrics == nil {
		return
	}
	labels := []metricsTypes.MetricsLabel{{Name: "operation", Value: operation}}
	if name, ok := operationMetrics[operation]; ok {
		if err := v.metrics.Incr(name, nil, 1); err != nil {
			v.logger.Sugar().Warnw("Failed to record metric", zap.String("name", name), zap.Error(err))
		}
	}
	_ = v.metrics.Timing(metricsTypes.Metric_Timing_OperationDuration, duration, labels)

	if state != nil {
		total, _ := numbers.NewBigFromString(state.TotalDeposited)
		paid, _ := numbers.NewBigFromString(state.TotalRewardsPaid)
		_ = v.metrics.Gauge(metricsTypes.Metric_Gauge_TotalDeposited, numbers.BigToFloat(total, numbers.TokenDecimals), nil)
		_ = v.metrics.Gauge(metricsTypes.Metric_Gauge_TotalRewardsPaid, numbers.BigToFloat(paid, numbers.TokenDecimals), nil)
	}
}

func (v *Vault) recordFailure(operation string, err error) {
	v.logger.Sugar().Debugw("Vault operation failed",
		zap.String("operation", operation),
		zap.Error(err),
	)
	if v.metrics == nil {
		return
	}
	_ = v.metrics.Incr(metricsTypes.Metric_Incr_OperationFail, []metricsTypes.MetricsLabel{
		{Name: "operation", Value: operation},
	}, 1)
}

// requireRewardReserve checks that reward can be paid from the custody balance
// left after every deposited principal is backed.
func (v *Vault) requireRewardReserve(state *storage.VaultState, reward *big.Int) error {
	total, err := numbers.NewBigFromString(state.TotalDeposited)
	if err != nil {
		return err
	}
	balance, err := v.ledger.BalanceOf(v.address)
	if err != nil {
		return err
	}
	reserve := new(big.Int).Sub(balance, total)
	if reserve.Cmp(reward) < 0 {
		return fmt.Errorf("%w: %w: reserve %s, reward %s", ErrTransferFailed, ErrInsufficientReserve, reserve.String(), reward.String())
	}
	return nil
}

func addBig(s string, delta *big.Int) (string, error) {
	v, err := numbers.NewBigFromString(s)
	if err != nil {
		return "", err
	}
	return v.Add(v, delta).String(), nil
}

// Deposit pulls amount from account into the vault. The account must have approved
// the vault address for at least amount on the ledger.
func (v *Vault) Deposit(account common.Address, amount *big.Int) error {
	if account == (common.Address{}) {
		return ErrInvalidAccount
	}
	if !numbers.IsPositive(amount) {
		v.recordFailure("deposit", ErrInvalidAmount)
		return ErrInvalidAmount
	}
	amt := new(big.Int).Set(amount)

	v.mu.Lock()
	defer v.mu.Unlock()

	return v.execute("deposit", func(tx storage.VaultStore, now uint64) ([]VaultEvent, *ledgerMove, error) {
		state, err := tx.GetVaultState()
		if err != nil {
			return nil, nil, err
		}
		stake, _, err := v.registry.LoadStake(tx, account)
		if err != nil {
			return nil, nil, err
		}
		// bank what the old principal earned so the new principal only earns from now on
		if err := v.engine.Accrue(state, stake, now); err != nil {
			return nil, nil, err
		}
		if err := v.registry.Credit(state, stake, amt); err != nil {
			return nil, nil, err
		}
		if err := v.registry.Save(tx, state, stake); err != nil {
			return nil, nil, err
		}

		v.logger.Sugar().Infow("Deposit",
			zap.String("account", account.String()),
			zap.String("amount", amt.String()),
			zap.String("principal", stake.Principal),
			zap.String("totalDeposited", state.TotalDeposited),
		)
		return []VaultEvent{&DepositEvent{Account: account, Amount: amt, Timestamp: now}},
			&ledgerMove{
				transfer:   func() error { return v.ledger.TransferFrom(v.address, account, v.address, amt) },
				compensate: func() error { return v.refundDeposit(account, amt) },
			}, nil
	})
}

// refundDeposit returns a deposit whose bookkeeping never committed, restoring the
// allowance the pull consumed along with the tokens.
func (v *Vault) refundDeposit(account common.Address, amount *big.Int) error {
	if err := v.ledger.Transfer(v.address, account, amount); err != nil {
		return err
	}
	allowance, err := v.ledger.Allowance(account, v.address)
	if err != nil {
		return err
	}
	return v.ledger.Approve(account, v.address, new(big.Int).Add(allowance, amount))
}

// StartStaking begins reward accrual. Only the owner may call it, and only once.
func (v *Vault) StartStaking(caller common.Address) (uint64, error) {
	if !v.guard.IsOwner(caller) {
		v.recordFailure("startStaking", ErrNotOwner)
		return 0, ErrNotOwner
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	var startedAt uint64
	err := v.execute("startStaking", func(tx storage.VaultStore, now uint64) ([]VaultEvent, *ledgerMove, error) {
		state, err := tx.GetVaultState()
		if err != nil {
			return nil, nil, err
		}
		if state.StakingStarted {
			return nil, nil, ErrAlreadyStarted
		}
		state.StakingStarted = true
		state.StakingStartedAt = now
		if err := tx.UpdateVaultState(state); err != nil {
			return nil, nil, err
		}
		startedAt = now

		v.logger.Sugar().Infow("Staking started",
			zap.Uint64("startedAt", now),
			zap.String("totalDeposited", state.TotalDeposited),
		)
		return []VaultEvent{&StartStakingEvent{StartedAt: now}}, nil, nil
	})
	if err != nil {
		return 0, err
	}
	return startedAt, nil
}

// RewardOf returns the reward account could claim right now.
func (v *Vault) RewardOf(account common.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.store.GetVaultState()
	if err != nil {
		return nil, err
	}
	stake, _, err := v.registry.LoadStake(v.store, account)
	if err != nil {
		return nil, err
	}
	return v.engine.PendingReward(state, stake, v.clock.Now())
}

// ClaimRewards pays out the account's pending reward. Claiming a zero reward succeeds
// without moving tokens.
func (v *Vault) ClaimRewards(account common.Address) (*big.Int, error) {
	if account == (common.Address{}) {
		return nil, ErrInvalidAccount
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	var reward *big.Int
	err := v.execute("claim", func(tx storage.VaultStore, now uint64) ([]VaultEvent, *ledgerMove, error) {
		state, err := tx.GetVaultState()
		if err != nil {
			return nil, nil, err
		}
		stake, exists, err := v.registry.LoadStake(tx, account)
		if err != nil {
			return nil, nil, err
		}
		r, err := v.engine.Settle(state, stake, now)
		if err != nil {
			return nil, nil, err
		}

		if exists {
			if stake.ClaimedTotal, err = addBig(stake.ClaimedTotal, r); err != nil {
				return nil, nil, err
			}
			if err := tx.SaveStake(stake); err != nil {
				return nil, nil, err
			}
		}

		var move *ledgerMove
		if r.Sign() > 0 {
			if err := v.requireRewardReserve(state, r); err != nil {
				return nil, nil, err
			}
			if state.TotalRewardsPaid, err = addBig(state.TotalRewardsPaid, r); err != nil {
				return nil, nil, err
			}
			if err := tx.UpdateVaultState(state); err != nil {
				return nil, nil, err
			}
			move = &ledgerMove{
				transfer:   func() error { return v.ledger.Transfer(v.address, account, r) },
				compensate: func() error { return v.ledger.Transfer(account, v.address, r) },
			}
		}
		reward = r

		v.logger.Sugar().Infow("Rewards claimed",
			zap.String("account", account.String()),
			zap.String("reward", r.String()),
		)
		return []VaultEvent{&RewardsClaimedEvent{Account: account, Reward: r, Timestamp: now}}, move, nil
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// WithdrawAll returns the account's full principal plus its pending reward in a single
// transfer. It fails until the lockup period after the staking start has elapsed.
func (v *Vault) WithdrawAll(account common.Address) (*WithdrawResult, error) {
	if account == (common.Address{}) {
		return nil, ErrInvalidAccount
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	var result *WithdrawResult
	err := v.execute("withdraw", func(tx storage.VaultStore, now uint64) ([]VaultEvent, *ledgerMove, error) {
		state, err := tx.GetVaultState()
		if err != nil {
			return nil, nil, err
		}
		if !state.StakingStarted || now < state.StakingStartedAt+state.LockupDuration {
			return nil, nil, ErrStillLocked
		}

		stake, exists, err := v.registry.LoadStake(tx, account)
		if err != nil {
			return nil, nil, err
		}
		principal, err := numbers.NewBigFromString(stake.Principal)
		if err != nil {
			return nil, nil, err
		}
		if !exists || principal.Sign() == 0 {
			return nil, nil, ErrNothingStaked
		}

		reward, err := v.engine.Settle(state, stake, now)
		if err != nil {
			return nil, nil, err
		}
		if reward.Sign() > 0 {
			if err := v.requireRewardReserve(state, reward); err != nil {
				return nil, nil, err
			}
		}
		cleared, err := v.registry.Clear(state, stake)
		if err != nil {
			return nil, nil, err
		}
		if stake.ClaimedTotal, err = addBig(stake.ClaimedTotal, reward); err != nil {
			return nil, nil, err
		}
		if state.TotalRewardsPaid, err = addBig(state.TotalRewardsPaid, reward); err != nil {
			return nil, nil, err
		}
		if err := v.registry.Save(tx, state, stake); err != nil {
			return nil, nil, err
		}

		result = &WithdrawResult{Principal: cleared, Reward: reward}
		payout := result.Total()

		v.logger.Sugar().Infow("Withdraw",
			zap.String("account", account.String()),
			zap.String("principal", cleared.String()),
			zap.String("reward", reward.String()),
			zap.String("totalDeposited", state.TotalDeposited),
		)
		return []VaultEvent{&WithdrawEvent{Account: account, Principal: cleared, Reward: reward, Timestamp: now}},
			&ledgerMove{
				transfer:   func() error { return v.ledger.Transfer(v.address, account, payout) },
				compensate: func() error { return v.ledger.Transfer(account, v.address, payout) },
			}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type ownershipTransferer interface {
	TransferOwnership(caller, newOwner common.Address) error
}

// TransferOwnership hands the owner capability to newOwner when the guard supports it.
func (v *Vault) TransferOwnership(caller, newOwner common.Address) error {
	t, ok := v.guard.(ownershipTransferer)
	if !ok {
		return errors.New("vault: access guard does not support ownership transfer")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := t.TransferOwnership(caller, newOwner); err != nil {
		if errors.Is(err, accessGuard.ErrNotOwner) {
			return ErrNotOwner
		}
		return err
	}
	return nil
}

func (v *Vault) Token() common.Address {
	return v.params.Token
}

func (v *Vault) Owner() common.Address {
	return v.guard.Owner()
}

func (v *Vault) Address() common.Address {
	return v.address
}

func (v *Vault) Rate() rewardEngine.Rate {
	return v.params.Rate
}

func (v *Vault) LockupDuration() uint64 {
	return v.params.LockupDuration
}

func (v *Vault) StakingDuration() uint64 {
	return v.params.StakingDuration
}

func (v *Vault) AmountStaked(account common.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.PrincipalOf(v.store, account)
}

func (v *Vault) TotalDeposited() (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.TotalDeposited(v.store)
}

// StakingStartedAt returns the start timestamp and whether staking has started at all.
func (v *Vault) StakingStartedAt() (uint64, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.store.GetVaultState()
	if err != nil {
		return 0, false, err
	}
	return state.StakingStartedAt, state.StakingStarted, nil
}

func (v *Vault) Info() (*Info, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.store.GetVaultState()
	if err != nil {
		return nil, err
	}
	total, err := numbers.NewBigFromString(state.TotalDeposited)
	if err != nil {
		return nil, err
	}
	paid, err := numbers.NewBigFromString(state.TotalRewardsPaid)
	if err != nil {
		return nil, err
	}
	balance, err := v.ledger.BalanceOf(v.address)
	if err != nil {
		return nil, err
	}
	reserve := new(big.Int).Sub(balance, total)
	if reserve.Sign() < 0 {
		reserve.SetInt64(0)
	}

	info := &Info{
		Token:            v.params.Token,
		Owner:            v.guard.Owner(),
		Address:          v.address,
		Rate:             v.params.Rate,
		LockupDuration:   state.LockupDuration,
		StakingDuration:  state.StakingDuration,
		StakingStarted:   state.StakingStarted,
		StakingStartedAt: state.StakingStartedAt,
		TotalDeposited:   total,
		TotalRewardsPaid: paid,
		VaultBalance:     balance,
		RewardReserve:    reserve,
		Now:              v.clock.Now(),
	}
	if state.StakingStarted {
		info.UnlocksAt = state.StakingStartedAt + state.LockupDuration
	}
	return info, nil
}

func (v *Vault) Stakes() ([]*storage.Stake, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.Stakes(v.store)
}

func (v *Vault) Stake(account common.Address) (*storage.Stake, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	stake, _, err := v.registry.LoadStake(v.store, account)
	return stake, err
}

func (v *Vault) Events(filter *storage.EventFilter) ([]*storage.VaultEvent, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store.ListEvents(filter)
}

// Reconcile checks that the recorded total matches the sum of all principals.
func (v *Vault) Reconcile() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.Reconcile(v.store)
}
