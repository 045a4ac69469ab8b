package stakeRegistry

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/Layr-Labs/stake-vault/pkg/types/numbers"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount = errors.New("Amount must be greater than 0")
	ErrTotalMismatch = errors.New("stake registry: total deposited does not match the sum of principals")
)

// StakeRegistry tracks each account's principal and the vault-wide total.
//
// It operates on records loaded by the caller so a single operation can combine
// registry and reward bookkeeping before persisting once with Save.
type StakeRegistry struct {
	logger *zap.Logger
}

func NewStakeRegistry(l *zap.Logger) *StakeRegistry {
	return &StakeRegistry{
		logger: l,
	}
}

func accountKey(account common.Address) string {
	return strings.ToLower(account.Hex())
}

// LoadStake returns the account's stake, or a zeroed record that has not been
// persisted yet when the account never deposited.
func (r *StakeRegistry) LoadStake(store storage.VaultStore, account common.Address) (*storage.Stake, bool, error) {
	stake, err := store.GetStake(accountKey(account))
	if err != nil {
		return nil, false, err
	}
	if stake == nil {
		return &storage.Stake{
			Account:       accountKey(account),
			Principal:     "0",
			AccruedReward: "0",
			ClaimedTotal:  "0",
		}, false, nil
	}
	return stake, true, nil
}

// Credit adds amount to both the stake's principal and the vault total.
func (r *StakeRegistry) Credit(state *storage.VaultState, stake *storage.Stake, amount *big.Int) error {
	if !numbers.IsPositive(amount) {
		return ErrInvalidAmount
	}
	principal, err := numbers.NewBigFromString(stake.Principal)
	if err != nil {
		return err
	}
	total, err := numbers.NewBigFromString(state.TotalDeposited)
	if err != nil {
		return err
	}

	stake.Principal = principal.Add(principal, amount).String()
	state.TotalDeposited = total.Add(total, amount).String()
	return nil
}

// Clear zeroes the stake's principal, removes it from the vault total and returns it.
func (r *StakeRegistry) Clear(state *storage.VaultState, stake *storage.Stake) (*big.Int, error) {
	principal, err := numbers.NewBigFromString(stake.Principal)
	if err != nil {
		return nil, err
	}
	total, err := numbers.NewBigFromString(state.TotalDeposited)
	if err != nil {
		return nil, err
	}
	if total.Cmp(principal) < 0 {
		return nil, fmt.Errorf("%w: total %s is below principal %s of %s", ErrTotalMismatch, total, principal, stake.Account)
	}

	stake.Principal = "0"
	state.TotalDeposited = total.Sub(total, principal).String()
	return principal, nil
}

func (r *StakeRegistry) Save(store storage.VaultStore, state *storage.VaultState, stake *storage.Stake) error {
	if err := store.SaveStake(stake); err != nil {
		return err
	}
	return store.UpdateVaultState(state)
}

func (r *StakeRegistry) PrincipalOf(store storage.VaultStore, account common.Address) (*big.Int, error) {
	stake, _, err := r.LoadStake(store, account)
	if err != nil {
		return nil, err
	}
	return numbers.NewBigFromString(stake.Principal)
}

func (r *StakeRegistry) TotalDeposited(store storage.VaultStore) (*big.Int, error) {
	state, err := store.GetVaultState()
	if err != nil {
		return nil, err
	}
	return numbers.NewBigFromString(state.TotalDeposited)
}

func (r *StakeRegistry) Stakes(store storage.VaultStore) ([]*storage.Stake, error) {
	return store.ListStakes()
}

// Reconcile verifies that the stored total equals the sum of every principal.
func (r *StakeRegistry) Reconcile(store storage.VaultStore) error {
	total, err := r.TotalDeposited(store)
	if err != nil {
		return err
	}
	stakes, err := store.ListStakes()
	if err != nil {
		return err
	}

	sum := big.NewInt(0)
	for _, stake := range stakes {
		p, err := numbers.NewBigFromString(stake.Principal)
		if err != nil {
			return err
		}
		sum.Add(sum, p)
	}
	if sum.Cmp(total) != 0 {
		r.logger.Sugar().Errorw("Stake registry out of balance",
			zap.String("totalDeposited", total.String()),
			zap.String("sumOfPrincipals", sum.String()),
		)
		return fmt.Errorf("%w: total %s, sum %s", ErrTotalMismatch, total, sum)
	}
	return nil
}
