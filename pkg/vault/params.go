package vault

import (
	"errors"
	"strings"

	"github.com/Layr-Labs/stake-vault/pkg/rewardEngine"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const secondsPerDay uint64 = 24 * 60 * 60

type Params struct {
	Token common.Address

	// VaultAddress is the account that takes custody of deposits. When empty it is
	// derived from the owner the same way a first contract deployment would be.
	VaultAddress common.Address

	Rate rewardEngine.Rate

	// LockupDuration is how long after the staking start withdrawals stay locked, in seconds.
	LockupDuration uint64

	// StakingDuration caps reward accrual at StakingStartedAt+StakingDuration; 0 accrues indefinitely.
	StakingDuration uint64
}

// ParamsFromDays builds Params from a whole-percent annual rate and durations in days.
func ParamsFromDays(token common.Address, ratePercent uint64, lockupDays uint64, stakingDays uint64) *Params {
	return &Params{
		Token:           token,
		Rate:            rewardEngine.PercentRate(ratePercent),
		LockupDuration:  lockupDays * secondsPerDay,
		StakingDuration: stakingDays * secondsPerDay,
	}
}

func (p *Params) Validate() error {
	if p.Token == (common.Address{}) {
		return errors.New("vault: token address is required")
	}
	return p.Rate.Validate()
}

// DeriveVaultAddress returns the address a contract deployed by owner at nonce 0 would receive.
func DeriveVaultAddress(owner common.Address) common.Address {
	return crypto.CreateAddress(owner, 0)
}

func (p *Params) toVaultState(owner common.Address) *storage.VaultState {
	return &storage.VaultState{
		TokenAddress:    addressKey(p.Token),
		OwnerAddress:    addressKey(owner),
		VaultAddress:    addressKey(p.VaultAddress),
		RateNumerator:   p.Rate.Numerator,
		RateDenominator: p.Rate.Denominator,
		LockupDuration:  p.LockupDuration,
		StakingDuration: p.StakingDuration,
	}
}

// matches reports whether a persisted vault was created with the same economics.
func (p *Params) matches(state *storage.VaultState) bool {
	return state.TokenAddress == addressKey(p.Token) &&
		state.VaultAddress == addressKey(p.VaultAddress) &&
		state.RateNumerator == p.Rate.Numerator &&
		state.RateDenominator == p.Rate.Denominator &&
		state.LockupDuration == p.LockupDuration &&
		state.StakingDuration == p.StakingDuration
}

func addressKey(a common.Address) string {
	return strings.ToLower(a.Hex())
}
