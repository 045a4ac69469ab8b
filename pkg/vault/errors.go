package vault

import (
	"errors"

	"github.com/Layr-Labs/stake-vault/pkg/stakeRegistry"
)

var (
	ErrInvalidAmount  = stakeRegistry.ErrInvalidAmount
	ErrNotOwner       = errors.New("vault: caller is not the owner")
	ErrAlreadyStarted = errors.New("vault: staking has already started")
	ErrStillLocked    = errors.New("vault: stake is still locked")
	ErrTransferFailed = errors.New("vault: token transfer failed")
	ErrNothingStaked  = errors.New("vault: account has nothing staked")
	ErrInvalidAccount = errors.New("vault: account is the zero address")
	ErrParamsMismatch = errors.New("vault: parameters do not match the persisted vault")

	// ErrInsufficientReserve is returned wrapped in ErrTransferFailed.
	ErrInsufficientReserve = errors.New("vault: reward reserve cannot cover the reward")
)
