package ledger

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("ledger: transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")
	ErrNegativeAmount        = errors.New("ledger: amount must not be negative")
	ErrOverflow              = errors.New("ledger: amount overflows uint256")
	ErrZeroAddress           = errors.New("ledger: zero address")
)

// Ledger is the fungible token the vault takes custody of.
type Ledger interface {
	Address() common.Address
	BalanceOf(account common.Address) (*big.Int, error)
	Allowance(owner, spender common.Address) (*big.Int, error)
	Approve(owner, spender common.Address, amount *big.Int) error
	Transfer(from, to common.Address, amount *big.Int) error
	// TransferFrom moves tokens on behalf of from, consuming spender's allowance.
	TransferFrom(spender, from, to common.Address, amount *big.Int) error
}
