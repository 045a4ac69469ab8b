package accessGuard

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	ErrNotOwner       = errors.New("access guard: caller is not the owner")
	ErrInvalidAddress = errors.New("access guard: new owner is the zero address")
)

// AccessGuard answers whether a caller holds the privileged owner capability.
type AccessGuard interface {
	IsOwner(caller common.Address) bool
	Owner() common.Address
}

// OwnerGuard is a single-owner AccessGuard.
type OwnerGuard struct {
	owner  common.Address
	logger *zap.Logger
	mu     sync.RWMutex
}

func NewOwnerGuard(owner common.Address, l *zap.Logger) *OwnerGuard {
	return &OwnerGuard{
		owner:  owner,
		logger: l,
	}
}

func (g *OwnerGuard) IsOwner(caller common.Address) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.owner != (common.Address{}) && caller == g.owner
}

func (g *OwnerGuard) Owner() common.Address {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.owner
}

func (g *OwnerGuard) TransferOwnership(caller, newOwner common.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if caller != g.owner {
		return ErrNotOwner
	}
	if newOwner == (common.Address{}) {
		return ErrInvalidAddress
	}
	g.logger.Sugar().Infow("Transferring ownership",
		zap.String("previousOwner", g.owner.String()),
		zap.String("newOwner", newOwner.String()),
	)
	g.owner = newOwner
	return nil
}
