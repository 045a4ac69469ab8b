package accessGuard

import (
	"testing"

	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func Test_OwnerGuard(t *testing.T) {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	owner := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	other := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	t.Run("Should only recognize the owner", func(t *testing.T) {
		g := NewOwnerGuard(owner, l)
		assert.True(t, g.IsOwner(owner))
		assert.False(t, g.IsOwner(other))
		assert.Equal(t, owner, g.Owner())
	})
	t.Run("Should never treat the zero address as owner", func(t *testing.T) {
		g := NewOwnerGuard(common.Address{}, l)
		assert.False(t, g.IsOwner(common.Address{}))
	})
	t.Run("Should transfer ownership when called by the owner", func(t *testing.T) {
		g := NewOwnerGuard(owner, l)

		assert.ErrorIs(t, g.TransferOwnership(other, other), ErrNotOwner)
		assert.ErrorIs(t, g.TransferOwnership(owner, common.Address{}), ErrInvalidAddress)

		assert.Nil(t, g.TransferOwnership(owner, other))
		assert.True(t, g.IsOwner(other))
		assert.False(t, g.IsOwner(owner))
	})
}
