package gormStore

import (
	"errors"
	"testing"

	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/Layr-Labs/stake-vault/internal/tests"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *zap.Logger) {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	grm, err := tests.GetInMemorySqliteDatabaseConnection(l)
	require.Nil(t, err)
	return grm, l
}

func newVaultState() *storage.VaultState {
	return &storage.VaultState{
		TokenAddress:    "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		OwnerAddress:    "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		VaultAddress:    "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		RateNumerator:   9,
		RateDenominator: 100,
		LockupDuration:  90 * 86400,
		StakingDuration: 90 * 86400,
	}
}

func Test_GormVaultStore(t *testing.T) {
	t.Run("Should report an uninitialized vault", func(t *testing.T) {
		grm, l := setup(t)
		store := NewGormVaultStore(grm, l)

		_, err := store.GetVaultState()
		assert.True(t, errors.Is(err, storage.ErrVaultNotInitialized))
	})
	t.Run("Should initialize the vault state only once", func(t *testing.T) {
		grm, l := setup(t)
		store := NewGormVaultStore(grm, l)

		state, err := store.InitializeVaultState(newVaultState())
		assert.Nil(t, err)
		assert.Equal(t, "0", state.TotalDeposited)
		assert.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3", state.TokenAddress)

		other := newVaultState()
		other.RateNumerator = 50
		existing, err := store.InitializeVaultState(other)
		assert.Nil(t, err)
		assert.Equal(t, uint64(9), existing.RateNumerator)
	})
	t.Run("Should update the vault state including zero values", func(t *testing.T) {
		grm, l := setup(t)
		store := NewGormVaultStore(grm, l)

		state, err := store.InitializeVaultState(newVaultState())
		require.Nil(t, err)

		state.StakingStarted = true
		state.StakingStartedAt = 1_700_000_000
		state.TotalDeposited = "100"
		assert.Nil(t, store.UpdateVaultState(state))

		state.TotalDeposited = "0"
		assert.Nil(t, store.UpdateVaultState(state))

		fetched, err := store.GetVaultState()
		assert.Nil(t, err)
		assert.True(t, fetched.StakingStarted)
		assert.Equal(t, uint64(1_700_000_000), fetched.StakingStartedAt)
		assert.Equal(t, "0", fetched.TotalDeposited)
	})
	t.Run("Should upsert and list stakes", func(t *testing.T) {
		grm, l := setup(t)
		store := NewGormVaultStore(grm, l)

		missing, err := store.GetStake("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
		assert.Nil(t, err)
		assert.Nil(t, missing)

		stake := &storage.Stake{
			Account:       "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
			Principal:     "100",
			AccruedReward: "0",
			ClaimedTotal:  "0",
		}
		assert.Nil(t, store.SaveStake(stake))

		stake.Principal = "250"
		stake.RewardCheckpoint = 42
		assert.Nil(t, store.SaveStake(stake))

		assert.Nil(t, store.SaveStake(&storage.Stake{
			Account:       "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
			Principal:     "7",
			AccruedReward: "0",
			ClaimedTotal:  "0",
		}))

		fetched, err := store.GetStake("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
		assert.Nil(t, err)
		assert.Equal(t, "250", fetched.Principal)
		assert.Equal(t, uint64(42), fetched.RewardCheckpoint)

		stakes, err := store.ListStakes()
		assert.Nil(t, err)
		assert.Len(t, stakes, 2)
		assert.Equal(t, "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc", stakes[0].Account)
	})
	t.Run("Should insert and filter events", func(t *testing.T) {
		grm, l := setup(t)
		store := NewGormVaultStore(grm, l)

		_, err := store.InsertEvent(&storage.VaultEvent{EventName: "Deposit", Account: "0xAA", Amount: "10", Timestamp: 1})
		assert.Nil(t, err)
		_, err = store.InsertEvent(&storage.VaultEvent{EventName: "StartStaking", Timestamp: 2})
		assert.Nil(t, err)
		_, err = store.InsertEvent(&storage.VaultEvent{EventName: "Deposit", Account: "0xBB", Amount: "5", Timestamp: 3})
		assert.Nil(t, err)

		all, err := store.ListEvents(nil)
		assert.Nil(t, err)
		assert.Len(t, all, 3)
		assert.True(t, all[0].Id < all[1].Id)

		deposits, err := store.ListEvents(&storage.EventFilter{EventName: "Deposit"})
		assert.Nil(t, err)
		assert.Len(t, deposits, 2)

		forAccount, err := store.ListEvents(&storage.EventFilter{Account: "0xaa"})
		assert.Nil(t, err)
		assert.Len(t, forAccount, 1)

		limited, err := store.ListEvents(&storage.EventFilter{Limit: 1})
		assert.Nil(t, err)
		assert.Len(t, limited, 1)
	})
	t.Run("Should roll back every write when the transaction fails", func(t *testing.T) {
		grm, l := setup(t)
		store := NewGormVaultStore(grm, l)
		_, err := store.InitializeVaultState(newVaultState())
		require.Nil(t, err)

		boom := errors.New("boom")
		err = store.Transaction(func(tx storage.VaultStore) error {
			if err := tx.SaveStake(&storage.Stake{Account: "0xAA", Principal: "10", AccruedReward: "0", ClaimedTotal: "0"}); err != nil {
				return err
			}
			if _, err := tx.InsertEvent(&storage.VaultEvent{EventName: "Deposit", Account: "0xAA", Timestamp: 1}); err != nil {
				return err
			}
			return boom
		})
		assert.True(t, errors.Is(err, boom))

		stake, err := store.GetStake("0xAA")
		assert.Nil(t, err)
		assert.Nil(t, stake)

		events, err := store.ListEvents(nil)
		assert.Nil(t, err)
		assert.Len(t, events, 0)
	})
	t.Run("Should commit writes made inside a transaction", func(t *testing.T) {
		grm, l := setup(t)
		store := NewGormVaultStore(grm, l)

		err := store.Transaction(func(tx storage.VaultStore) error {
			return tx.SaveStake(&storage.Stake{Account: "0xAA", Principal: "10", AccruedReward: "0", ClaimedTotal: "0"})
		})
		assert.Nil(t, err)

		stake, err := store.GetStake("0xAA")
		assert.Nil(t, err)
		assert.Equal(t, "10", stake.Principal)
	})
}
