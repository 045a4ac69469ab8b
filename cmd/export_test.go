package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/Layr-Labs/stake-vault/internal/tests"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/Layr-Labs/stake-vault/pkg/storage/gormStore"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExportTable(t *testing.T) {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	grm, err := tests.GetInMemorySqliteDatabaseConnection(l)
	require.Nil(t, err)
	store := gormStore.NewGormVaultStore(grm, l)

	require.Nil(t, store.SaveStake(&storage.Stake{Account: "0xbb", Principal: "20", AccruedReward: "0", ClaimedTotal: "0"}))
	require.Nil(t, store.SaveStake(&storage.Stake{Account: "0xaa", Principal: "10", AccruedReward: "1", RewardCheckpoint: 5, ClaimedTotal: "0"}))
	_, err = store.InsertEvent(&storage.VaultEvent{EventName: "Deposit", Account: "0xaa", Amount: "10", Reward: "0", Timestamp: 5})
	require.Nil(t, err)

	t.Run("Should export stakes ordered by account", func(t *testing.T) {
		out := &bytes.Buffer{}
		count, err := exportTable(store, "stakes", out)
		assert.Nil(t, err)
		assert.Equal(t, 2, count)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "account,principal,accrued_reward,reward_checkpoint,claimed_total", lines[0])
		assert.Equal(t, "0xaa,10,1,5,0", lines[1])

		parsed := make([]*storage.Stake, 0)
		assert.Nil(t, gocsv.UnmarshalString(out.String(), &parsed))
		assert.Equal(t, "0xbb", parsed[1].Account)
	})
	t.Run("Should export the notification log", func(t *testing.T) {
		out := &bytes.Buffer{}
		count, err := exportTable(store, "events", out)
		assert.Nil(t, err)
		assert.Equal(t, 1, count)
		assert.Contains(t, out.String(), "Deposit,0xaa,10,0,5")
	})
	t.Run("Should reject unknown tables", func(t *testing.T) {
		_, err := exportTable(store, "balances", &bytes.Buffer{})
		assert.NotNil(t, err)
	})
}

func Test_OpenLedger(t *testing.T) {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	cfg := &config.Config{
		VaultConfig: config.VaultConfig{
			TokenAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			OwnerAddress: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		},
		LedgerConfig: config.LedgerConfig{
			DataDir:       filepath.Join(t.TempDir(), "ledger"),
			Symbol:        "STK",
			Decimals:      18,
			InitialSupply: "10000",
		},
	}

	t.Run("Should mint the initial supply only once", func(t *testing.T) {
		token, err := openLedger(cfg, l)
		require.Nil(t, err)
		bal, err := token.BalanceOf(cfg.GetOwnerAddress())
		assert.Nil(t, err)
		assert.Equal(t, "10000000000000000000000", bal.String())
		require.Nil(t, token.Close())

		token, err = openLedger(cfg, l)
		require.Nil(t, err)
		defer token.Close() //nolint:errcheck
		supply, err := token.TotalSupply()
		assert.Nil(t, err)
		assert.Equal(t, "10000000000000000000000", supply.String())
	})
}
