package cmd

import (
	"context"
	"testing"

	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/Layr-Labs/stake-vault/pkg/eventBus"
	"github.com/Layr-Labs/stake-vault/pkg/eventBus/eventBusTypes"
	"github.com/Layr-Labs/stake-vault/pkg/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_VaultEventLogger(t *testing.T) {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	t.Run("Should receive events published right after subscribing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		eb := eventBus.NewEventBus(l)
		consumer := subscribeVaultEventLogger(ctx, eb)
		assert.Equal(t, 1, eb.ConsumerCount())

		eb.Publish(&eventBusTypes.Event{Name: vault.EventStartStaking, Data: &vault.StartStakingEvent{StartedAt: 1}})

		require.Len(t, consumer.Channel, 1)
		ev := <-consumer.Channel
		assert.Equal(t, vault.EventStartStaking, ev.Name)
	})
	t.Run("Should stop logging when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		eb := eventBus.NewEventBus(l)
		consumer := subscribeVaultEventLogger(ctx, eb)

		done := make(chan struct{})
		go func() {
			logVaultEvents(ctx, consumer, l)
			close(done)
		}()
		eb.Publish(&eventBusTypes.Event{Name: vault.EventDeposit, Data: &vault.DepositEvent{}})
		cancel()
		<-done
	})
}
