package cmd

import (
	"context"
	"time"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/Layr-Labs/stake-vault/internal/metrics"
	"github.com/Layr-Labs/stake-vault/internal/metrics/prometheus"
	"github.com/Layr-Labs/stake-vault/internal/shutdown"
	"github.com/Layr-Labs/stake-vault/pkg/accessGuard"
	"github.com/Layr-Labs/stake-vault/pkg/clock"
	"github.com/Layr-Labs/stake-vault/pkg/eventBus"
	"github.com/Layr-Labs/stake-vault/pkg/eventBus/eventBusTypes"
	"github.com/Layr-Labs/stake-vault/pkg/ledger"
	"github.com/Layr-Labs/stake-vault/pkg/rewardEngine"
	"github.com/Layr-Labs/stake-vault/pkg/rpcServer"
	"github.com/Layr-Labs/stake-vault/pkg/storage/gormStore"
	"github.com/Layr-Labs/stake-vault/pkg/types/numbers"
	"github.com/Layr-Labs/stake-vault/pkg/vault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the vault and its HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		bindCommandFlags(cmd)
		cfg := config.NewConfig()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})

		if err := cfg.Validate(); err != nil {
			l.Sugar().Fatalw("Invalid configuration", zap.Error(err))
		}

		metricsClients, err := metrics.InitMetricsSinksFromConfig(cfg, l)
		if err != nil {
			l.Sugar().Fatalw("Failed to setup metrics sink", zap.Error(err))
		}
		sink, err := metrics.NewMetricsSink(&metrics.MetricsSinkConfig{}, metricsClients)
		if err != nil {
			l.Sugar().Fatalw("Failed to setup metrics sink", zap.Error(err))
		}

		_, grm, err := openDatabase(cfg, l)
		if err != nil {
			l.Sugar().Fatalw("Failed to open database", zap.Error(err))
		}
		defer closeDatabase(grm, l)

		token, err := openLedger(cfg, l)
		if err != nil {
			l.Sugar().Fatalw("Failed to open ledger", zap.Error(err))
		}
		defer token.Close() //nolint:errcheck

		eb := eventBus.NewEventBus(l)
		eventLogger := subscribeVaultEventLogger(ctx, eb)
		defer eb.Unsubscribe(eventLogger)
		go logVaultEvents(ctx, eventLogger, l)

		params := &vault.Params{
			Token:           cfg.GetTokenAddress(),
			VaultAddress:    common.HexToAddress(cfg.VaultConfig.VaultAddress),
			Rate:            rewardEngine.Rate{Numerator: cfg.VaultConfig.RateNumerator, Denominator: cfg.VaultConfig.RateDenominator},
			LockupDuration:  cfg.VaultConfig.LockupDays * 24 * 60 * 60,
			StakingDuration: cfg.VaultConfig.StakingDays * 24 * 60 * 60,
		}
		v, err := vault.NewVault(
			params,
			gormStore.NewGormVaultStore(grm, l),
			token,
			accessGuard.NewOwnerGuard(cfg.GetOwnerAddress(), l),
			clock.NewSystemClock(),
			eb,
			sink,
			l,
		)
		if err != nil {
			l.Sugar().Fatalw("Failed to load vault", zap.Error(err))
		}
		if err := v.Reconcile(); err != nil {
			l.Sugar().Fatalw("Vault bookkeeping is inconsistent", zap.Error(err))
		}

		if cfg.PrometheusConfig.Enabled {
			promChannel := make(chan bool)
			defer close(promChannel)
			pServer := prometheus.NewPrometheusServer(&prometheus.PrometheusServerConfig{
				Port: cfg.PrometheusConfig.Port,
			}, l)
			if err := pServer.Start(promChannel); err != nil {
				l.Sugar().Fatalw("Failed to start prometheus server", zap.Error(err))
			}
		}

		// RPC channel to notify the RPC server to shutdown gracefully
		rpcChannel := make(chan bool)
		rpc := rpcServer.NewRpcServer(&rpcServer.RpcServerConfig{
			HttpPort:       cfg.RpcConfig.HttpPort,
			AllowedOrigins: cfg.RpcConfig.CorsOrigins,
		}, v, token, sink, l)
		if err := rpc.Start(rpcChannel); err != nil {
			l.Sugar().Fatalw("Failed to start RPC server", zap.Error(err))
		}

		l.Sugar().Infow("Started vault",
			zap.String("vault", v.Address().String()),
			zap.String("token", v.Token().String()),
			zap.Int("httpPort", cfg.RpcConfig.HttpPort),
		)

		gracefulShutdown := shutdown.CreateGracefulShutdownChannel()

		shutdown.ListenForShutdown(ctx, gracefulShutdown, time.Second*5, l, func() {
			l.Sugar().Info("Shutting down...")
			rpcChannel <- true
			cancel()
		})
	},
}

// openLedger opens the persistent token ledger, minting the initial supply to the
// owner the first time it is opened.
func openLedger(cfg *config.Config, l *zap.Logger) (*ledger.Token, error) {
	token, err := ledger.NewLevelDBToken(cfg.LedgerConfig.DataDir, &ledger.TokenConfig{
		Address:  cfg.GetTokenAddress(),
		Symbol:   cfg.LedgerConfig.Symbol,
		Decimals: cfg.LedgerConfig.Decimals,
	}, l)
	if err != nil {
		return nil, err
	}

	supply, err := token.TotalSupply()
	if err != nil {
		_ = token.Close()
		return nil, err
	}
	initial, err := numbers.ParseUnits(cfg.LedgerConfig.InitialSupply, cfg.LedgerConfig.Decimals)
	if err != nil {
		_ = token.Close()
		return nil, err
	}
	if supply.Sign() == 0 && initial.Sign() > 0 {
		if err := token.Mint(cfg.GetOwnerAddress(), initial); err != nil {
			_ = token.Close()
			return nil, err
		}
		l.Sugar().Infow("Minted initial supply",
			zap.String("owner", cfg.GetOwnerAddress().String()),
			zap.String("amount", initial.String()),
		)
	}
	return token, nil
}

// subscribeVaultEventLogger registers the consumer that logs vault notifications.
// It subscribes synchronously so nothing published after it returns is missed.
func subscribeVaultEventLogger(ctx context.Context, eb *eventBus.EventBus) *eventBusTypes.Consumer {
	consumer := &eventBusTypes.Consumer{
		Id:      "vault-event-logger",
		Context: ctx,
		Channel: make(chan *eventBusTypes.Event, 100),
	}
	eb.Subscribe(consumer)
	return consumer
}

func logVaultEvents(ctx context.Context, consumer *eventBusTypes.Consumer, l *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-consumer.Channel:
			l.Sugar().Infow("Vault event", zap.String("name", ev.Name), zap.Any("data", ev.Data))
		}
	}
}
