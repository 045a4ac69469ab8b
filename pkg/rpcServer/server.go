package rpcServer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Layr-Labs/stake-vault/internal/metrics"
	"github.com/Layr-Labs/stake-vault/pkg/ledger"
	"github.com/Layr-Labs/stake-vault/pkg/vault"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type RpcServerConfig struct {
	HttpPort       int
	AllowedOrigins []string
}

type RpcServer struct {
	config  *RpcServerConfig
	vault   *vault.Vault
	ledger  ledger.Ledger
	metrics *metrics.MetricsSink
	Logger  *zap.Logger
}

func NewRpcServer(
	cfg *RpcServerConfig,
	v *vault.Vault,
	ldgr ledger.Ledger,
	ms *metrics.MetricsSink,
	l *zap.Logger,
) *RpcServer {
	return &RpcServer{
		config:  cfg,
		vault:   v,
		ledger:  ldgr,
		metrics: ms,
		Logger:  l,
	}
}

// Router builds the full HTTP handler, including CORS and request instrumentation.
func (rpc *RpcServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(rpc.requestIdMiddleware)
	r.Use(rpc.metricsMiddleware)

	r.Get("/health", rpc.HealthCheck)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/vault", rpc.GetVault)
		r.Get("/vault/state-root", rpc.GetStateRoot)
		r.Get("/stakes", rpc.ListStakes)
		r.Get("/stakes/{account}", rpc.GetStake)
		r.Get("/events", rpc.ListEvents)

		r.Post("/deposit", rpc.Deposit)
		r.Post("/staking/start", rpc.StartStaking)
		r.Post("/claim", rpc.ClaimRewards)
		r.Post("/withdraw", rpc.WithdrawAll)
		r.Post("/ownership/transfer", rpc.TransferOwnership)

		r.Route("/token", func(r chi.Router) {
			r.Get("/balances/{account}", rpc.GetBalance)
			r.Post("/approve", rpc.Approve)
			r.Post("/transfer", rpc.Transfer)
		})
	})

	origins := rpc.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIdHeader},
	})
	return c.Handler(r)
}

// Start serves the API until a value arrives on gracefulShutdown.
func (rpc *RpcServer) Start(gracefulShutdown chan bool) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", rpc.config.HttpPort),
		Handler:           rpc.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		for range gracefulShutdown {
			rpc.Logger.Sugar().Info("Shutting down rpc server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := httpServer.Shutdown(ctx); err != nil {
				rpc.Logger.Sugar().Errorw("Failed to shutdown rpc server", zap.Error(err))
			}
			cancel()
		}
	}()
	go func() {
		rpc.Logger.Sugar().Infow("Starting rpc server", zap.Int("port", rpc.config.HttpPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rpc.Logger.Sugar().Fatalw("Failed to start rpc server", zap.Error(err))
		}
	}()
	return nil
}
