package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func CreateGracefulShutdownChannel() chan os.Signal {
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGTERM, syscall.SIGINT)

	return gracefulShutdown
}

// ListenForShutdown blocks until a termination signal arrives or ctx is done, then
// runs each handler in order and waits drainPeriod for in-flight work to settle.
// It returns the signal that triggered the shutdown, or nil when ctx ended first.
func ListenForShutdown(
	ctx context.Context,
	signalChan chan os.Signal,
	drainPeriod time.Duration,
	l *zap.Logger,
	handlers ...func(),
) os.Signal {
	var sig os.Signal
	select {
	case sig = <-signalChan:
		l.Sugar().Infow("Caught signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
		l.Sugar().Infow("Context finished, shutting down", zap.Error(ctx.Err()))
	}

	for _, h := range handlers {
		h()
	}

	if drainPeriod > 0 {
		l.Sugar().Infow("Waiting before exit", zap.Duration("drainPeriod", drainPeriod))
		time.Sleep(drainPeriod)
	}
	l.Sugar().Info("Exiting")
	return sig
}
