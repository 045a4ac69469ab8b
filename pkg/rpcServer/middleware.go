package rpcServer

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Layr-Labs/stake-vault/internal/metrics/metricsTypes"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIdHeader = "X-Request-Id"

func (rpc *RpcServer) requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIdHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIdHeader, id)
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records a count and a duration per route pattern, so that
// path parameters do not explode label cardinality.
func (rpc *RpcServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(started)

		rpc.Logger.Sugar().Debugw("Handled request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("requestId", w.Header().Get(requestIdHeader)),
		)

		if rpc.metrics == nil {
			return
		}
		_ = rpc.metrics.Incr(metricsTypes.Metric_Incr_HttpRequest, []metricsTypes.MetricsLabel{
			{Name: "method", Value: r.Method},
			{Name: "route", Value: route},
			{Name: "status", Value: strconv.Itoa(status)},
		}, 1)
		_ = rpc.metrics.Timing(metricsTypes.Metric_Timing_HttpDuration, duration, []metricsTypes.MetricsLabel{
			{Name: "method", Value: r.Method},
			{Name: "route", Value: route},
		})
	})
}
