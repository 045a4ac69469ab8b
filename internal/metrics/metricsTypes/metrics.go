package metricsTypes

import "time"

type IMetricsClient interface {
	Incr(name string, labels []MetricsLabel, value float64) error
	Gauge(name string, value float64, labels []MetricsLabel) error
	Timing(name string, value time.Duration, labels []MetricsLabel) error
}

type MetricsLabel struct {
	Name  string
	Value string
}

type MetricsType string

var (
	MetricsType_Incr   MetricsType = "incr"
	MetricsType_Gauge  MetricsType = "gauge"
	MetricsType_Timing MetricsType = "timing"
)

type MetricsTypeConfig struct {
	Name   string
	Labels []string
}

var (
	Metric_Incr_Deposit       = "vault.deposit"
	Metric_Incr_StartStaking  = "vault.startStaking"
	Metric_Incr_RewardsClaim  = "vault.claim"
	Metric_Incr_Withdraw      = "vault.withdraw"
	Metric_Incr_OperationFail = "vault.operation.failed"
	Metric_Incr_HttpRequest   = "rpc.http.request"

	Metric_Gauge_TotalDeposited   = "vault.totalDeposited"
	Metric_Gauge_TotalRewardsPaid = "vault.totalRewardsPaid"

	Metric_Timing_HttpDuration      = "rpc.http.duration"
	Metric_Timing_OperationDuration = "vault.operation.duration"
)

var MetricTypes = map[MetricsType][]MetricsTypeConfig{
	MetricsType_Incr: {
		MetricsTypeConfig{
			Name:   Metric_Incr_Deposit,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_StartStaking,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_RewardsClaim,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_Withdraw,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_OperationFail,
			Labels: []string{"operation"},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_HttpRequest,
			Labels: []string{"method", "route", "status"},
		},
	},
	MetricsType_Gauge: {
		MetricsTypeConfig{
			Name:   Metric_Gauge_TotalDeposited,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Gauge_TotalRewardsPaid,
			Labels: []string{},
		},
	},
	MetricsType_Timing: {
		MetricsTypeConfig{
			Name:   Metric_Timing_HttpDuration,
			Labels: []string{"method", "route"},
		},
		MetricsTypeConfig{
			Name:   Metric_Timing_OperationDuration,
			Labels: []string{"operation"},
		},
	},
}
