package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/Layr-Labs/stake-vault/internal/metrics/metricsTypes"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	incrs   map[string]float64
	gauges  map[string]float64
	timings map[string]time.Duration
	labels  [][]metricsTypes.MetricsLabel
	err     error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		incrs:   map[string]float64{},
		gauges:  map[string]float64{},
		timings: map[string]time.Duration{},
	}
}

func (f *fakeClient) Incr(name string, labels []metricsTypes.MetricsLabel, value float64) error {
	f.incrs[name] += value
	f.labels = append(f.labels, labels)
	return f.err
}

func (f *fakeClient) Gauge(name string, value float64, labels []metricsTypes.MetricsLabel) error {
	f.gauges[name] = value
	return f.err
}

func (f *fakeClient) Timing(name string, value time.Duration, labels []metricsTypes.MetricsLabel) error {
	f.timings[name] = value
	return f.err
}

func Test_MetricsSink(t *testing.T) {
	t.Run("Should fan out to every client", func(t *testing.T) {
		a, b := newFakeClient(), newFakeClient()
		sink, err := NewMetricsSink(&MetricsSinkConfig{}, []metricsTypes.IMetricsClient{a, b})
		assert.Nil(t, err)

		assert.Nil(t, sink.Incr(metricsTypes.Metric_Incr_Deposit, nil, 1))
		assert.Nil(t, sink.Gauge(metricsTypes.Metric_Gauge_TotalDeposited, 10, nil))
		assert.Nil(t, sink.Timing(metricsTypes.Metric_Timing_OperationDuration, time.Second, nil))

		for _, c := range []*fakeClient{a, b} {
			assert.Equal(t, float64(1), c.incrs[metricsTypes.Metric_Incr_Deposit])
			assert.Equal(t, float64(10), c.gauges[metricsTypes.Metric_Gauge_TotalDeposited])
			assert.Equal(t, time.Second, c.timings[metricsTypes.Metric_Timing_OperationDuration])
		}
	})
	t.Run("Should merge default labels", func(t *testing.T) {
		c := newFakeClient()
		sink, _ := NewMetricsSink(&MetricsSinkConfig{
			DefaultLabels: []metricsTypes.MetricsLabel{{Name: "env", Value: "test"}},
		}, []metricsTypes.IMetricsClient{c})

		_ = sink.Incr(metricsTypes.Metric_Incr_OperationFail, []metricsTypes.MetricsLabel{{Name: "operation", Value: "claim"}}, 1)
		assert.Equal(t, []metricsTypes.MetricsLabel{
			{Name: "env", Value: "test"},
			{Name: "operation", Value: "claim"},
		}, c.labels[0])
	})
	t.Run("Should surface client errors", func(t *testing.T) {
		c := newFakeClient()
		c.err = errors.New("unavailable")
		sink, _ := NewMetricsSink(&MetricsSinkConfig{}, []metricsTypes.IMetricsClient{c})

		assert.NotNil(t, sink.Incr(metricsTypes.Metric_Incr_Deposit, nil, 1))
	})
	t.Run("Should build no clients when everything is disabled", func(t *testing.T) {
		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
		clients, err := InitMetricsSinksFromConfig(&config.Config{}, l)
		assert.Nil(t, err)
		assert.Len(t, clients, 0)
	})
}
