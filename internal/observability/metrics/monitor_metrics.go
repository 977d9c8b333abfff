package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	SweepTriggerStart     = "start"
	SweepTriggerScheduled = "scheduled"
	SweepTriggerManual    = "manual"
)

const (
	SuppressReasonExisting   = "existing_unread"
	SuppressReasonConstraint = "unique_constraint"
)

// Config carries constant labels for the metric registry.
type Config struct {
	ServiceName string
	Environment string
}

// MonitorMetrics captures stock monitor and alerting health signals.
type MonitorMetrics struct {
	sweepRuns        *prometheus.CounterVec
	sweepDuration    *prometheus.HistogramVec
	sweepErrors      prometheus.Counter
	alertsCreated    prometheus.Counter
	alertsSuppressed *prometheus.CounterVec
}

var (
	monitorMetricsOnce sync.Once
	monitorMetrics     *MonitorMetrics
)

// Monitor returns the singleton monitor metrics registry.
func Monitor() *MonitorMetrics {
	return MonitorWithConfig(Config{})
}

// MonitorWithConfig returns the singleton monitor metrics registry using config labels.
func MonitorWithConfig(cfg Config) *MonitorMetrics {
	monitorMetricsOnce.Do(func() {
		monitorMetrics = newMonitorMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return monitorMetrics
}

// ResetMonitorMetricsForTest resets the monitor metrics singleton for tests.
func ResetMonitorMetricsForTest() {
	if monitorMetrics != nil {
		prometheus.DefaultRegisterer.Unregister(monitorMetrics.sweepRuns)
		prometheus.DefaultRegisterer.Unregister(monitorMetrics.sweepDuration)
		prometheus.DefaultRegisterer.Unregister(monitorMetrics.sweepErrors)
		prometheus.DefaultRegisterer.Unregister(monitorMetrics.alertsCreated)
		prometheus.DefaultRegisterer.Unregister(monitorMetrics.alertsSuppressed)
	}
	monitorMetricsOnce = sync.Once{}
	monitorMetrics = nil
}

func newMonitorMetrics(registerer prometheus.Registerer, cfg Config) *MonitorMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "storefront"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	sweepRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "storefront_stock_sweeps_total",
		Help:        "Stock sweeps by trigger.",
		ConstLabels: constLabels,
	}, []string{"trigger"})

	sweepDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "storefront_stock_sweep_duration_seconds",
		Help:        "Stock sweep duration by trigger.",
		ConstLabels: constLabels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"trigger"})

	sweepErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "storefront_stock_sweep_errors_total",
		Help:        "Per-product evaluation failures swallowed during sweeps.",
		ConstLabels: constLabels,
	})

	alertsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "storefront_low_stock_alerts_created_total",
		Help:        "Low stock notifications persisted.",
		ConstLabels: constLabels,
	})

	alertsSuppressed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "storefront_low_stock_alerts_suppressed_total",
		Help:        "Low stock notifications suppressed by the dedup rule.",
		ConstLabels: constLabels,
	}, []string{"reason"})

	registerer.MustRegister(sweepRuns, sweepDuration, sweepErrors, alertsCreated, alertsSuppressed)

	return &MonitorMetrics{
		sweepRuns:        sweepRuns,
		sweepDuration:    sweepDuration,
		sweepErrors:      sweepErrors,
		alertsCreated:    alertsCreated,
		alertsSuppressed: alertsSuppressed,
	}
}

func (m *MonitorMetrics) IncSweep(trigger string) {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues(trigger).Inc()
}

func (m *MonitorMetrics) ObserveSweepDuration(trigger string, d time.Duration) {
	if m == nil {
		return
	}
	m.sweepDuration.WithLabelValues(trigger).Observe(d.Seconds())
}

func (m *MonitorMetrics) IncSweepError() {
	if m == nil {
		return
	}
	m.sweepErrors.Inc()
}

func (m *MonitorMetrics) IncAlertCreated() {
	if m == nil {
		return
	}
	m.alertsCreated.Inc()
}

func (m *MonitorMetrics) IncAlertSuppressed(reason string) {
	if m == nil {
		return
	}
	m.alertsSuppressed.WithLabelValues(reason).Inc()
}
