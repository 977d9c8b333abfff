// Package monitor runs the periodic low stock sweep.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopcraft/storefront/internal/config"
	"github.com/shopcraft/storefront/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidInterval = errors.New("invalid_interval")

// Sweeper evaluates every product and raises low stock alerts.
type Sweeper interface {
	SweepAll(ctx context.Context) error
}

// Status is a point-in-time snapshot of the monitor loop.
type Status struct {
	Running  bool          `json:"isRunning"`
	Interval time.Duration `json:"-"`
}

// Monitor drives recurring sweeps against the product catalog. All state
// transitions go through the mutex so concurrent Start/Stop calls are safe.
type Monitor struct {
	log             *zap.Logger
	sweeper         Sweeper
	defaultInterval time.Duration

	mu       sync.Mutex
	running  bool
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Sweeper Sweeper
}

func New(p Params) *Monitor {
	defaultInterval := time.Duration(p.Cfg.MonitorIntervalMinutes) * time.Minute
	if defaultInterval <= 0 {
		defaultInterval = 5 * time.Minute
	}
	return &Monitor{
		log:             p.Log.Named("monitor"),
		sweeper:         p.Sweeper,
		defaultInterval: defaultInterval,
	}
}

// Start begins the sweep loop. The first sweep runs synchronously before
// Start returns; subsequent sweeps fire on the interval. An interval of zero
// selects the configured default. Calling Start while running is a logged
// no-op and the current loop keeps its interval.
func (m *Monitor) Start(interval time.Duration) error {
	if interval < 0 {
		return ErrInvalidInterval
	}
	if interval == 0 {
		interval = m.defaultInterval
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.log.Info("stock monitoring already running")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.running = true
	m.interval = interval
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	m.log.Info("stock monitoring started", zap.Duration("interval", interval))
	m.sweep(ctx, metrics.SweepTriggerStart)

	go m.loop(ctx, interval, done)
	return nil
}

// Stop halts the loop and waits for an in-flight sweep to finish. Stopping a
// stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	done := m.done
	m.running = false
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	cancel()
	<-done
	m.log.Info("stock monitoring stopped")
}

func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{Running: m.running, Interval: m.interval}
}

// SweepNow runs one sweep outside the schedule, for the manual check
// endpoint. It works whether or not the loop is running.
func (m *Monitor) SweepNow(ctx context.Context) error {
	return m.sweepErr(ctx, metrics.SweepTriggerManual)
}

func (m *Monitor) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx, metrics.SweepTriggerScheduled)
		}
	}
}

func (m *Monitor) sweep(ctx context.Context, trigger string) {
	if err := m.sweepErr(ctx, trigger); err != nil && !errors.Is(err, context.Canceled) {
		m.log.Error("stock sweep failed", zap.String("trigger", trigger), zap.Error(err))
	}
}

func (m *Monitor) sweepErr(ctx context.Context, trigger string) error {
	start := time.Now()
	metrics.Monitor().IncSweep(trigger)
	err := m.sweeper.SweepAll(ctx)
	metrics.Monitor().ObserveSweepDuration(trigger, time.Since(start))
	return err
}
