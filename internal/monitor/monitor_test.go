package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopcraft/storefront/internal/config"
	"go.uber.org/zap"
)

type sweeperStub struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *sweeperStub) SweepAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *sweeperStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestMonitor(sweeper Sweeper) *Monitor {
	return New(Params{
		Cfg:     config.Config{MonitorIntervalMinutes: 5},
		Log:     zap.NewNop(),
		Sweeper: sweeper,
	})
}

func TestStartRunsImmediateSweep(t *testing.T) {
	sweeper := &sweeperStub{}
	m := newTestMonitor(sweeper)
	defer m.Stop()

	if err := m.Start(time.Hour); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := sweeper.Calls(); got != 1 {
		t.Fatalf("expected 1 immediate sweep, got %d", got)
	}

	status := m.Status()
	if !status.Running {
		t.Fatalf("expected monitor running")
	}
	if status.Interval != time.Hour {
		t.Fatalf("expected interval 1h, got %v", status.Interval)
	}
}

func TestStartWhileRunningIsNoOp(t *testing.T) {
	sweeper := &sweeperStub{}
	m := newTestMonitor(sweeper)
	defer m.Stop()

	if err := m.Start(time.Hour); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := m.Start(time.Minute); err != nil {
		t.Fatalf("second start: %v", err)
	}

	// The second call neither sweeps nor replaces the interval.
	if got := sweeper.Calls(); got != 1 {
		t.Fatalf("expected 1 sweep after repeated start, got %d", got)
	}
	if status := m.Status(); status.Interval != time.Hour {
		t.Fatalf("expected original interval kept, got %v", status.Interval)
	}
}

func TestStartZeroIntervalUsesDefault(t *testing.T) {
	sweeper := &sweeperStub{}
	m := newTestMonitor(sweeper)
	defer m.Stop()

	if err := m.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if status := m.Status(); status.Interval != 5*time.Minute {
		t.Fatalf("expected configured default interval, got %v", status.Interval)
	}
}

func TestStartNegativeInterval(t *testing.T) {
	m := newTestMonitor(&sweeperStub{})

	if err := m.Start(-time.Minute); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if m.Status().Running {
		t.Fatalf("expected monitor stopped after invalid start")
	}
}

func TestScheduledSweeps(t *testing.T) {
	sweeper := &sweeperStub{}
	m := newTestMonitor(sweeper)
	defer m.Stop()

	if err := m.Start(10 * time.Millisecond); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for sweeper.Calls() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 sweeps, got %d", sweeper.Calls())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopHaltsSweeps(t *testing.T) {
	sweeper := &sweeperStub{}
	m := newTestMonitor(sweeper)

	if err := m.Start(10 * time.Millisecond); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.Stop()

	if m.Status().Running {
		t.Fatalf("expected monitor stopped")
	}
	calls := sweeper.Calls()
	time.Sleep(50 * time.Millisecond)
	if got := sweeper.Calls(); got != calls {
		t.Fatalf("expected no sweeps after stop, got %d more", got-calls)
	}

	// Stopping again is a no-op.
	m.Stop()
}

func TestRestartAfterStop(t *testing.T) {
	sweeper := &sweeperStub{}
	m := newTestMonitor(sweeper)
	defer m.Stop()

	if err := m.Start(time.Hour); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.Stop()

	if err := m.Start(time.Hour); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := sweeper.Calls(); got != 2 {
		t.Fatalf("expected immediate sweep on restart, got %d", got)
	}
}

func TestSweepNow(t *testing.T) {
	sweeper := &sweeperStub{}
	m := newTestMonitor(sweeper)

	if err := m.SweepNow(context.Background()); err != nil {
		t.Fatalf("sweep now: %v", err)
	}
	if got := sweeper.Calls(); got != 1 {
		t.Fatalf("expected 1 sweep, got %d", got)
	}

	sweeper.err = errors.New("sweep failed")
	if err := m.SweepNow(context.Background()); err == nil {
		t.Fatalf("expected sweep error to surface")
	}
}
