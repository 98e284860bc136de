package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrInvalidInterval is returned for intervals below cron's one-second resolution.
var ErrInvalidInterval = errors.New("interval must be at least 1s")

// Ticker runs a single job on a fixed interval. Runs never overlap: a tick
// that fires while the previous one is still executing is skipped.
type Ticker struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	logger  *zap.Logger
	running bool
}

// NewTicker creates an idle Ticker.
func NewTicker(logger *zap.Logger) *Ticker {
	return &Ticker{logger: logger}
}

// Start schedules job every interval. Calling Start on a running Ticker is a no-op.
func (t *Ticker) Start(interval time.Duration, job func()) error {
	if interval < time.Second {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, interval)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}

	cl := cronLogger{t.logger.Sugar()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	t.entry = c.Schedule(cron.Every(interval), cron.FuncJob(job))
	c.Start()

	t.cron = c
	t.running = true
	t.logger.Info("ticker started", zap.Duration("interval", interval))
	return nil
}

// Stop cancels the schedule and blocks until an in-flight run has returned.
// Stopping an idle Ticker is a no-op.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	c := t.cron
	t.cron = nil
	t.running = false
	t.mu.Unlock()

	<-c.Stop().Done()
	t.logger.Info("ticker stopped")
}

// Running reports whether a schedule is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// NextRun returns the next scheduled activation, or the zero time when idle.
func (t *Ticker) NextRun() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return time.Time{}
	}
	return t.cron.Entry(t.entry).Next
}

// cronLogger bridges cron's logr-style logger to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
