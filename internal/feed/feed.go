package feed

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"StockApp/internal/model"
	"StockApp/internal/scheduler"

	"go.uber.org/zap"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrNotInitialized  = errors.New("feed not initialized")
	ErrStopped         = errors.New("feed stopped")
)

// State is the lifecycle position of a Feed.
type State int

const (
	StateUninitialized State = iota
	StateIdle
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Observer receives a private copy of the buffer after every change.
type Observer func(snapshot []model.Sample)

// Options configures a Feed.
type Options struct {
	Capacity int
}

type subscription struct {
	id int
	fn Observer
}

// Feed owns a bounded, time-ordered window of price samples.
//
// Mutations (Initialize, AppendSample) are serialized by writeMu, which is
// also held while observers are notified so they see changes in order.
// mu guards the buffer, state and subscriptions for readers.
type Feed struct {
	writeMu sync.Mutex

	mu        sync.RWMutex
	capacity  int
	buffer    []model.Sample
	state     State
	observers []subscription
	nextID    int

	ticker *scheduler.Ticker
	source PriceSource
	clock  Clock
	logger *zap.Logger
}

// New creates an uninitialized Feed.
func New(opts Options, source PriceSource, clock Clock, logger *zap.Logger) (*Feed, error) {
	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, opts.Capacity)
	}
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		capacity: opts.Capacity,
		ticker:   scheduler.NewTicker(logger.Named("ticker")),
		source:   source,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Initialize backfills one sample per day for Capacity days ending at ref,
// oldest first. It is a no-op on a feed that has already been initialized.
func (f *Feed) Initialize(ref time.Time) {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	if f.state != StateUninitialized {
		f.mu.Unlock()
		return
	}
	buf := make([]model.Sample, 0, f.capacity+1)
	for i := f.capacity - 1; i >= 0; i-- {
		buf = append(buf, model.NewSample(ref.AddDate(0, 0, -i), f.source.NextPrice()))
	}
	f.buffer = buf
	f.state = StateIdle
	snap, subs := f.snapshotLocked(), f.subscribersLocked()
	f.mu.Unlock()

	f.logger.Info("feed initialized",
		zap.Int("capacity", f.capacity),
		zap.String("source", f.source.Name()),
		zap.Time("from", snap[0].Timestamp),
		zap.Time("to", snap[len(snap)-1].Timestamp))
	f.notify(subs, snap)
}

// StartPeriodicUpdates appends a sample every interval until Stop or Close.
// It is a no-op while already running.
func (f *Feed) StartPeriodicUpdates(interval time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateStopped:
		return ErrStopped
	case StateRunning:
		return nil
	}

	if err := f.ticker.Start(interval, f.tick); err != nil {
		return fmt.Errorf("start ticker: %w", err)
	}
	f.state = StateRunning
	return nil
}

func (f *Feed) tick() {
	if s, ok := f.AppendSample(); ok {
		f.logger.Debug("tick", zap.Float64("price", s.Price))
	}
}

// AppendSample adds a sample stamped with the clock's current time and
// evicts the oldest one once the window is full. It returns false without
// mutating anything on an uninitialized or stopped feed.
func (f *Feed) AppendSample() (model.Sample, bool) {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	if f.state == StateUninitialized || f.state == StateStopped {
		f.mu.Unlock()
		return model.Sample{}, false
	}

	ts := f.clock.Now()
	if n := len(f.buffer); n > 0 && ts.Before(f.buffer[n-1].Timestamp) {
		// keep the window ordered if the clock is behind the backfill
		ts = f.buffer[n-1].Timestamp
	}
	s := model.NewSample(ts, f.source.NextPrice())
	f.buffer = append(f.buffer, s)
	if len(f.buffer) > f.capacity {
		copy(f.buffer, f.buffer[1:])
		f.buffer = f.buffer[:len(f.buffer)-1]
	}
	snap, subs := f.snapshotLocked(), f.subscribersLocked()
	f.mu.Unlock()

	f.notify(subs, snap)
	return s, true
}

// LatestSample returns the newest sample; ok is false when the buffer is empty.
func (f *Feed) LatestSample() (s model.Sample, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.buffer) == 0 {
		return model.Sample{}, false
	}
	return f.buffer[len(f.buffer)-1], true
}

// Snapshot returns a copy of the buffer, oldest first.
func (f *Feed) Snapshot() []model.Sample {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.buffer)
}

func (f *Feed) Capacity() int { return f.capacity }

func (f *Feed) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Subscribe registers an observer and returns a function that removes it.
// Observers must not call Stop or Close.
func (f *Feed) Subscribe(fn Observer) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.observers = append(f.observers, subscription{id: id, fn: fn})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.observers = slices.DeleteFunc(f.observers, func(s subscription) bool { return s.id == id })
		})
	}
}

// Stop cancels periodic updates and waits for an in-flight tick to finish.
// No sample is appended after Stop returns. It is a no-op unless running.
func (f *Feed) Stop() {
	f.mu.Lock()
	if f.state != StateRunning {
		f.mu.Unlock()
		return
	}
	f.state = StateStopped
	f.mu.Unlock()

	f.ticker.Stop()
	f.logger.Info("feed stopped", zap.Int("samples", f.Len()))
}

// Close tears the feed down from any state: the ticker is released,
// observers are dropped and later mutations become no-ops.
func (f *Feed) Close() {
	f.mu.Lock()
	f.state = StateStopped
	f.observers = nil
	f.mu.Unlock()

	f.ticker.Stop()
}

func (f *Feed) snapshotLocked() []model.Sample {
	return slices.Clone(f.buffer)
}

func (f *Feed) subscribersLocked() []Observer {
	fns := make([]Observer, len(f.observers))
	for i, s := range f.observers {
		fns[i] = s.fn
	}
	return fns
}

func (f *Feed) notify(subs []Observer, snap []model.Sample) {
	for i, fn := range subs {
		if i == len(subs)-1 {
			fn(snap)
			continue
		}
		fn(slices.Clone(snap))
	}
}
