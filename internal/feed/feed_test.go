package feed_test

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"StockApp/internal/feed"
	"StockApp/internal/feed/feedtest"
	"StockApp/internal/model"
	"StockApp/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var refTime = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func newFeed(t *testing.T, capacity int, r feed.Rand, clock feed.Clock) *feed.Feed {
	t.Helper()
	src, err := feed.NewUniformSource(100, 300, r)
	require.NoError(t, err)
	f, err := feed.New(feed.Options{Capacity: capacity}, src, clock, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func day(ts time.Time) string { return ts.Format("2006-01-02") }

func assertSorted(t *testing.T, samples []model.Sample) {
	t.Helper()
	assert.True(t, sort.SliceIsSorted(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	}), "buffer not sorted ascending")
}

func TestNew_RejectsNonPositiveCapacity(t *testing.T) {
	src, err := feed.NewUniformSource(100, 300, feedtest.NewSequenceRand(0.5))
	require.NoError(t, err)

	for _, c := range []int{0, -1} {
		_, err := feed.New(feed.Options{Capacity: c}, src, nil, zap.NewNop())
		assert.True(t, errors.Is(err, feed.ErrInvalidCapacity), "capacity %d", c)
	}
}

func TestInitialize_Backfill(t *testing.T) {
	f := newFeed(t, 30, feedtest.NewSequenceRand(0.1, 0.5, 0.9), nil)
	assert.Equal(t, feed.StateUninitialized, f.State())

	f.Initialize(refTime)

	snap := f.Snapshot()
	require.Len(t, snap, 30)
	assertSorted(t, snap)
	assert.Equal(t, "2025-02-14", day(snap[0].Timestamp))
	assert.Equal(t, "2025-03-15", day(snap[29].Timestamp))
	for i := 1; i < len(snap); i++ {
		assert.Equal(t, snap[i-1].Timestamp.AddDate(0, 0, 1), snap[i].Timestamp)
	}
	assert.Equal(t, feed.StateIdle, f.State())
}

func TestInitialize_SecondCallIsNoop(t *testing.T) {
	f := newFeed(t, 5, feedtest.NewSequenceRand(0.5), nil)
	f.Initialize(refTime)
	before := f.Snapshot()

	f.Initialize(refTime.AddDate(1, 0, 0))
	assert.Equal(t, before, f.Snapshot())
}

func TestAppendSample_SlidingWindow(t *testing.T) {
	clock := feedtest.NewClock(refTime.Add(2 * time.Hour))
	f := newFeed(t, 30, feedtest.NewSequenceRand(0.25, 0.75), clock)
	f.Initialize(refTime)

	var appended []model.Sample
	for i := 0; i < 3; i++ {
		clock.Advance(5 * time.Second)
		s, ok := f.AppendSample()
		require.True(t, ok)
		appended = append(appended, s)
	}

	snap := f.Snapshot()
	require.Len(t, snap, 30)
	assertSorted(t, snap)
	assert.Equal(t, "2025-02-17", day(snap[0].Timestamp), "three oldest samples should be evicted")
	assert.Equal(t, appended, snap[27:])
	assert.Equal(t, clock.Now(), snap[29].Timestamp)
}

func TestAppendSample_LengthStaysAtCapacity(t *testing.T) {
	clock := feedtest.NewClock(refTime)
	f := newFeed(t, 10, feed.NewRand(7), clock)
	f.Initialize(refTime)

	for i := 0; i < 100; i++ {
		clock.Advance(time.Second)
		_, ok := f.AppendSample()
		require.True(t, ok)
		require.Equal(t, 10, f.Len())
	}
	assertSorted(t, f.Snapshot())
}

func TestAppendSample_CapacityOne(t *testing.T) {
	clock := feedtest.NewClock(refTime)
	f := newFeed(t, 1, feedtest.NewSequenceRand(0, 1, 0.5), clock)
	f.Initialize(refTime)
	require.Len(t, f.Snapshot(), 1)

	for i := 0; i < 5; i++ {
		clock.Advance(time.Minute)
		s, ok := f.AppendSample()
		require.True(t, ok)
		assert.Equal(t, []model.Sample{s}, f.Snapshot())
	}
}

func TestAppendSample_ClockBehindBackfillKeepsOrder(t *testing.T) {
	clock := feedtest.NewClock(refTime.AddDate(0, 0, -3))
	f := newFeed(t, 5, feedtest.NewSequenceRand(0.5), clock)
	f.Initialize(refTime)

	s, ok := f.AppendSample()
	require.True(t, ok)
	assert.Equal(t, refTime, s.Timestamp)
	assertSorted(t, f.Snapshot())
}

func TestPricesWithinRange(t *testing.T) {
	clock := feedtest.NewClock(refTime)
	f := newFeed(t, 30, feed.NewRand(42), clock)
	f.Initialize(refTime)
	for i := 0; i < 500; i++ {
		clock.Advance(time.Second)
		f.AppendSample()
	}
	for _, s := range f.Snapshot() {
		assert.GreaterOrEqual(t, s.Price, 100.0)
		assert.LessOrEqual(t, s.Price, 300.0)
	}

	b := newFeed(t, 2, feedtest.NewSequenceRand(0, 1), nil)
	b.Initialize(refTime)
	snap := b.Snapshot()
	assert.Equal(t, 100.0, snap[0].Price)
	assert.Equal(t, 300.0, snap[1].Price)
}

func TestLatestSample(t *testing.T) {
	clock := feedtest.NewClock(refTime.Add(time.Hour))
	f := newFeed(t, 30, feedtest.NewSequenceRand(0.5), clock)

	_, ok := f.LatestSample()
	assert.False(t, ok, "no data before Initialize")

	f.Initialize(refTime)
	latest, ok := f.LatestSample()
	require.True(t, ok)
	assert.Equal(t, refTime, latest.Timestamp)

	appended, ok := f.AppendSample()
	require.True(t, ok)
	latest, ok = f.LatestSample()
	require.True(t, ok)
	assert.Equal(t, appended, latest)
}

func TestAppendSample_NoopBeforeInitialize(t *testing.T) {
	f := newFeed(t, 3, feedtest.NewSequenceRand(0.5), nil)
	_, ok := f.AppendSample()
	assert.False(t, ok)
	assert.Zero(t, f.Len())
}

func TestStartPeriodicUpdates_Errors(t *testing.T) {
	f := newFeed(t, 3, feedtest.NewSequenceRand(0.5), nil)
	assert.ErrorIs(t, f.StartPeriodicUpdates(time.Second), feed.ErrNotInitialized)

	f.Initialize(refTime)
	assert.ErrorIs(t, f.StartPeriodicUpdates(10*time.Millisecond), scheduler.ErrInvalidInterval)
	assert.Equal(t, feed.StateIdle, f.State())

	f.Close()
	assert.ErrorIs(t, f.StartPeriodicUpdates(time.Second), feed.ErrStopped)
}

func TestStartPeriodicUpdates_TicksUntilStop(t *testing.T) {
	f := newFeed(t, 3, feed.NewRand(1), nil)

	var mu sync.Mutex
	var notified int
	f.Subscribe(func(snap []model.Sample) {
		mu.Lock()
		defer mu.Unlock()
		notified++
	})

	f.Initialize(time.Now())
	first, _ := f.LatestSample()

	require.NoError(t, f.StartPeriodicUpdates(time.Second))
	require.NoError(t, f.StartPeriodicUpdates(time.Second), "second start is a no-op")
	assert.Equal(t, feed.StateRunning, f.State())

	require.Eventually(t, func() bool {
		latest, _ := f.LatestSample()
		return latest.ID != first.ID
	}, 3*time.Second, 20*time.Millisecond)

	f.Stop()
	assert.Equal(t, feed.StateStopped, f.State())

	mu.Lock()
	count := notified
	mu.Unlock()
	assert.GreaterOrEqual(t, count, 2)

	stopped := f.Snapshot()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, stopped, f.Snapshot(), "buffer mutated after Stop")
}

func TestStop_Idempotent(t *testing.T) {
	f := newFeed(t, 3, feedtest.NewSequenceRand(0.5), nil)
	f.Stop()
	assert.Equal(t, feed.StateUninitialized, f.State())

	f.Initialize(refTime)
	f.Stop()
	assert.Equal(t, feed.StateIdle, f.State(), "Stop from idle is a no-op")
	_, ok := f.AppendSample()
	assert.True(t, ok)

	require.NoError(t, f.StartPeriodicUpdates(time.Second))
	f.Stop()
	snap := f.Snapshot()
	f.Stop()
	assert.Equal(t, feed.StateStopped, f.State())
	assert.Equal(t, snap, f.Snapshot())

	_, ok = f.AppendSample()
	assert.False(t, ok, "append after Stop must be a no-op")
}

func TestClose_DropsObserversAndBlocksMutation(t *testing.T) {
	f := newFeed(t, 3, feedtest.NewSequenceRand(0.5), nil)
	calls := 0
	f.Subscribe(func([]model.Sample) { calls++ })
	f.Initialize(refTime)
	require.Equal(t, 1, calls)

	f.Close()
	f.Close()
	_, ok := f.AppendSample()
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, feed.StateStopped, f.State())
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	clock := feedtest.NewClock(refTime)
	f := newFeed(t, 4, feedtest.NewSequenceRand(0.5), clock)

	var got [][]model.Sample
	unsubscribe := f.Subscribe(func(snap []model.Sample) { got = append(got, snap) })
	var other [][]model.Sample
	f.Subscribe(func(snap []model.Sample) { other = append(other, snap) })

	f.Initialize(refTime)
	require.Len(t, got, 1)
	assert.Len(t, got[0], 4)

	clock.Advance(time.Second)
	s, _ := f.AppendSample()
	require.Len(t, got, 2)
	assert.Equal(t, s, got[1][3])
	assert.Equal(t, got, other)

	got[1][0].Price = -1
	assert.NotEqual(t, -1.0, f.Snapshot()[0].Price, "observer snapshot must not alias the buffer")

	unsubscribe()
	unsubscribe()
	f.AppendSample()
	assert.Len(t, got, 2)
	assert.Len(t, other, 3)
}

func TestAppendSample_ConcurrentCallersStaySerialized(t *testing.T) {
	clock := feedtest.NewClock(refTime)
	f := newFeed(t, 30, feed.NewRand(3), clock)

	var mu sync.Mutex
	var lengths []int
	f.Subscribe(func(snap []model.Sample) {
		mu.Lock()
		defer mu.Unlock()
		lengths = append(lengths, len(snap))
	})
	f.Initialize(refTime)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				clock.Advance(time.Millisecond)
				f.AppendSample()
				_ = f.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 30, f.Len())
	assertSorted(t, f.Snapshot())
	require.Len(t, lengths, 401)
	for _, n := range lengths {
		assert.Equal(t, 30, n)
	}
}

func TestUniformSource_RejectsBadRange(t *testing.T) {
	_, err := feed.NewUniformSource(300, 100, feedtest.NewSequenceRand())
	assert.ErrorIs(t, err, feed.ErrInvalidRange)
	_, err = feed.NewUniformSource(-1, 100, feedtest.NewSequenceRand())
	assert.ErrorIs(t, err, feed.ErrInvalidRange)

	src, err := feed.NewUniformSource(150, 150, feedtest.NewSequenceRand(0.3))
	require.NoError(t, err)
	assert.Equal(t, 150.0, src.NextPrice())
	assert.Equal(t, "uniform", src.Name())
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state feed.State
		want  string
	}{
		{feed.StateUninitialized, "uninitialized"},
		{feed.StateIdle, "idle"},
		{feed.StateRunning, "running"},
		{feed.StateStopped, "stopped"},
		{feed.State(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestNew_NilClockAndLogger(t *testing.T) {
	src, err := feed.NewUniformSource(100, 300, feedtest.NewSequenceRand(0.5))
	require.NoError(t, err)

	f, err := feed.New(feed.Options{Capacity: 2}, src, nil, nil)
	require.NoError(t, err)
	defer f.Close()

	f.Initialize(time.Now().Add(-time.Hour))
	s, ok := f.AppendSample()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), s.Timestamp, time.Minute)
	f.Stop()
}
