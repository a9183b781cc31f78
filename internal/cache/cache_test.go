package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestGetOrFetchCachesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	c := NewWithClock(clock.Now)

	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	v, err := GetOrFetch(context.Background(), c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	clock.Advance(30 * time.Minute)
	v, err = GetOrFetch(context.Background(), c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, int32(1), calls.Load(), "second call within TTL should not fetch")
}

func TestGetOrFetchRefetchesAfterExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	c := NewWithClock(clock.Now)

	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	v, err := GetOrFetch(context.Background(), c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(time.Hour)
	v, err = GetOrFetch(context.Background(), c, "k", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "expiry is boundary inclusive: age == ttl refetches")
}

func TestGetOrFetchFailureNotCachedAndPriorEntryKept(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	c := NewWithClock(clock.Now)

	_, err := GetOrFetch(context.Background(), c, "k", time.Hour, func(ctx context.Context) (string, error) {
		return "first", nil
	})
	require.NoError(t, err)

	// Expire the entry, then fail the refetch.
	clock.Advance(2 * time.Hour)
	boom := errors.New("boom")
	_, err = GetOrFetch(context.Background(), c, "k", time.Hour, func(ctx context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	// The stale entry must survive the failure: widening the TTL makes
	// it visible again without a fetch.
	v, err := GetOrFetch(context.Background(), c, "k", 3*time.Hour, func(ctx context.Context) (string, error) {
		t.Fatal("fetch should not run")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestGetOrFetchCollapsesConcurrentMisses(t *testing.T) {
	c := New()

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	const n = 10
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := GetOrFetch(context.Background(), c, "k", time.Hour, fetch)
			assert.NoError(t, err)
			assert.Equal(t, "v", v)
		}()
	}

	// Give the goroutines a moment to pile onto the key, then let the
	// single in-flight fetch finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2), "concurrent misses should collapse to at most a couple of fetches")
}

func TestStats(t *testing.T) {
	c := New()
	fetch := func(ctx context.Context) (string, error) { return "v", nil }

	_, _ = GetOrFetch(context.Background(), c, "k", time.Hour, fetch)
	_, _ = GetOrFetch(context.Background(), c, "k", time.Hour, fetch)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, c.Len())
}

func TestKeyOrderIndependent(t *testing.T) {
	a := Key("historical", []int{1975, 2000}, []string{"Energy", "Economy"}, []string{"rbi", "world-bank"})
	b := Key("historical", []int{1975, 2000}, []string{"Economy", "Energy"}, []string{"world-bank", "rbi"})
	assert.Equal(t, a, b, "reordering sector/source sets must not change the key")
}

func TestKeyDistinguishesOperations(t *testing.T) {
	a := Key("historical", []int{2000}, []string{"Economy"}, []string{"rbi"})
	b := Key("actuals", []int{2000}, []string{"Economy"}, []string{"rbi"})
	assert.NotEqual(t, a, b)
}

func TestKeyYearOrderSignificant(t *testing.T) {
	// Years are an ordered tuple (forecast year, target year), not a set.
	a := Key("historical", []int{1975, 2000}, nil, nil)
	b := Key("historical", []int{2000, 1975}, nil, nil)
	assert.NotEqual(t, a, b)
}
