package dispatch

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache() *Cache {
	return NewCache(CacheConfig{
		Window:       time.Minute,
		MaxPerWindow: 10,
		GCIdle:       5 * time.Minute,
	})
}

func TestTryDispatchDuplicateSuppressed(t *testing.T) {
	c := testCache()
	now := time.Now()

	first := c.TryDispatch(1, "fp-a", now)
	assert.True(t, first.Allowed)

	second := c.TryDispatch(1, "fp-a", now.Add(2*time.Second))
	assert.False(t, second.Allowed)
	assert.Equal(t, DenyDuplicate, second.Reason)
}

func TestTryDispatchRateLimitCap(t *testing.T) {
	c := testCache()
	now := time.Now()

	for i := 0; i < 10; i++ {
		d := c.TryDispatch(1, fmt.Sprintf("fp-%d", i), now.Add(time.Duration(i)*time.Second))
		require.True(t, d.Allowed, "event %d should be allowed", i)
	}

	eleventh := c.TryDispatch(1, "fp-10", now.Add(11*time.Second))
	assert.False(t, eleventh.Allowed)
	assert.Equal(t, DenyRateLimited, eleventh.Reason)
}

func TestTryDispatchRateLimitTakesPrecedenceAtCap(t *testing.T) {
	c := testCache()
	now := time.Now()

	for i := 0; i < 10; i++ {
		require.True(t, c.TryDispatch(1, fmt.Sprintf("fp-%d", i), now).Allowed)
	}

	// A repeat of an already-seen fingerprint at the cap is reported as rate
	// limited, not duplicate.
	repeat := c.TryDispatch(1, "fp-0", now.Add(time.Second))
	assert.False(t, repeat.Allowed)
	assert.Equal(t, DenyRateLimited, repeat.Reason)
}

func TestTryDispatchWindowExpiryResets(t *testing.T) {
	c := testCache()
	t0 := time.Now()

	assert.True(t, c.TryDispatch(1, "fp-a", t0).Allowed)

	dup := c.TryDispatch(1, "fp-a", t0.Add(5*time.Second))
	assert.Equal(t, DenyDuplicate, dup.Reason)

	// Past the window the same fingerprint is a fresh event again.
	after := c.TryDispatch(1, "fp-a", t0.Add(61*time.Second))
	assert.True(t, after.Allowed)
}

func TestTryDispatchProjectsAreIndependent(t *testing.T) {
	c := testCache()
	now := time.Now()

	for i := 0; i < 10; i++ {
		require.True(t, c.TryDispatch(1, fmt.Sprintf("fp-%d", i), now).Allowed)
	}
	assert.Equal(t, DenyRateLimited, c.TryDispatch(1, "fp-x", now).Reason)

	// Project 2 has its own window.
	assert.True(t, c.TryDispatch(2, "fp-x", now).Allowed)
}

func TestSweepEvictsIdleEntries(t *testing.T) {
	c := testCache()
	t0 := time.Now()

	c.TryDispatch(1, "fp-a", t0)
	c.TryDispatch(2, "fp-b", t0.Add(4*time.Minute))
	require.Equal(t, 2, c.Len())

	evicted := c.Sweep(t0.Add(5 * time.Minute))
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, c.Len())

	// The evicted project starts a fresh window on its next event.
	assert.True(t, c.TryDispatch(1, "fp-a", t0.Add(6*time.Minute)).Allowed)
	assert.Equal(t, 2, c.Len())
}

func TestTryDispatchConcurrent(t *testing.T) {
	c := NewCache(CacheConfig{
		Window:       time.Minute,
		MaxPerWindow: 10,
		GCIdle:       5 * time.Minute,
	})
	now := time.Now()

	const workers = 40
	allowed := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := c.TryDispatch(7, fmt.Sprintf("fp-%d", i), now)
			if d.Allowed {
				allowed <- struct{}{}
			}
		}(i)
	}
	wg.Wait()
	close(allowed)

	assert.Equal(t, 10, len(allowed))
}

func TestTryDispatchConcurrentDuplicates(t *testing.T) {
	c := testCache()
	now := time.Now()

	const workers = 20
	allowed := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.TryDispatch(9, "same-fp", now).Allowed {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	assert.Equal(t, 1, len(allowed))
}

func TestStartGC(t *testing.T) {
	c := NewCache(CacheConfig{
		Window:       time.Minute,
		MaxPerWindow: 10,
		GCIdle:       10 * time.Millisecond,
	})

	base := time.Now()
	c.TryDispatch(1, "fp-a", base)

	done := make(chan struct{})
	defer close(done)
	c.StartGC(done, func() time.Time { return base.Add(time.Hour) })

	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, 5*time.Second, 50*time.Millisecond)
}

func TestFingerprint(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 3, 0, time.UTC)

	a := Fingerprint(42, 20, ts)
	b := Fingerprint(42, 20, ts.Add(4*time.Second))
	assert.Equal(t, a, b, "same bucket yields same fingerprint")

	later := Fingerprint(42, 20, ts.Add(20*time.Second))
	assert.NotEqual(t, a, later, "different bucket yields different fingerprint")

	otherProject := Fingerprint(43, 20, ts)
	assert.NotEqual(t, a, otherProject)

	otherStatus := Fingerprint(42, 30, ts)
	assert.NotEqual(t, a, otherStatus)

	assert.Len(t, a, 32)
}
