// Package dispatch guards the outbound side of the notification pipeline:
// a per-project sliding-window rate limiter with duplicate suppression, and
// the dispatcher that applies the hard-timeout/no-retry delivery policy.
package dispatch

import (
	"sync"
	"time"
)

// Clock supplies the current time; injected for rate limiter tests.
type Clock func() time.Time

// DenyReason explains why an event was not allowed to dispatch.
type DenyReason string

const (
	DenyDuplicate   DenyReason = "duplicate"
	DenyRateLimited DenyReason = "rate_limited"
)

// Decision is the outcome of TryDispatch.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
}

var allow = Decision{Allowed: true}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// CacheConfig bounds one project's dispatch window.
type CacheConfig struct {
	Window       time.Duration // sliding window length
	MaxPerWindow int           // dispatch cap inside one window
	GCIdle       time.Duration // evict entries idle this long
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Window:       time.Minute,
		MaxPerWindow: 10,
		GCIdle:       5 * time.Minute,
	}
}

// entry is one project's window state. Each entry carries its own mutex so
// unrelated projects never serialize on each other.
type entry struct {
	mu           sync.Mutex
	windowStart  time.Time
	count        int
	fingerprints map[string]struct{}
	lastSeen     time.Time
	evicted      bool
}

// Cache is the dispatch cache. It is an explicitly constructed, lifecycle
// scoped object, not ambient global state; tests instantiate independent
// caches.
type Cache struct {
	mu      sync.Mutex // guards the entries map, never held during window checks
	entries map[int64]*entry
	cfg     CacheConfig
}

func NewCache(cfg CacheConfig) *Cache {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.MaxPerWindow <= 0 {
		cfg.MaxPerWindow = 10
	}
	if cfg.GCIdle <= 0 {
		cfg.GCIdle = 5 * time.Minute
	}
	return &Cache{
		entries: make(map[int64]*entry),
		cfg:     cfg,
	}
}

// TryDispatch runs the per-project state machine atomically:
//
//	Idle    -> create window, count=1, Allow
//	Active  -> duplicate fingerprint: Deny(duplicate)
//	           count below cap: increment, Allow
//	           otherwise: Deny(rate_limited)
//	Expired -> reset window and fingerprints, count=1, Allow
func (c *Cache) TryDispatch(projectID int64, fingerprint string, now time.Time) Decision {
	for {
		e := c.lookupOrCreate(projectID)

		e.mu.Lock()
		if e.evicted {
			// Lost a race with the sweeper; the map no longer holds this
			// entry, start over.
			e.mu.Unlock()
			continue
		}

		decision := c.step(e, fingerprint, now)
		e.mu.Unlock()
		return decision
	}
}

func (c *Cache) lookupOrCreate(projectID int64) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[projectID]
	if !ok {
		e = &entry{}
		c.entries[projectID] = e
	}
	return e
}

// step mutates e under its lock.
func (c *Cache) step(e *entry, fingerprint string, now time.Time) Decision {
	e.lastSeen = now

	if e.fingerprints == nil || now.Sub(e.windowStart) >= c.cfg.Window {
		// Idle or Expired: fresh window.
		e.windowStart = now
		e.count = 1
		e.fingerprints = map[string]struct{}{fingerprint: {}}
		return allow
	}

	if e.count >= c.cfg.MaxPerWindow {
		return deny(DenyRateLimited)
	}
	if _, dup := e.fingerprints[fingerprint]; dup {
		return deny(DenyDuplicate)
	}

	e.count++
	e.fingerprints[fingerprint] = struct{}{}
	return allow
}

// Sweep evicts entries idle past GCIdle. Eviction takes the entry lock, so it
// never interleaves with a window check in flight.
func (c *Cache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for projectID, e := range c.entries {
		e.mu.Lock()
		if now.Sub(e.lastSeen) >= c.cfg.GCIdle {
			e.evicted = true
			delete(c.entries, projectID)
			evicted++
		}
		e.mu.Unlock()
	}
	return evicted
}

// StartGC runs Sweep periodically until done closes.
func (c *Cache) StartGC(done <-chan struct{}, clock Clock) {
	interval := c.cfg.GCIdle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.Sweep(clock())
			}
		}
	}()
}

// Len reports the number of tracked projects (test hook).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
