// Package countdown runs the client-visible ticking display attached to a
// dispatched notification. It is a presentation concern only; it never talks
// to the dispatch cache.
package countdown

import (
	"sync"
	"time"
)

// Handle controls one running countdown. Cancel stops the ticker so a
// superseding status change can retire a stale countdown; after Cancel,
// neither callback fires again.
type Handle struct {
	stop chan struct{}
	once sync.Once
	done chan struct{}
}

// Cancel stops the countdown. Safe to call more than once and after
// completion.
func (h *Handle) Cancel() {
	h.once.Do(func() { close(h.stop) })
}

// Done closes when the countdown has finished or been cancelled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Timer starts countdowns. The zero value is not usable; construct with New.
type Timer struct {
	interval time.Duration
}

// New returns a Timer ticking once per second.
func New() *Timer {
	return &Timer{interval: time.Second}
}

// NewWithInterval returns a Timer with a custom tick interval (tests).
func NewWithInterval(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{interval: interval}
}

// Start runs a countdown from durationSeconds to zero. onTick receives each
// remaining value, starting with durationSeconds immediately; onComplete
// fires exactly once when the countdown reaches zero, and never fires if the
// handle is cancelled first. Either callback may be nil.
func (t *Timer) Start(durationSeconds int, onTick func(remaining int), onComplete func()) *Handle {
	h := &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(h.done)

		remaining := durationSeconds
		if remaining <= 0 {
			if onComplete != nil {
				onComplete()
			}
			return
		}

		if onTick != nil {
			onTick(remaining)
		}

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				remaining--
				if onTick != nil {
					onTick(remaining)
				}
				if remaining <= 0 {
					if onComplete != nil {
						onComplete()
					}
					return
				}
			}
		}
	}()

	return h
}
