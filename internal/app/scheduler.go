package app

import (
	"sync"
	"time"
)

// TimerHandle is ownership of one live countdown. Stop is idempotent.
type TimerHandle interface {
	Stop()
}

// Scheduler starts one-second-granularity countdowns. onTick is invoked
// once per elapsed second with the remaining count; onExpire exactly once
// when it reaches zero, after which the countdown is done. Stopping the
// returned handle is the only cancellation mechanism.
type Scheduler interface {
	Start(seconds int, onTick func(remaining int), onExpire func()) TimerHandle
}

// TickScheduler is the real Scheduler backed by time.Ticker.
type TickScheduler struct{}

// NewTickScheduler returns a Scheduler driven by wall-clock ticks.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

type tickHandle struct {
	done chan struct{}
	stop sync.Once
}

// Stop is safe for concurrent use: the countdown goroutine stops its own
// handle at expiry while the session may be stopping it under its lock.
func (h *tickHandle) Stop() {
	h.stop.Do(func() { close(h.done) })
}

// Start begins a countdown goroutine. Callbacks run off the scheduler
// goroutine; callers are expected to re-serialize them onto their own
// lock and discard stale generations.
func (s *TickScheduler) Start(seconds int, onTick func(remaining int), onExpire func()) TimerHandle {
	h := &tickHandle{done: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		remaining := seconds
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				remaining--
				if remaining <= 0 {
					h.Stop()
					onExpire()
					return
				}
				onTick(remaining)
			}
		}
	}()

	return h
}
