package app

import (
	"context"
	"errors"
	"sync"

	"fakeout/internal/domain"
)

// fakeScheduler hands out manually fired timers so tests drive phase
// timeouts without a wall clock.
type fakeScheduler struct {
	timers []*fakeTimer
}

type fakeTimer struct {
	seconds  int
	onTick   func(int)
	onExpire func()
	stopped  bool
}

func (t *fakeTimer) Stop() { t.stopped = true }

func (f *fakeScheduler) Start(seconds int, onTick func(remaining int), onExpire func()) TimerHandle {
	t := &fakeTimer{seconds: seconds, onTick: onTick, onExpire: onExpire}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeScheduler) live() []*fakeTimer {
	out := make([]*fakeTimer, 0, 1)
	for _, t := range f.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

func (f *fakeScheduler) current() *fakeTimer {
	live := f.live()
	if len(live) == 0 {
		return nil
	}
	return live[len(live)-1]
}

// expire fires the live timer's expiry, as the real scheduler would at
// zero.
func (f *fakeScheduler) expire() {
	t := f.current()
	if t == nil {
		return
	}
	t.Stop()
	t.onExpire()
}

// stubArtSource returns a deterministic pair, or fails when broken.
type stubArtSource struct {
	broken bool
	calls  int
}

func (s *stubArtSource) FetchPair(_ context.Context, theme string) (domain.ImagePair, error) {
	s.calls++
	if s.broken {
		return domain.ImagePair{}, errors.New("art source down")
	}
	return domain.ImagePair{
		Theme:    theme,
		Innocent: "https://img.test/" + theme + "/innocent",
		Impostor: "https://img.test/" + theme + "/impostor",
	}, nil
}

// countingNotifier records winner notifications.
type countingNotifier struct {
	mu    sync.Mutex
	names []string
}

func (n *countingNotifier) NotifyWinner(_ context.Context, username string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.names = append(n.names, username)
	return nil
}

func (n *countingNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.names)
}
