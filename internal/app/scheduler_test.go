package app

import (
	"sync"
	"testing"
)

func TestTickHandleStopConcurrent(t *testing.T) {
	// The real scheduler stops its own handle at expiry while the session
	// stops it from armTimer; both must be able to race without panicking.
	for i := 0; i < 10000; i++ {
		h := &tickHandle{done: make(chan struct{})}

		start := make(chan struct{})
		var wg sync.WaitGroup
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				h.Stop()
			}()
		}
		close(start)
		wg.Wait()

		h.Stop()

		select {
		case <-h.done:
		default:
			t.Fatal("handle not stopped")
		}
	}
}
