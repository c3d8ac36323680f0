package poller

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStartRunsImmediately(t *testing.T) {
	ran := make(chan struct{})
	h := Start(time.Hour, func(stop <-chan struct{}) {
		close(ran)
	})
	defer h.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("callback did not run on start")
	}
}

func TestStartFiresOnInterval(t *testing.T) {
	var calls atomic.Int32
	h := Start(10*time.Millisecond, func(stop <-chan struct{}) {
		calls.Add(1)
	})

	time.Sleep(120 * time.Millisecond)
	h.Stop()
	h.Wait()

	// Immediate run plus several ticks. Exact count depends on scheduling.
	if n := calls.Load(); n < 3 {
		t.Fatalf("expected at least 3 calls, got %d", n)
	}
}

func TestStopHaltsCallbacks(t *testing.T) {
	var calls atomic.Int32
	h := Start(5*time.Millisecond, func(stop <-chan struct{}) {
		calls.Add(1)
	})

	time.Sleep(30 * time.Millisecond)
	h.Stop()
	h.Wait()
	settled := calls.Load()

	time.Sleep(50 * time.Millisecond)
	if calls.Load() != settled {
		t.Fatalf("callback ran after Stop: %d -> %d", settled, calls.Load())
	}
	if !h.Stopped() {
		t.Fatal("Stopped() should report true after Stop")
	}
}

func TestStopIsIdempotentAndConcurrent(t *testing.T) {
	h := Start(time.Hour, func(stop <-chan struct{}) {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Stop()
		}()
	}
	wg.Wait()
	h.Wait()
}

// A slow callback that checks the stop channel after its "response" arrives
// must observe the deactivation and skip applying state.
func TestLateResponseObservesStop(t *testing.T) {
	applied := make(chan struct{}, 1)
	inFlight := make(chan struct{})

	h := Start(time.Hour, func(stop <-chan struct{}) {
		close(inFlight)
		time.Sleep(30 * time.Millisecond) // simulated slow response

		select {
		case <-stop:
			return
		default:
		}
		applied <- struct{}{}
	})

	<-inFlight
	h.Stop()
	h.Wait()

	select {
	case <-applied:
		t.Fatal("state applied from a response that resolved after Stop")
	default:
	}
}
