package poller

import (
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
)

// Poller runs a callback immediately and then on a fixed cadence until the
// returned Handle is stopped. One Handle per consumer activation: stopping it
// cancels the timer, and re-activation means starting a fresh Handle.
//
// The callback receives the handle's stop channel so it can drop a response
// that completed after deactivation. In-flight requests are not aborted; they
// are simply not applied.

type Func func(stop <-chan struct{})

type Handle struct {
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// Start launches the polling loop. fn runs once right away, then every
// interval until Stop is called.
func Start(interval time.Duration, fn Func) *Handle {
	h := &Handle{stop: make(chan struct{})}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		fn(h.stop)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				fn(h.stop)
			}
		}
	}()

	logger.WithField("interval", interval).Debug("polling started")
	return h
}

// Stop cancels the timer. Safe to call any number of times from any
// goroutine; only the first call has an effect.
func (h *Handle) Stop() {
	h.once.Do(func() {
		close(h.stop)
		logger.Debug("polling stopped")
	})
}

// Stopped reports whether Stop has been called.
func (h *Handle) Stopped() bool {
	select {
	case <-h.stop:
		return true
	default:
		return false
	}
}

// Wait blocks until the polling goroutine has exited. Mostly useful in tests
// and during shutdown.
func (h *Handle) Wait() {
	h.wg.Wait()
}
