package todo

import (
	"context"
	"time"
)

// Countdown is a running countdown scheduler started by StartCountdown.
type Countdown struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartCountdown calls Tick every interval on its own goroutine and passes
// each fresh label map to notify. It runs until ctx is cancelled, Stop is
// called or the controller is closed. Starting a new countdown stops the
// previous one.
//
// notify must not call Stop or Close.
func (c *Controller) StartCountdown(ctx context.Context, interval time.Duration, notify func(map[string]string)) *Countdown {
	ctx, cancel := context.WithCancel(ctx)
	cd := &Countdown{cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	prev := c.countdown
	c.countdown = cd
	c.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}

	go func() {
		defer close(cd.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				labels := c.Tick()
				if notify != nil {
					notify(labels)
				}
			}
		}
	}()
	return cd
}

// Stop cancels the countdown and waits for its goroutine to exit.
// It is safe to call more than once.
func (cd *Countdown) Stop() {
	cd.cancel()
	<-cd.done
}

// Done is closed once the countdown goroutine has exited.
func (cd *Countdown) Done() <-chan struct{} {
	return cd.done
}
