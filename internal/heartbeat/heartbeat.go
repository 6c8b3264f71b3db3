// Package heartbeat blinks a status LED so a headless box shows the
// acquisition loop is alive. The LED is driven through the Linux GPIO
// character device; other platforms get a stub that reports unsupported.
package heartbeat

import (
	"context"
	"time"
)

// Toggler is a two-state output line.
type Toggler interface {
	Toggle() error
	Close() error
}

// Run flips the LED every period until ctx is done, then leaves it off.
func Run(ctx context.Context, led Toggler, period time.Duration) {
	if period <= 0 {
		period = 500 * time.Millisecond
	}
	t := time.NewTicker(period)
	defer t.Stop()
	defer func() {
		_ = led.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// A failed toggle is not worth stopping for; the next
			// tick retries.
			_ = led.Toggle()
		}
	}
}
