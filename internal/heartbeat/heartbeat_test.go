package heartbeat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingLED struct {
	toggles atomic.Int64
	closed  atomic.Bool
}

func (c *countingLED) Toggle() error {
	c.toggles.Add(1)
	return nil
}

func (c *countingLED) Close() error {
	c.closed.Store(true)
	return nil
}

func TestRun_TogglesUntilCancelled(t *testing.T) {
	led := &countingLED{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Run(ctx, led, time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for led.toggles.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if led.toggles.Load() < 3 {
		t.Fatalf("toggles=%d want >=3", led.toggles.Load())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
	if !led.closed.Load() {
		t.Fatalf("expected LED closed on exit")
	}
}
