//go:build !deadlock

// Package syncutil provides mutex types that can optionally run with
// deadlock detection. The default build uses plain sync mutexes with zero
// overhead; build with -tags=deadlock to swap in github.com/sasha-s/go-deadlock.
package syncutil

import "sync"

// Mutex wraps sync.Mutex.
type Mutex struct {
	sync.Mutex
}

// RWMutex wraps sync.RWMutex.
type RWMutex struct {
	sync.RWMutex
}
