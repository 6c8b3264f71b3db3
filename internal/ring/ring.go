// Package ring provides a fixed-capacity single-producer/single-consumer
// byte queue bridging the serial receive path and the sentence framer.
//
// The producer never blocks: when the queue is full the incoming byte is
// dropped and a sticky overflow flag is raised for the consumer to collect.
// One slot is always kept empty so that write==read means empty and
// (write+1)%size==read means full.
package ring

import "sync/atomic"

// DefaultSize is the queue size used when the configuration does not set one.
const DefaultSize = 512

// Buffer is safe for exactly one producer goroutine and one consumer
// goroutine. The write cursor is owned by the producer, the read cursor by
// the consumer; each side only loads the other's cursor.
type Buffer struct {
	buf      []byte
	read     atomic.Uint32
	write    atomic.Uint32
	overflow atomic.Bool
}

// New returns a buffer with the given slot count. Usable capacity is size-1.
func New(size int) *Buffer {
	if size < 2 {
		size = 2
	}
	return &Buffer{buf: make([]byte, size)}
}

// Push appends one byte. Producer side only. When the buffer is full the
// byte is dropped, the overflow flag is set and Push returns false.
func (b *Buffer) Push(c byte) bool {
	w := b.write.Load()
	next := w + 1
	if next == uint32(len(b.buf)) {
		next = 0
	}
	if next == b.read.Load() {
		b.overflow.Store(true)
		return false
	}
	b.buf[w] = c
	b.write.Store(next)
	return true
}

// WriterIndex snapshots the producer cursor for a subsequent drain. The
// single atomic load bounds how long the consumer observes producer state,
// the same way the original interrupt-driven design bounded its critical
// section to copying one index.
func (b *Buffer) WriterIndex() uint32 {
	return b.write.Load()
}

// Pop reads one byte if the read cursor has not reached limit, which must be
// a WriterIndex snapshot taken during the current drain. Consumer side only.
func (b *Buffer) Pop(limit uint32) (byte, bool) {
	r := b.read.Load()
	if r == limit {
		return 0, false
	}
	c := b.buf[r]
	r++
	if r == uint32(len(b.buf)) {
		r = 0
	}
	b.read.Store(r)
	return c, true
}

// TakeOverflow reads and clears the sticky overflow flag. Consumer side only.
func (b *Buffer) TakeOverflow() bool {
	return b.overflow.Swap(false)
}
