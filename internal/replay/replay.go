// Package replay paces a recorded raw NMEA capture back into the pipeline.
//
// Log format: line-oriented text, one sentence per line as received from the
// receiver. Blank lines and lines starting with '#' are ignored. Lines are
// emitted with CRLF framing at a fixed interval regardless of how they were
// terminated in the capture.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Reader struct {
	lines    []string
	interval time.Duration
	loop     bool

	mu       sync.Mutex
	next     int
	pending  []byte
	done     chan struct{}
	stopOnce sync.Once
}

// Open loads the whole capture up front; replay files are small and this
// keeps Read free of file errors.
func Open(path string, interval time.Duration, loop bool) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 256), 64*1024)

	var lines []string
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("replay: no sentences in %s", path)
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Reader{
		lines:    lines,
		interval: interval,
		loop:     loop,
		done:     make(chan struct{}),
	}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		if r.next >= len(r.lines) {
			if !r.loop {
				return 0, io.EOF
			}
			r.next = 0
		}
		select {
		case <-r.done:
			return 0, io.EOF
		case <-time.After(r.interval):
		}
		r.pending = append(r.pending, r.lines[r.next]...)
		r.pending = append(r.pending, '\r', '\n')
		r.next++
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *Reader) Close() error {
	r.stopOnce.Do(func() { close(r.done) })
	return nil
}
