package nmea

import "github.com/ilneill/R4-GPS-DataParsing/internal/ring"

// MaxRecordLen bounds a framed record: the NMEA 0183 sentence limit of 82
// characters minus the '$' and CRLF the framer strips, with a little slack
// for out-of-spec receivers. Records that hit the bound are completed as-is
// and will normally fail the checksum.
const MaxRecordLen = 82

// Framer reassembles discrete records from the ring buffer byte stream.
//
// A '$' always restarts accumulation, discarding any partial record. CR, LF
// or the length bound completes the record. Bytes seen before the first '$'
// are noise and are dropped.
type Framer struct {
	rec     [MaxRecordLen]byte
	cursor  int
	started bool
}

// TryExtract drains bytes available at call time and returns the first
// record completed during this call, leaving any remaining bytes queued for
// the next call. The returned slice is a view into the framer's buffer and
// is only valid until the next call.
func (f *Framer) TryExtract(rb *ring.Buffer) ([]byte, bool) {
	limit := rb.WriterIndex()
	for {
		c, ok := rb.Pop(limit)
		if !ok {
			return nil, false
		}
		switch {
		case c == '$':
			f.cursor = 0
			f.started = true
		case !f.started:
			// Noise before the start marker.
		case c == '\r' || c == '\n':
			f.started = false
			return f.rec[:f.cursor], true
		default:
			f.rec[f.cursor] = c
			f.cursor++
			if f.cursor == MaxRecordLen {
				f.started = false
				return f.rec[:f.cursor], true
			}
		}
	}
}
