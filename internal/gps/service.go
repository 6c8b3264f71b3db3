package gps

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ilneill/R4-GPS-DataParsing/internal/localtime"
	"github.com/ilneill/R4-GPS-DataParsing/internal/nmea"
	"github.com/ilneill/R4-GPS-DataParsing/internal/ring"
	"github.com/ilneill/R4-GPS-DataParsing/internal/syncutil"
)

// pollInterval is how long the consumer idles when the ring buffer has no
// complete sentence for it. Short enough that a 9600 baud receiver can never
// fill the ring between drains.
const pollInterval = 2 * time.Millisecond

// Config controls the acquisition service.
//
// Exactly one byte source is used: the Source reader when set, otherwise the
// serial device (auto-detected when Device is empty).
type Config struct {
	// Device is the serial device path. Empty auto-detects.
	Device string
	// Baud must be a rate the platform backend supports. 0 means 9600.
	Baud int

	// Source optionally supplies the byte stream directly (simulator,
	// replay, tests). The service owns it and closes it on Close.
	Source io.ReadCloser
	// SourceName labels Source in snapshots and logs, e.g. "sim".
	SourceName string

	// ZoneOffsetHours is the fixed local-time offset applied after every
	// parsed RMC sentence. May be negative.
	ZoneOffsetHours int

	// StaleAfter is the freshness window Snapshot uses for its Stale
	// field. Stale() takes an explicit threshold instead.
	StaleAfter time.Duration

	// RingSize is the receive queue size in bytes. 0 means ring.DefaultSize.
	RingSize int

	// OnAccepted, when set, receives a copy of every checksum-accepted
	// sentence in full wire framing (with '$' and CRLF). Called from the
	// consumer loop; must not block.
	OnAccepted func(line []byte)
}

// Snapshot is a read-only view of the latest fix and the pipeline counters.
// Fix fields are committed as one group per accepted sentence, so a reader
// never observes a half-parsed update.
type Snapshot struct {
	Source string `json:"source"`
	Device string `json:"device,omitempty"`
	Baud   int    `json:"baud,omitempty"`

	Valid bool `json:"valid"`
	Stale bool `json:"stale"`

	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
	Day    int `json:"day"`
	Month  int `json:"month"`
	Year   int `json:"year"`

	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`

	Satellites int `json:"satellites"`

	Accepted       uint64 `json:"accepted"`
	ChecksumErrors uint64 `json:"checksum_errors"`
	OverflowEvents uint64 `json:"overflow_events"`

	LastAcceptedUTC string `json:"last_accepted_utc,omitempty"`
	LastError       string `json:"last_error,omitempty"`
}

type Service struct {
	cfg  Config
	base Snapshot // static identity fields, set once in Start

	cancel context.CancelFunc
	wg     sync.WaitGroup

	rb *ring.Buffer

	last    atomic.Value // Snapshot (fix fields over base)
	lastErr atomic.Value // string

	accepted  atomic.Uint64
	rejected  atomic.Uint64
	overflows atomic.Uint64

	// Unix nanos of the last checksum accept; 0 means never.
	lastAcceptedNano atomic.Int64

	mu     syncutil.Mutex
	closer io.Closer
}

func New(cfg Config) *Service {
	if cfg.Baud == 0 {
		cfg.Baud = 9600
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = ring.DefaultSize
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 5 * time.Second
	}
	s := &Service{cfg: cfg, rb: ring.New(cfg.RingSize)}
	s.last.Store(Snapshot{})
	return s
}

func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	src := s.cfg.Source
	name := strings.TrimSpace(s.cfg.SourceName)
	if src != nil {
		if name == "" {
			name = "source"
		}
		s.base = Snapshot{Source: name}
	} else {
		device := strings.TrimSpace(s.cfg.Device)
		if device == "" {
			device = autoDetectDevice()
			if device == "" {
				s.setError("gps auto-detect failed: no serial port candidates found")
				return fmt.Errorf("gps auto-detect failed")
			}
		}
		f, err := openSerial(device, s.cfg.Baud)
		if err != nil {
			s.setError(fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, s.cfg.Baud, err))
			return fmt.Errorf("gps open device=%s: %w", device, err)
		}
		src = f
		name = "serial"
		s.base = Snapshot{Source: name, Device: device, Baud: s.cfg.Baud}
	}

	// Keep the source reference so Close() can interrupt a blocked read.
	s.closer = src
	s.last.Store(s.base)

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	log.Printf("gps enabled source=%s device=%s baud=%d zone_offset=%+d",
		name, s.base.Device, s.base.Baud, s.cfg.ZoneOffsetHours)

	s.wg.Add(2)
	go s.runProducer(childCtx, src)
	go s.runConsumer(childCtx)
	return nil
}

// runProducer stands in for the receive interrupt: it moves raw bytes from
// the source into the ring buffer and never waits on the consumer. When the
// ring is full the ring drops the byte and raises its sticky overflow flag.
func (s *Service) runProducer(ctx context.Context, src io.ReadCloser) {
	defer s.wg.Done()
	defer func() {
		_ = src.Close()
	}()

	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := src.Read(buf)
		for _, c := range buf[:n] {
			s.rb.Push(c)
		}
		if err != nil {
			if ctx.Err() == nil {
				s.setError(fmt.Sprintf("gps read stopped: %v", err))
				log.Printf("gps read stopped: %v", err)
			}
			return
		}
	}
}

// runConsumer drains the ring buffer through the framer, validates and
// parses complete sentences, and commits the fix. Every error is absorbed
// locally; the loop only exits with the context.
func (s *Service) runConsumer(ctx context.Context) {
	defer s.wg.Done()

	var framer nmea.Framer
	var fix nmea.Fix

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Read-and-clear once per iteration so a burst of dropped bytes
		// is reported as one event.
		if s.rb.TakeOverflow() {
			s.overflows.Add(1)
			log.Printf("gps rx overflow: bytes dropped before drain")
		}

		rec, ok := framer.TryExtract(s.rb)
		if !ok {
			time.Sleep(pollInterval)
			continue
		}

		payload, err := nmea.VerifyChecksum(rec)
		if err != nil {
			s.rejected.Add(1)
			s.setError(err.Error())
			log.Printf("gps sentence rejected: %v", err)
			continue
		}

		s.lastAcceptedNano.Store(time.Now().UnixNano())
		s.accepted.Add(1)

		if s.cfg.OnAccepted != nil {
			line := make([]byte, 0, len(rec)+3)
			line = append(line, '$')
			line = append(line, rec...)
			line = append(line, '\r', '\n')
			s.cfg.OnAccepted(line)
		}

		if nmea.Apply(&fix, payload) == nmea.KindRMC {
			fix.Hour, fix.Day, fix.Month, fix.Year = localtime.Shift(
				fix.Hour, fix.Day, fix.Month, fix.Year, s.cfg.ZoneOffsetHours)
		}
		s.commit(fix)
	}
}

// commit publishes the working fix as one group.
func (s *Service) commit(fix nmea.Fix) {
	snap := s.base
	snap.Valid = fix.Valid
	snap.Hour = fix.Hour
	snap.Minute = fix.Minute
	snap.Second = fix.Second
	snap.Day = fix.Day
	snap.Month = fix.Month
	snap.Year = fix.Year
	snap.LatDeg = fix.Latitude
	snap.LonDeg = fix.Longitude
	snap.Satellites = fix.Satellites
	s.last.Store(snap)
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

// Snapshot returns the latest committed fix plus pipeline counters. The
// Stale field uses the configured StaleAfter window.
func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	snap, _ := s.last.Load().(Snapshot)
	snap.Accepted = s.accepted.Load()
	snap.ChecksumErrors = s.rejected.Load()
	snap.OverflowEvents = s.overflows.Load()
	if msg, ok := s.lastErr.Load().(string); ok {
		snap.LastError = msg
	}
	snap.Stale = s.Stale(time.Now(), s.cfg.StaleAfter)
	if t := s.lastAcceptedNano.Load(); t != 0 {
		snap.LastAcceptedUTC = time.Unix(0, t).UTC().Format(time.RFC3339Nano)
	}
	return snap
}

// Stale reports whether no sentence has passed checksum validation within
// threshold of now. A service that has never accepted anything is stale.
func (s *Service) Stale(now time.Time, threshold time.Duration) bool {
	t := s.lastAcceptedNano.Load()
	if t == 0 {
		return true
	}
	return now.Sub(time.Unix(0, t)) > threshold
}

func (s *Service) setError(msg string) {
	s.lastErr.Store(msg)
}
