// Package sim emits deterministic NMEA RMC/GGA sentence pairs for running
// the acquisition pipeline without a receiver attached.
package sim

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ilneill/R4-GPS-DataParsing/internal/nmea"
)

// Receiver is an io.ReadCloser producing one RMC+GGA pair per Interval,
// tracing a circle of RadiusNm around the configured center with the given
// orbital Period. Reads block to pace output like a real serial port.
type Receiver struct {
	CenterLatDeg float64
	CenterLonDeg float64
	RadiusNm     float64
	Period       time.Duration
	Interval     time.Duration
	Satellites   int

	// Now substitutes the clock in tests.
	Now func() time.Time

	mu       sync.Mutex
	pending  []byte
	done     chan struct{}
	initOnce sync.Once
	stopOnce sync.Once
}

func (r *Receiver) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		interval := r.Interval
		if interval <= 0 {
			interval = time.Second
		}
		select {
		case <-r.doneCh():
			return 0, io.EOF
		case <-time.After(interval):
		}
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		r.pending = append(r.pending, r.sentences(now().UTC())...)
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *Receiver) Close() error {
	ch := r.doneCh()
	r.stopOnce.Do(func() { close(ch) })
	return nil
}

// doneCh lazily creates the stop channel so the zero value works.
func (r *Receiver) doneCh() chan struct{} {
	r.initOnce.Do(func() { r.done = make(chan struct{}) })
	return r.done
}

// sentences builds the wire bytes for one reporting cycle.
func (r *Receiver) sentences(now time.Time) []byte {
	lat, lon := r.position(now)
	hms := now.Format("150405")
	dmy := now.Format("020106")

	latText, latHemi := formatCoord(lat, 2, 'N', 'S')
	lonText, lonHemi := formatCoord(lon, 3, 'E', 'W')

	sats := r.Satellites
	if sats <= 0 {
		sats = 8
	}

	rmc := fmt.Sprintf("GPRMC,%s,A,%s,%c,%s,%c,000.0,000.0,%s,,", hms, latText, latHemi, lonText, lonHemi, dmy)
	gga := fmt.Sprintf("GPGGA,%s,%s,%c,%s,%c,1,%02d,0.9,545.4,M,46.9,M,,", hms, latText, latHemi, lonText, lonHemi, sats)
	return []byte(nmea.Sentence(rmc) + nmea.Sentence(gga))
}

// position traces a deterministic circle around the center; phase comes from
// wall time so restarts continue the same track.
func (r *Receiver) position(now time.Time) (latDeg, lonDeg float64) {
	period := r.Period
	if period <= 0 {
		period = 2 * time.Minute
	}
	radiusNm := r.RadiusNm
	if radiusNm <= 0 {
		radiusNm = 0.5
	}

	// ~60 NM per degree of latitude.
	radiusDeg := radiusNm / 60.0
	phase := float64(now.UnixNano()%period.Nanoseconds()) / float64(period.Nanoseconds())
	w := 2 * math.Pi * phase

	latDeg = r.CenterLatDeg + radiusDeg*math.Sin(w)
	lonDeg = r.CenterLonDeg + (radiusDeg*math.Cos(w))/math.Cos(r.CenterLatDeg*math.Pi/180.0)
	return latDeg, lonDeg
}

// formatCoord renders signed decimal degrees as the receiver would:
// ddmm.mmmm for latitude, dddmm.mmmm for longitude, plus the hemisphere.
func formatCoord(deg float64, degDigits int, pos, neg byte) (string, byte) {
	hemi := pos
	if deg < 0 {
		hemi = neg
		deg = -deg
	}
	whole := int(deg)
	minutes := (deg - float64(whole)) * 60.0
	return fmt.Sprintf("%0*d%07.4f", degDigits, whole, minutes), hemi
}
