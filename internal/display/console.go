// Package display renders the current fix to the console at a fixed cadence,
// standing in for the little LCD of the original build: a data line when the
// fix is live, a banner when the receiver is silent or has no solution, and
// a spinner that proves the loop itself is turning.
package display

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ilneill/R4-GPS-DataParsing/internal/gps"
)

var spinner = [...]byte{'|', '/', '-', '\\'}

// FixSource is the narrow read-only view the console consumes.
type FixSource interface {
	Snapshot() gps.Snapshot
}

type Console struct {
	src    FixSource
	out    io.Writer
	period time.Duration
	beat   int
}

func NewConsole(src FixSource, out io.Writer, period time.Duration) *Console {
	if period <= 0 {
		period = time.Second
	}
	return &Console{src: src, out: out, period: period}
}

// Run prints one line per period until ctx is done.
func (c *Console) Run(ctx context.Context) {
	t := time.NewTicker(c.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fmt.Fprintln(c.out, c.renderLine())
		}
	}
}

// renderLine builds one status line from the current snapshot.
func (c *Console) renderLine() string {
	snap := c.src.Snapshot()
	beat := spinner[c.beat%len(spinner)]
	c.beat++

	switch {
	case snap.Stale:
		return fmt.Sprintf("%c  -- no GPS data --  (checksum_errors=%d overflows=%d)",
			beat, snap.ChecksumErrors, snap.OverflowEvents)
	case !snap.Valid:
		return fmt.Sprintf("%c  -- no GPS signal --  %02d:%02d:%02d",
			beat, snap.Hour, snap.Minute, snap.Second)
	default:
		return fmt.Sprintf("%c  %02d:%02d:%02d %02d/%02d/%02d  lat=%+09.5f lon=%+010.5f  sats=%d",
			beat, snap.Hour, snap.Minute, snap.Second,
			snap.Day, snap.Month, snap.Year,
			snap.LatDeg, snap.LonDeg, snap.Satellites)
	}
}
