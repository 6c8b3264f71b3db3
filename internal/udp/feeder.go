// Package udp forwards accepted NMEA sentences to a UDP destination, the
// usual way moving-map and logging tools take a raw position feed.
package udp

import (
	"fmt"
	"net"
)

type Feeder struct {
	dest string
	conn *net.UDPConn
}

func NewFeeder(dest string) (*Feeder, error) {
	addr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve dest: %w", err)
	}

	// DialUDP selects a suitable local address automatically.
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}

	return &Feeder{dest: dest, conn: conn}, nil
}

// Send forwards one sentence in wire framing. Losing a datagram is as
// acceptable as losing a serial byte; the caller never retries.
func (f *Feeder) Send(line []byte) error {
	if len(line) == 0 {
		return nil
	}
	_, err := f.conn.Write(line)
	return err
}

func (f *Feeder) Close() error {
	if f.conn == nil {
		return nil
	}
	return f.conn.Close()
}
