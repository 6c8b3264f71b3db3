//go:build !linux

package gps

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// openSerial opens the device 8N1 through the portable serial backend.
func openSerial(path string, baud int) (io.ReadCloser, error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Bounded reads keep the producer responsive to shutdown.
	if err := port.SetReadTimeout(time.Second); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return port, nil
}
