//go:build linux

package heartbeat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// OpenLED requests the given BCM GPIO as a digital output via the GPIO
// character device. On a Pi, header GPIOs carry line names like "GPIO18";
// gpiochip0 is tried first, then anything else under /dev.
func OpenLED(pin int) (Toggler, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("heartbeat: invalid gpio pin %d", pin)
	}
	lineName := fmt.Sprintf("GPIO%d", pin)

	chipCandidates := []string{"/dev/gpiochip0"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", e.Name()))
		}
	}

	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("r4gps-heartbeat"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &gpioLED{chip: chip, line: line}, nil
	}

	return nil, fmt.Errorf("heartbeat: gpio line %q not found (or busy)", lineName)
}

type gpioLED struct {
	chip  *gpiocdev.Chip
	line  *gpiocdev.Line
	state int
}

func (l *gpioLED) Toggle() error {
	if l == nil || l.line == nil {
		return fmt.Errorf("heartbeat: led not initialized")
	}
	l.state ^= 1
	return l.line.SetValue(l.state)
}

func (l *gpioLED) Close() error {
	if l == nil || l.line == nil {
		return nil
	}
	// Leave the LED off on shutdown.
	_ = l.line.SetValue(0)
	err := l.line.Close()
	l.line = nil
	if l.chip != nil {
		_ = l.chip.Close()
		l.chip = nil
	}
	return err
}
