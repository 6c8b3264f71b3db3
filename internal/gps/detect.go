package gps

import (
	"sort"
	"strings"

	"go.bug.st/serial"
)

// autoDetectDevice picks the first enumerated USB-style serial port. USB CDC
// ports (ttyACM) are preferred over USB-UART bridges (ttyUSB); built-in
// consoles are never chosen.
func autoDetectDevice() string {
	ports, err := serial.GetPortsList()
	if err != nil {
		return ""
	}
	sort.Strings(ports)
	for _, prefix := range []string{"/dev/ttyACM", "/dev/ttyUSB", "COM"} {
		for _, p := range ports {
			if strings.HasPrefix(p, prefix) {
				return p
			}
		}
	}
	return ""
}
