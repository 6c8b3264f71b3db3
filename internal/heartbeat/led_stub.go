//go:build !linux

package heartbeat

import "fmt"

func OpenLED(pin int) (Toggler, error) {
	return nil, fmt.Errorf("heartbeat: gpio not supported on this platform")
}
