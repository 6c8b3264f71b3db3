package nmea

import (
	"bytes"
	"fmt"
)

// VerifyChecksum splits a framed record (no leading '$', no trailing
// terminator) into payload and transmitted checksum and verifies the XOR
// reduction. It returns the payload on acceptance.
//
// The record is split on the first '*'. The two characters after it decode
// as case-insensitive hex; a non-hex character decodes to zero, matching the
// receiver-side decoder this replaces.
func VerifyChecksum(rec []byte) ([]byte, error) {
	star := bytes.IndexByte(rec, '*')
	if star < 0 {
		return nil, fmt.Errorf("nmea: missing checksum delimiter")
	}
	payload := rec[:star]
	ck := rec[star+1:]
	if len(ck) < 2 {
		return nil, fmt.Errorf("nmea: short checksum")
	}
	want := hexNibble(ck[0])<<4 | hexNibble(ck[1])
	got := Checksum(payload)
	if got != want {
		return nil, fmt.Errorf("nmea: checksum mismatch: computed %02X, sentence says %02X", got, want)
	}
	return payload, nil
}

// Checksum is the XOR reduction of the payload bytes.
func Checksum(payload []byte) byte {
	var ck byte
	for _, c := range payload {
		ck ^= c
	}
	return ck
}

// Sentence wraps a payload in full wire framing: $<payload>*<hex checksum>\r\n.
// Used by the simulator and by tests.
func Sentence(payload string) string {
	return fmt.Sprintf("$%s*%02X\r\n", payload, Checksum([]byte(payload)))
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return 0
}
