package nmea

import (
	"bytes"
	"strconv"
)

// SentenceKind identifies which recognized sentence a payload carried.
type SentenceKind int

const (
	// KindIgnored marks a sentence type this parser does not consume.
	// Receivers emit many such types; ignoring them is not an error.
	KindIgnored SentenceKind = iota
	KindRMC
	KindGGA
)

// Apply parses an accepted payload into fix. Fields are walked positionally
// with a 1-based counter following the sentence identifier; an empty field
// (two consecutive commas) leaves the corresponding fix value untouched, and
// a truncated sentence stops the walk early. Both are deliberate receiver
// tolerances carried over from the original firmware: a sporadically omitted
// field can leave a stale value in place across cycles.
func Apply(fix *Fix, payload []byte) SentenceKind {
	fields := fieldScanner{buf: payload}
	id, _ := fields.next()
	switch {
	case bytes.Equal(id, []byte("GPRMC")):
		applyRMC(fix, &fields)
		return KindRMC
	case bytes.Equal(id, []byte("GPGGA")):
		applyGGA(fix, &fields)
		return KindGGA
	}
	return KindIgnored
}

// RMC: Recommended Minimum Specific GNSS Data. Fields past the identifier:
//
//	1: UTC time hhmmss(.sss)
//	2: status (A=active)
//	3: latitude ddmm.mmmm
//	4: N/S
//	5: longitude dddmm.mmmm
//	6: E/W
//	9: date ddmmyy
func applyRMC(fix *Fix, fields *fieldScanner) {
	for n := 1; ; n++ {
		f, ok := fields.next()
		if !ok {
			return
		}
		if len(f) == 0 {
			continue
		}
		switch n {
		case 1:
			// Fixed 6-digit prefix, decoded digit by digit; any
			// fractional seconds are ignored.
			if len(f) >= 6 {
				fix.Hour = digits2(f[0], f[1])
				fix.Minute = digits2(f[2], f[3])
				fix.Second = digits2(f[4], f[5])
			}
		case 2:
			fix.Valid = f[0] == 'A'
		case 3:
			if v, ok := parseCoord(f, 2); ok {
				fix.Latitude = v
			}
		case 4:
			if f[0] == 'S' {
				fix.Latitude = -fix.Latitude
			}
		case 5:
			if v, ok := parseCoord(f, 3); ok {
				fix.Longitude = v
			}
		case 6:
			if f[0] == 'W' {
				fix.Longitude = -fix.Longitude
			}
		case 9:
			if len(f) >= 6 {
				fix.Day = digits2(f[0], f[1])
				fix.Month = digits2(f[2], f[3])
				fix.Year = digits2(f[4], f[5])
			}
			return
		}
	}
}

// GGA: GPS Fix Data. Only field 7 (satellites in use) is consumed, and it is
// committed only while the last RMC reported an active solution; without one
// the count is forced to zero no matter what the field says.
func applyGGA(fix *Fix, fields *fieldScanner) {
	for n := 1; ; n++ {
		f, ok := fields.next()
		if !ok {
			break
		}
		if n == 7 {
			if fix.Valid && len(f) > 0 {
				fix.Satellites = tolerantAtoi(f)
			}
			break
		}
	}
	if !fix.Valid {
		fix.Satellites = 0
	}
}

// fieldScanner walks comma-delimited fields as views over the record buffer.
type fieldScanner struct {
	buf []byte
	pos int
}

func (s *fieldScanner) next() ([]byte, bool) {
	if s.pos > len(s.buf) {
		return nil, false
	}
	rest := s.buf[s.pos:]
	comma := bytes.IndexByte(rest, ',')
	if comma < 0 {
		s.pos = len(s.buf) + 1
		return rest, true
	}
	s.pos += comma + 1
	return rest[:comma], true
}

// parseCoord decodes ddmm.mmmm (degDigits=2, latitude) or dddmm.mmmm
// (degDigits=3, longitude): the leading digits are whole degrees, the
// remainder is minutes including any fraction.
func parseCoord(f []byte, degDigits int) (float64, bool) {
	if len(f) <= degDigits {
		return 0, false
	}
	deg := 0
	for _, c := range f[:degDigits] {
		if c < '0' || c > '9' {
			return 0, false
		}
		deg = deg*10 + int(c-'0')
	}
	min, err := strconv.ParseFloat(string(f[degDigits:]), 64)
	if err != nil {
		return 0, false
	}
	return float64(deg) + min/60.0, true
}

// tolerantAtoi parses a small decimal count, tolerating leading zeros.
// Non-numeric content parses to zero.
func tolerantAtoi(f []byte) int {
	n := 0
	for _, c := range f {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func digits2(hi, lo byte) int {
	return int(hi-'0')*10 + int(lo-'0')
}
