// Package nmea reassembles and parses NMEA 0183 sentences from a raw byte
// stream. It intentionally handles only the RMC and GGA sentences a basic
// positioning receiver emits and mirrors the tolerant, positional parsing of
// the receiver firmware it replaces: empty fields keep the previous value,
// truncated sentences stop the field walk early, and a non-hex checksum
// character decodes as zero.
package nmea

// Fix is the most recently parsed position report. Time and date hold
// whatever the last accepted RMC carried (UTC as received, local once the
// timezone engine has run); Year is the receiver's 2-digit year.
//
// A Fix is mutated field by field during parsing and must be committed to
// readers as one group per accepted sentence.
type Fix struct {
	Hour   int
	Minute int
	Second int

	Day   int
	Month int
	Year  int

	// Signed decimal degrees; south and west are negative.
	Latitude  float64
	Longitude float64

	// Valid reports whether the receiver had an active position solution
	// in the last RMC ("A" status).
	Valid bool

	Satellites int
}
