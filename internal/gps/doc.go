// Package gps runs the acquisition pipeline for a serial NMEA receiver:
//
//	byte source -> ring buffer -> framer -> checksum -> field parse -> fix
//
// A producer goroutine stands in for the receive interrupt of the original
// firmware and pushes raw bytes into the ring buffer; the consumer loop
// drains it, reassembles sentences, validates checksums and commits the
// parsed fix as one snapshot per accepted sentence. Nothing in the loop is
// fatal: a garbled or disconnected receiver only degrades the exposed fix's
// freshness and validity.
package gps
