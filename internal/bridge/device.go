// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bridge

// Device is the Transport Adapter seam over the bridge driver.
//
// It intentionally exposes only what the MPSSE Engine needs: raw,
// non-blocking I/O and the handful of USB-level knobs the bring-up sequence
// touches. Implementations must transmit all of b on Write, and Read must
// never block longer than the configured latency timer.
type Device interface {
	// Reset resets the USB device, purging any pending read buffer.
	Reset() error
	// SetChunkSizes sets the driver-side read/write chunk sizes in bytes.
	SetChunkSizes(read, write int) error
	// SetChars disables (or sets) the event and error characters.
	SetChars(event byte, eventEnable bool, err byte, errEnable bool) error
	// SetLatencyTimer sets the latency timer in milliseconds.
	SetLatencyTimer(ms byte) error
	// SetFlowControl enables RTS/CTS hardware flow control.
	SetFlowControl() error
	// SetBitMode sets the pin direction mask and the bit-mode (0 reset, 2 MPSSE).
	SetBitMode(mask byte, mode byte) error

	// Write blocks until all of b has been transmitted.
	Write(b []byte) (int, error)
	// Read returns up to len(b) bytes currently available, without blocking
	// beyond the latency window. It may return 0 bytes with a nil error.
	Read(b []byte) (int, error)

	// Close releases the underlying USB handle.
	Close() error
}

// Opener opens a Device matching the given USB vendor/product IDs.
type Opener func(vendor, product uint16) (Device, error)
