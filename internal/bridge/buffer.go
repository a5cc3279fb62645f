// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bridge

import "time"

// outBufferCapacity is the 4 MiB outbound staging buffer capacity.
const outBufferCapacity = 4 * 1024 * 1024

// drainChunkSize is the scratch buffer size used by drainIn.
const drainChunkSize = 1024

// stageBuffer is the Framed Writer: an append-only queue of outbound MPSSE
// bytes, flushed as a whole to the Transport Adapter.
//
// pos never exceeds outBufferCapacity between flushes; enqueue panics on
// overflow since that represents a command schedule bug, not a recoverable
// runtime condition.
type stageBuffer struct {
	dev Device
	buf [outBufferCapacity]byte
	pos int
}

func newStageBuffer(dev Device) *stageBuffer {
	return &stageBuffer{dev: dev}
}

// enqueue appends b to the staging buffer.
func (s *stageBuffer) enqueue(b ...byte) {
	if s.pos+len(b) > len(s.buf) {
		panic("bridge: outbound staging buffer overflow")
	}
	s.pos += copy(s.buf[s.pos:], b)
}

// flush writes the whole staged queue to the transport, sleeps one latency
// tick plus 1ms to let the chip settle, and empties the queue.
//
// flush is a no-op (and does not sleep) when nothing is staged.
func (s *stageBuffer) flush(latency time.Duration) error {
	if s.pos == 0 {
		return nil
	}
	if _, err := s.dev.Write(s.buf[:s.pos]); err != nil {
		return err
	}
	s.pos = 0
	time.Sleep(latency + time.Millisecond)
	return nil
}

// drainIn performs non-blocking reads of up to drainChunkSize bytes until a
// read returns zero bytes, returning the total number of bytes drained.
//
// total is a plain int rather than a byte, so a drain of more than 255
// unexpected bytes is still counted exactly.
func drainIn(dev Device) (int, error) {
	var scratch [drainChunkSize]byte
	total := 0
	for {
		n, err := dev.Read(scratch[:])
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		total += n
	}
}

// assertInBufferEmpty drains the inbound queue and fails if anything came
// back: used after every write-only command to detect desynchronization.
func assertInBufferEmpty(dev Device) error {
	n, err := drainIn(dev)
	if err != nil {
		return err
	}
	if n != 0 {
		return &OutOfSyncError{Drained: n}
	}
	return nil
}

// readSync loops raw reads, advancing a cursor, until exactly len(dst) bytes
// have arrived. There is no timeout beyond the transport's own; a stuck
// device hangs the call.
func readSync(dev Device, dst []byte) error {
	offset := 0
	for offset != len(dst) {
		n, err := dev.Read(dst[offset:])
		if err != nil {
			return err
		}
		offset += n
	}
	return nil
}
