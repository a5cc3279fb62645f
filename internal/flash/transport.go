// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package flash

import (
	"time"

	"github.com/flashcart/hm05/internal/bridge"
)

// readChunkSize bounds a single read_flash burst: the bridge's receive FIFO
// is small and a larger request wedges the write channel.
const readChunkSize = 256

// addrWriteFlag marks byte 0 of a 4-byte write frame as a write cycle,
// consumed by the cartridge-side address latch.
const addrWriteFlag = 0x80

// Transport drives address-latched byte I/O over a bridge.Engine.
type Transport struct {
	eng *bridge.Engine
}

// NewTransport wraps an already-opened, powered engine.
func NewTransport(eng *bridge.Engine) *Transport {
	return &Transport{eng: eng}
}

// WriteByte latches addr and clocks out data in one 4-byte frame, without
// flushing. Callers batch multiple WriteByte calls before Flush.
func (t *Transport) WriteByte(addr uint32, data byte) {
	frame := [4]byte{
		byte((addr>>16)&0x1F) | addrWriteFlag,
		byte(addr >> 8),
		byte(addr),
		data,
	}
	t.eng.ClockOut(frame[:])
}

// enqueueReadAddr latches addr for a read cycle, without the write flag.
func (t *Transport) enqueueReadAddr(addr uint32) {
	frame := [3]byte{
		byte((addr >> 16) & 0x1F),
		byte(addr >> 8),
		byte(addr),
	}
	t.eng.ClockOut(frame[:])
}

// Flush pushes any batched WriteByte calls to the bridge, asserts the
// inbound queue stayed empty, and sleeps 1ms for the command to take
// effect, matching the write-side command discipline: enqueue, flush,
// assert-empty, sleep.
func (t *Transport) Flush() error {
	if err := t.eng.Flush(); err != nil {
		return err
	}
	if err := t.eng.AssertEmpty(); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	return nil
}

// ReadBytes reads n bytes starting at addr into dst[:n], bracketing the
// burst with chip-select low and chunking to readChunkSize. If reverse,
// every returned byte is bit-reversed before storage, compensating for the
// cartridge's data-bus wiring.
func (t *Transport) ReadBytes(addr uint32, dst []byte, n int, reverse bool) error {
	if err := t.eng.PowerOn(); err != nil {
		return err
	}
	if err := t.eng.SetCS(false); err != nil {
		return err
	}
	defer t.eng.SetCS(true)

	read := 0
	for read < n {
		chunk := n - read
		if chunk > readChunkSize {
			chunk = readChunkSize
		}
		for i := 0; i < chunk; i++ {
			t.enqueueReadAddr(addr + uint32(read+i))
			t.eng.ClockIn(1)
		}
		if err := t.eng.ForceSend(); err != nil {
			return err
		}
		if err := t.eng.ReadSync(dst[read : read+chunk]); err != nil {
			return err
		}
		if reverse {
			reverseBytes(dst[read : read+chunk])
		}
		read += chunk
	}
	return nil
}
