// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bridge

import (
	"time"

	"periph.io/x/conn/v3/physic"
)

// Config bundles the bring-up knobs the MPSSE Engine applies to the
// Transport Adapter.
type Config struct {
	Vendor       uint16
	Product      uint16
	LatencyMS    byte
	ClockDivisor [2]byte // little-endian, default {0x01, 0x00}
}

// DefaultConfig returns the bring-up defaults for an SST39VF168X cartridge
// on an FT2232H-class bridge.
func DefaultConfig() Config {
	return Config{
		Vendor:       0x0403,
		Product:      0x6010,
		LatencyMS:    2,
		ClockDivisor: [2]byte{defaultClock, defaultClockH},
	}
}

// Engine is the stateful MPSSE controller: it performs bring-up,
// manages the low-byte pin register, and exposes clocked byte I/O.
type Engine struct {
	cfg Config
	dev Device
	out *stageBuffer

	lowDataBits byte
	mpsseReady  bool
	poweredOn   bool
}

// Open opens dev (already obtained from an Opener) and performs the full
// bring-up sequence through clock-divisor programming. Any failure is
// fatal and the device is closed before returning.
func Open(dev Device, cfg Config) (*Engine, error) {
	e := &Engine{cfg: cfg, dev: dev, out: newStageBuffer(dev)}
	if err := e.bringUp(); err != nil {
		_ = dev.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) latency() time.Duration {
	return time.Duration(e.cfg.LatencyMS) * time.Millisecond
}

// bringUp performs step 1 (USB-level setup), step 2 (bad-command sync
// probe), and step 3 (clock divisor).
func (e *Engine) bringUp() error {
	if err := e.dev.Reset(); err != nil {
		return err
	}
	if err := e.dev.SetChunkSizes(64*1024, 64*1024); err != nil {
		return err
	}
	if err := e.dev.SetChars(0, false, 0, false); err != nil {
		return err
	}
	if err := e.dev.SetLatencyTimer(e.cfg.LatencyMS); err != nil {
		return err
	}
	if err := e.dev.SetFlowControl(); err != nil {
		return err
	}
	if err := e.dev.SetBitMode(0x00, 0x00); err != nil {
		return err
	}
	if err := e.dev.SetBitMode(0x00, 0x02); err != nil {
		return err
	}

	if err := e.syncProbe(); err != nil {
		return err
	}

	e.out.enqueue(opClockSetDivisor, e.cfg.ClockDivisor[0], e.cfg.ClockDivisor[1])
	if err := e.out.flush(e.latency()); err != nil {
		return err
	}
	traceClockSet(e.cfg.ClockDivisor)

	time.Sleep(10 * time.Millisecond)
	e.mpsseReady = true
	return nil
}

// syncProbe is the bad-command synchronization probe used to detect a
// desynchronized bridge.
func (e *Engine) syncProbe() error {
	e.out.enqueue(opLoopbackEnable)
	if err := e.out.flush(e.latency()); err != nil {
		return err
	}
	if err := assertInBufferEmpty(e.dev); err != nil {
		return err
	}

	e.out.enqueue(0xAB) // deliberate invalid opcode
	if err := e.out.flush(e.latency()); err != nil {
		return err
	}
	var reply [2]byte
	if err := readSync(e.dev, reply[:]); err != nil {
		return err
	}
	traceSyncReply(reply)
	if reply[0] != 0xFA || reply[1] != 0xAB {
		return &SyncError{Got: reply}
	}

	e.out.enqueue(opLoopbackDisable)
	if err := e.out.flush(e.latency()); err != nil {
		return err
	}
	return assertInBufferEmpty(e.dev)
}

// setLowBits emits {0x80, value, lowDirMask} and flushes, updating the
// shadow register.
func (e *Engine) setLowBits(value byte) error {
	e.out.enqueue(opSetLowBits, value, lowDirMask)
	if err := e.out.flush(e.latency()); err != nil {
		return err
	}
	e.lowDataBits = value
	traceLowBits(value)
	return nil
}

// SetCS toggles the chip-select bit and sleeps 1ms for settling. Exposed so
// higher layers (the flash command protocol) can bracket multi-byte bursts
// without cycling power.
func (e *Engine) SetCS(high bool) error {
	return e.setCS(high)
}

// setCS is the unexported implementation shared by SetCS and PowerOn/PowerOff.
func (e *Engine) setCS(high bool) error {
	v := e.lowDataBits
	if high {
		v |= pinCS
	} else {
		v &^= pinCS
	}
	if err := e.setLowBits(v); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	return nil
}

// PowerOn brings the cartridge out of reset: CS high, then clear the
// active-low POWER_CTRL bit, then CS low.
func (e *Engine) PowerOn() error {
	if e.poweredOn {
		return nil
	}
	if err := e.setCS(true); err != nil {
		return err
	}
	v := e.lowDataBits &^ pinPowerCtrl
	if err := e.setLowBits(v); err != nil {
		return err
	}
	if err := e.setCS(false); err != nil {
		return err
	}
	e.poweredOn = true
	return nil
}

// PowerOff sets the active-low POWER_CTRL bit high, de-energizing the
// cartridge.
func (e *Engine) PowerOff() error {
	if err := e.setLowBits(e.lowDataBits | pinPowerCtrl); err != nil {
		return err
	}
	e.poweredOn = false
	return nil
}

// PoweredOn reports whether the last successful power transition left the
// cartridge energized.
func (e *Engine) PoweredOn() bool { return e.poweredOn }

// Ready reports whether bring-up's sync probe has succeeded.
func (e *Engine) Ready() bool { return e.mpsseReady }

// ClockOut enqueues a clocked-byte-out (0x11) command for data, without
// flushing. Callers batch multiple ClockOut/ClockIn calls before ForceSend.
func (e *Engine) ClockOut(data []byte) {
	l := len(data)
	e.out.enqueue(opClockedByteOut, byte(l-1), byte((l-1)>>8))
	e.out.enqueue(data...)
}

// ClockIn enqueues a clocked-byte-in (0x24) request for n bytes, without
// flushing or reading the reply; callers must ForceSend + read_sync(n)
// afterward.
func (e *Engine) ClockIn(n int) {
	e.out.enqueue(opClockedByteIn, byte(n-1), byte((n-1)>>8))
}

// ForceSend enqueues the 0x87 opcode that makes the bridge transmit its
// current read FIFO upstream immediately, then flushes.
func (e *Engine) ForceSend() error {
	e.out.enqueue(opForceSend)
	return e.out.flush(e.latency())
}

// Flush flushes the staging buffer without enqueuing ForceSend.
func (e *Engine) Flush() error {
	return e.out.flush(e.latency())
}

// AssertEmpty drains and asserts the inbound queue is empty, used after
// every write-only flash command.
func (e *Engine) AssertEmpty() error {
	return assertInBufferEmpty(e.dev)
}

// ReadSync loops raw reads until exactly len(dst) bytes have arrived.
func (e *Engine) ReadSync(dst []byte) error {
	return readSync(e.dev, dst)
}

// SetClock reprograms the clock divisor from a target frequency, using
// periph's physic.Frequency against this bridge's 12MHz base clock (the
// 60MHz master clock with the divide-by-5 prescaler left enabled). The
// resulting clock is base / (2 * (1 + divisor)).
func (e *Engine) SetClock(f physic.Frequency) error {
	const base = 12 * physic.MegaHertz
	div := base / (2 * f)
	if div < 1 {
		div = 1
	}
	if div > 65536 {
		div = 65536
	}
	e.cfg.ClockDivisor = [2]byte{byte(div - 1), byte((div - 1) >> 8)}
	e.out.enqueue(opClockSetDivisor, e.cfg.ClockDivisor[0], e.cfg.ClockDivisor[1])
	return e.out.flush(e.latency())
}

// Close releases the underlying Transport Adapter handle.
func (e *Engine) Close() error {
	return e.dev.Close()
}
