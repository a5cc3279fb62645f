// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bridge

// MPSSE opcodes actually used by this protocol, scoped down to only what
// cartridge bring-up and the flash transport drive.
const (
	opClockedByteOut byte = 0x11 // <op>, <lenL-1>, <lenH-1>, data...
	opClockedByteIn  byte = 0x24 // <op>, <lenL-1>, <lenH-1>

	opSetLowBits byte = 0x80 // <op>, <value>, <direction>

	opLoopbackEnable  byte = 0x84
	opLoopbackDisable byte = 0x85

	opClockSetDivisor byte = 0x86 // <op>, <divL-1>, <divH-1>
	opClockDisable5x  byte = 0x8A // optional clock-tuning opcode, never emitted
	opClock3Phase     byte = 0x8C // unused on the target hardware
	opClock2Phase     byte = 0x8D // optional clock-tuning opcode, never emitted
	opClockAdaptive   byte = 0x96 // unused on the target hardware
	opClockNormal     byte = 0x97 // optional clock-tuning opcode, never emitted

	opForceSend byte = 0x87
)

// Low-byte pin bitmap (ADBUS).
const (
	pinCLK        byte = 1 << 0 // out, driven by clocked-byte opcodes
	pinDO         byte = 1 << 1 // out, driven by clocked-byte opcodes
	pinDI         byte = 1 << 2 // in
	pinCS         byte = 1 << 3 // out, active-low chip select
	pinPowerCtrl  byte = 1 << 4 // out, active-low cartridge power
	pinIsPowerOn  byte = 1 << 7 // in
	lowDirMask    byte = 0x1B  // CLK, DO, CS, POWER_CTRL are outputs; DI and IS_POWER_ON are inputs
	defaultClock  byte = 0x01  // default clock divisor low byte (~3MHz on a 12MHz base part)
	defaultClockH byte = 0x00
)
