// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package flash

import (
	"fmt"

	"github.com/flashcart/hm05/internal/colorlog"
)

// SST-family command addresses and opcodes.
const (
	addrUnlock1 uint32 = 0xAAA
	addrUnlock2 uint32 = 0x555

	cmdUnlock1 byte = 0xAA
	cmdUnlock2 byte = 0x55

	cmdChipID    byte = 0x90
	cmdCFIQuery  byte = 0x98
	cmdExitRead  byte = 0xF0
	cmdProgram   byte = 0xA0
	cmdEraseStep byte = 0x80
	cmdEraseSect byte = 0x30
)

// Chip carries the command layer on top of a Transport, plus the identity
// and geometry discovered by ChipID/CFIQuery.
type Chip struct {
	t *Transport

	Manufacturer, Device, Extra byte
	CFI                         CFIQuery
	Regions                     []BlockRegion
	BiggestBlockSizeBytes       uint32
}

// NewChip wraps an already-powered Transport.
func NewChip(t *Transport) *Chip {
	return &Chip{t: t}
}

// Transport returns the Transport this Chip issues commands over, for
// callers that need raw read access outside the command protocol (the ROM
// Engine's block read/verify loops).
func (c *Chip) Transport() *Transport {
	return c.t
}

// unlock enqueues the two-cycle unlock prefix every non-read command begins
// with: 0xAAA<-0xAA, 0x555<-0x55.
func (c *Chip) unlock() {
	c.t.WriteByte(addrUnlock1, cmdUnlock1)
	c.t.WriteByte(addrUnlock2, cmdUnlock2)
}

// ChipID issues the unlock + 0x90 sequence and reads back the three
// identity bytes from addresses 0x00..0x02, validating against the
// supported SST39VF168X manufacturer/device pair (0xBF/0xC8).
func (c *Chip) ChipID() error {
	c.unlock()
	c.t.WriteByte(addrUnlock1, cmdChipID)
	if err := c.t.Flush(); err != nil {
		return err
	}

	var id [3]byte
	if err := c.t.ReadBytes(0, id[:], 3, false); err != nil {
		return err
	}
	c.Manufacturer, c.Device, c.Extra = id[0], id[1], id[2]
	if c.Manufacturer != 0xBF || c.Device != 0xC8 {
		return &IdentityError{Manufacturer: c.Manufacturer, Device: c.Device}
	}
	return nil
}

// CFIQueryCmd issues the unlock + 0x98 sequence, reads the CFI structure
// from 0x10 and the erase-block-region table from 0x2D, validates them, and
// logs the discovered erase-block size in both raw and MiB-scaled form.
func (c *Chip) CFIQueryCmd(log *colorlog.Logger) error {
	c.unlock()
	c.t.WriteByte(addrUnlock1, cmdCFIQuery)
	if err := c.t.Flush(); err != nil {
		return err
	}

	var raw [cfiStructSize]byte
	if err := c.t.ReadBytes(0x10, raw[:], cfiStructSize, false); err != nil {
		return err
	}
	cfi, err := parseCFIQuery(raw[:])
	if err != nil {
		return err
	}
	c.CFI = cfi

	regions := make([]byte, int(cfi.NumEraseBlockRegions)*4)
	if err := c.t.ReadBytes(0x2D, regions, len(regions), false); err != nil {
		return err
	}
	c.Regions = parseBlockRegions(regions, int(cfi.NumEraseBlockRegions))

	var sum uint64
	for _, r := range c.Regions {
		sum += uint64(r.TotalBytes())
	}
	if want := uint64(1) << cfi.DeviceSize; sum != want {
		return &CFIError{Reason: fmt.Sprintf("region table totals %d bytes, want %d (1<<device_size)", sum, want)}
	}

	var biggest uint32
	for _, r := range c.Regions {
		if sz := r.SizeBytes(); sz > biggest {
			biggest = sz
		}
	}
	c.BiggestBlockSizeBytes = biggest
	log.Infof("biggest erase block: %d bytes (%.2f MiB)", biggest, float64(biggest)/(1<<20))
	return nil
}

// ExitToRead issues the unlock + 0xF0 sequence, restoring read-array mode.
// ChipID and CFIQueryCmd must each be followed by this before any further
// read-array operation.
func (c *Chip) ExitToRead() error {
	c.unlock()
	c.t.WriteByte(addrUnlock1, cmdExitRead)
	return c.t.Flush()
}

// QueueProgramByte enqueues the unlock + 0xA0 + addr<-data sequence without
// flushing. data is bit-reversed before it reaches the wire, compensating
// for the cartridge's data-bus wiring; callers pass data in natural
// (un-reversed) form. Callers programming a whole window batch every byte
// through this and issue a single Transport().Flush() at the end, rather
// than a flush+assert-empty+sleep per byte.
func (c *Chip) QueueProgramByte(addr uint32, data byte) {
	c.unlock()
	c.t.WriteByte(addrUnlock1, cmdProgram)
	c.t.WriteByte(addr, reverseByte(data))
}

// ProgramByte issues the unlock + 0xA0 + addr<-data sequence and flushes
// immediately. For programming a whole window, prefer QueueProgramByte
// batched with a single trailing flush.
func (c *Chip) ProgramByte(addr uint32, data byte) error {
	c.QueueProgramByte(addr, data)
	return c.t.Flush()
}

// SectorErase issues the six-cycle sector-erase sequence: the unlock
// prefix, then 0xAAA<-0x80, 0xAAA<-0xAA, 0x555<-0x55, addr<-0x30.
func (c *Chip) SectorErase(addr uint32) error {
	c.unlock()
	c.t.WriteByte(addrUnlock1, cmdEraseStep)
	c.unlock()
	c.t.WriteByte(addr, cmdEraseSect)
	return c.t.Flush()
}
