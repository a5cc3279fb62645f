// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rom

import "github.com/flashcart/hm05/internal/colorlog"

// ReadROM reads the whole chip into the session's ROM buffer, one block of
// BiggestBlockSizeBytes at a time, and returns a copy of the result.
// Progress is logged per block.
func (s *Session) ReadROM(log *colorlog.Logger) ([]byte, error) {
	if s.state != Ready {
		return nil, &StateError{Want: Ready, Got: s.state}
	}
	s.state = Reading

	block := int(s.Chip.BiggestBlockSizeBytes)
	total := len(s.rom)
	blocks := total / block

	t := s.Chip.Transport()
	for i := 0; i < blocks; i++ {
		addr := i * block
		if err := t.ReadBytes(uint32(addr), s.rom[addr:addr+block], block, true); err != nil {
			s.state = Faulted
			return nil, err
		}
		log.Infof("read block %d/%d (0x%06x)", i+1, blocks, addr)
	}

	out := make([]byte, total)
	copy(out, s.rom)
	s.state = Ready
	return out, nil
}

// WriteROM programs src into the chip, one block at a time: erase, program
// every byte, read back, and compare. A mismatched block is fatal and
// returns *VerificationMismatchError wrapping the block, address, and first
// differing offset — the loop does not continue past it.
func (s *Session) WriteROM(src []byte, log *colorlog.Logger) error {
	if s.state != Ready {
		return &StateError{Want: Ready, Got: s.state}
	}
	if len(src) > len(s.rom) {
		return &CapacityError{ChipBytes: uint32(len(src)), BufferBytes: uint32(len(s.rom))}
	}
	s.state = Writing

	block := int(s.Chip.BiggestBlockSizeBytes)
	blocks := (len(src) + block - 1) / block
	scratch := make([]byte, block)

	for i := 0; i < blocks; i++ {
		addr := i * block
		window := src[addr:min(addr+block, len(src))]

		if err := s.Chip.SectorErase(uint32(addr)); err != nil {
			s.state = Faulted
			return err
		}
		t := s.Chip.Transport()
		for j, b := range window {
			s.Chip.QueueProgramByte(uint32(addr+j), b)
		}
		if err := t.Flush(); err != nil {
			s.state = Faulted
			return err
		}

		if err := t.ReadBytes(uint32(addr), scratch[:len(window)], len(window), true); err != nil {
			s.state = Faulted
			return err
		}
		for j := range window {
			if scratch[j] != window[j] {
				s.state = Faulted
				return &VerificationMismatchError{
					Block: i, Addr: addr + j, Offset: j,
					Want: window[j], Got: scratch[j],
				}
			}
		}
		log.Infof("wrote+verified block %d/%d (0x%06x)", i+1, blocks, addr)
	}

	s.state = Ready
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// StateError is returned when an operation is attempted from a state that
// doesn't permit it.
type StateError struct {
	Want, Got State
}

func (e *StateError) Error() string {
	return "rom: invalid state: want " + e.Want.String() + ", got " + e.Got.String()
}
