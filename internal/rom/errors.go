// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rom

import "fmt"

// CapacityError is returned when a chip's reported size (Identify) or a
// source image (WriteROM) exceeds the in-memory ROM buffer.
type CapacityError struct {
	ChipBytes, BufferBytes uint32
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("rom: size %d bytes exceeds %d byte buffer", e.ChipBytes, e.BufferBytes)
}

// VerificationMismatchError is returned by WriteROM when a programmed
// block's read-back doesn't match the source data. Verification failure is
// fatal: the write loop stops at the first mismatching block rather than
// logging and continuing.
type VerificationMismatchError struct {
	Block, Addr, Offset int
	Want, Got           byte
}

func (e *VerificationMismatchError) Error() string {
	return fmt.Sprintf("rom: verification mismatch in block %d at offset 0x%x (address 0x%x): want %#02x, got %#02x",
		e.Block, e.Offset, e.Addr, e.Want, e.Got)
}
