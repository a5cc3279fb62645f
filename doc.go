// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hm05 implements the command-line programmer for an SST39VF168X
// cartridge attached through an FTDI FT2232H-class USB-to-MPSSE bridge.
//
//	hm05 read  <file>   dump the chip's contents to <file>
//	hm05 write <file>   program the chip from <file>
package hm05
