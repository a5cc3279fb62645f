// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command hm05 reads and writes an SST39VF168X cartridge over an FTDI
// FT2232H-class USB-to-MPSSE bridge.
package main

import (
	"os"

	"github.com/flashcart/hm05"
)

func main() {
	os.Exit(hm05.Run(os.Args[1:], os.Stdout, os.Stderr))
}
