// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build hm05_trace_mpsse

package bridge

import "log"

// Trace functions are enabled when the build tag hm05_trace_mpsse is
// specified, mirroring periph's own host_ftdi_debug build tag pattern
// (ftdi/debug.go / ftdi/no_debug.go).

func traceClockSet(divisor [2]byte) {
	log.Printf("bridge: clock divisor set to {0x%02x, 0x%02x}", divisor[0], divisor[1])
}

func traceSyncReply(reply [2]byte) {
	log.Printf("bridge: sync probe reply %#02x %#02x", reply[0], reply[1])
}

func traceLowBits(value byte) {
	log.Printf("bridge: low-byte pins set to %#08b", value)
}
