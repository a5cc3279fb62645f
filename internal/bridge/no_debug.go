// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !hm05_trace_mpsse

package bridge

func traceClockSet(divisor [2]byte) {}
func traceSyncReply(reply [2]byte)  {}
func traceLowBits(value byte)       {}
