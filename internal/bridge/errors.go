// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bridge

import "fmt"

// TransportError wraps a failure from the underlying USB transport (open,
// reset, configure, raw read or raw write).
//
// Code is the native error code from the backing driver when one is
// available; it is 0 when the backend doesn't surface one (e.g. gousb).
type TransportError struct {
	Op      string
	Code    int
	Message string
}

func (e *TransportError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("bridge: %s: %s (code %d)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("bridge: %s: %s", e.Op, e.Message)
}

// SyncError is returned when the bad-command synchronization probe
// fails to observe the expected {0xFA, 0xAB} reply.
type SyncError struct {
	Got [2]byte
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("bridge: MPSSE sync probe failed: got %#02x %#02x, want 0xfa 0xab", e.Got[0], e.Got[1])
}

// OutOfSyncError is returned by assertInBufferEmpty when unexpected bytes
// remain in the bridge's read queue after a write-only command.
type OutOfSyncError struct {
	Drained int
}

func (e *OutOfSyncError) Error() string {
	return fmt.Sprintf("bridge: out of sync: drained %d unexpected byte(s) after a write-only command", e.Drained)
}
