// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bridge

import "errors"

// fakeDevice is a scriptable Device used by this package's tests, playing
// the role of the simulated bridge.
type fakeDevice struct {
	writes [][]byte
	inbox  []byte // bytes the fake has "received from the chip", consumed by Read

	reset    bool
	closed   bool
	failNext string // if non-empty, the next call to that op name fails
}

func (f *fakeDevice) fail(op string) error {
	if f.failNext == op {
		f.failNext = ""
		return errors.New("fake: injected failure for " + op)
	}
	return nil
}

func (f *fakeDevice) Reset() error {
	if err := f.fail("Reset"); err != nil {
		return err
	}
	f.reset = true
	return nil
}

func (f *fakeDevice) SetChunkSizes(read, write int) error  { return f.fail("SetChunkSizes") }
func (f *fakeDevice) SetChars(byte, bool, byte, bool) error { return f.fail("SetChars") }
func (f *fakeDevice) SetLatencyTimer(byte) error            { return f.fail("SetLatencyTimer") }
func (f *fakeDevice) SetFlowControl() error                 { return f.fail("SetFlowControl") }
func (f *fakeDevice) SetBitMode(mask, mode byte) error      { return f.fail("SetBitMode") }

// Write records the bytes and, when the fake is driving the bad-command
// sync probe, appends the canned {0xFA, 0xAB} reply to the inbox whenever it
// sees the deliberate invalid opcode 0xAB as the sole byte written.
func (f *fakeDevice) Write(b []byte) (int, error) {
	if err := f.fail("Write"); err != nil {
		return 0, err
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	f.writes = append(f.writes, cp)
	if len(b) == 1 && b[0] == 0xAB {
		f.inbox = append(f.inbox, 0xFA, 0xAB)
	}
	return len(b), nil
}

func (f *fakeDevice) Read(b []byte) (int, error) {
	if err := f.fail("Read"); err != nil {
		return 0, err
	}
	n := copy(b, f.inbox)
	f.inbox = f.inbox[n:]
	return n, nil
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}
