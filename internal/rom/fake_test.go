// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rom

import "github.com/flashcart/hm05/internal/bridge"

const opForceSendByte = 0x87

// fakeDevice is a scriptable bridge.Device: it answers the bring-up sync
// probe automatically and delivers scripted reply frames, in order,
// whenever the engine issues a force-send. This models the bridge's read
// FIFO without simulating the cartridge's internal unlock/command state
// machine, which internal/flash's own tests already exercise directly.
type fakeDevice struct {
	writes [][]byte
	inbox  []byte
	reply  [][]byte
	closed bool
}

func (f *fakeDevice) Reset() error                          { return nil }
func (f *fakeDevice) SetChunkSizes(read, write int) error   { return nil }
func (f *fakeDevice) SetChars(byte, bool, byte, bool) error { return nil }
func (f *fakeDevice) SetLatencyTimer(byte) error            { return nil }
func (f *fakeDevice) SetFlowControl() error                 { return nil }
func (f *fakeDevice) SetBitMode(mask, mode byte) error      { return nil }
func (f *fakeDevice) Close() error                          { f.closed = true; return nil }

func (f *fakeDevice) Write(b []byte) (int, error) {
	cp := make([]byte, len(b))
	copy(cp, b)
	f.writes = append(f.writes, cp)

	if len(b) == 1 && b[0] == 0xAB {
		f.inbox = append(f.inbox, 0xFA, 0xAB)
		return len(b), nil
	}
	if len(b) > 0 && b[len(b)-1] == opForceSendByte && len(f.reply) > 0 {
		f.inbox = append(f.inbox, f.reply[0]...)
		f.reply = f.reply[1:]
	}
	return len(b), nil
}

func (f *fakeDevice) Read(b []byte) (int, error) {
	n := copy(b, f.inbox)
	f.inbox = f.inbox[n:]
	return n, nil
}

func fakeOpener(dev *fakeDevice) bridge.Opener {
	return func(vendor, product uint16) (bridge.Device, error) {
		return dev, nil
	}
}

// reverseBit mirrors internal/flash's unexported reverseByte, reproduced
// here so tests can construct the "wire" (bit-reversed) representation of
// expected ROM data without exporting it from flash just for testing.
func reverseBit(b byte) byte {
	x := uint64(b)
	x = (x*0x0202020202 & 0x010884422010) % 1023
	return byte(x)
}

func reverseBits(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[i] = reverseBit(v)
	}
	return out
}
