// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package flash

import "github.com/flashcart/hm05/internal/bridge"

// fakeDevice is a scriptable bridge.Device used by this package's tests. It
// answers the bring-up sync probe automatically and delivers scripted reply
// frames whenever the engine issues a force-send (opcode 0x87), modeling
// the bridge's read FIFO without simulating the cartridge's address latch.
type fakeDevice struct {
	writes [][]byte
	inbox  []byte
	reply  [][]byte // FIFO of frames delivered on the next force-send each
	closed bool
}

const opForceSendByte = 0x87

func (f *fakeDevice) Reset() error                          { return nil }
func (f *fakeDevice) SetChunkSizes(read, write int) error   { return nil }
func (f *fakeDevice) SetChars(byte, bool, byte, bool) error { return nil }
func (f *fakeDevice) SetLatencyTimer(byte) error            { return nil }
func (f *fakeDevice) SetFlowControl() error                 { return nil }
func (f *fakeDevice) SetBitMode(mask, mode byte) error      { return nil }

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

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}

// openChip brings up a bridge.Engine over a fresh fakeDevice and wraps it in
// a flash.Chip, ready for commands.
func openChip(t interface {
	Fatalf(format string, args ...interface{})
}) (*fakeDevice, *Chip) {
	dev := &fakeDevice{}
	cfg := bridge.DefaultConfig()
	cfg.LatencyMS = 0
	eng, err := bridge.Open(dev, cfg)
	if err != nil {
		t.Fatalf("bridge.Open() = %v", err)
	}
	if err := eng.PowerOn(); err != nil {
		t.Fatalf("PowerOn() = %v", err)
	}
	return dev, NewChip(NewTransport(eng))
}
