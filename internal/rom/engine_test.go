// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rom

import (
	"bytes"
	"testing"

	"github.com/flashcart/hm05/internal/bridge"
	"github.com/flashcart/hm05/internal/colorlog"
	"github.com/flashcart/hm05/internal/flash"
)

// newTestSession builds a Ready Session directly, bypassing Identify, with
// a small block size so scripted reply frames stay manageable.
func newTestSession(t *testing.T, dev *fakeDevice, block, total int) *Session {
	cfg := bridge.DefaultConfig()
	cfg.LatencyMS = 0
	eng, err := bridge.Open(dev, cfg)
	if err != nil {
		t.Fatalf("bridge.Open() = %v", err)
	}
	if err := eng.PowerOn(); err != nil {
		t.Fatalf("PowerOn() = %v", err)
	}
	chip := flash.NewChip(flash.NewTransport(eng))
	chip.BiggestBlockSizeBytes = uint32(block)
	return &Session{Engine: eng, Chip: chip, state: Ready, rom: make([]byte, total)}
}

func silentLog() *colorlog.Logger {
	return colorlog.New(&bytes.Buffer{})
}

// S5: round-trip write. 2 blocks of 4 bytes each; every block's read-back
// matches what was programmed, so WriteROM succeeds.
func TestWriteROMRoundTrip(t *testing.T) {
	block, total := 4, 8
	src := []byte{0, 1, 2, 3, 4, 5, 6, 7}

	dev := &fakeDevice{reply: [][]byte{
		reverseBits(src[0:4]),
		reverseBits(src[4:8]),
	}}
	s := newTestSession(t, dev, block, total)

	if err := s.WriteROM(src, silentLog()); err != nil {
		t.Fatalf("WriteROM() = %v", err)
	}
	if s.State() != Ready {
		t.Fatalf("state = %v, want Ready", s.State())
	}
}

// S6: verification mismatch. The second block's read-back disagrees with
// the source in one byte; WriteROM must return a typed, fatal error rather
// than log and continue.
func TestWriteROMVerificationMismatchIsFatal(t *testing.T) {
	block, total := 4, 8
	src := []byte{0, 1, 2, 3, 4, 5, 6, 7}

	corrupted := reverseBits(src[4:8])
	corrupted[1] = reverseBit(0xAA) // flip one byte of block 1's read-back

	dev := &fakeDevice{reply: [][]byte{
		reverseBits(src[0:4]),
		corrupted,
	}}
	s := newTestSession(t, dev, block, total)

	err := s.WriteROM(src, silentLog())
	if err == nil {
		t.Fatal("WriteROM() = nil, want *VerificationMismatchError")
	}
	mismatch, ok := err.(*VerificationMismatchError)
	if !ok {
		t.Fatalf("WriteROM() error = %T, want *VerificationMismatchError", err)
	}
	if mismatch.Block != 1 {
		t.Fatalf("mismatch.Block = %d, want 1", mismatch.Block)
	}
	if s.State() != Faulted {
		t.Fatalf("state = %v, want Faulted", s.State())
	}
}

func TestReadROM(t *testing.T) {
	block, total := 4, 8
	want := []byte{10, 20, 30, 40, 50, 60, 70, 80}

	dev := &fakeDevice{reply: [][]byte{
		reverseBits(want[0:4]),
		reverseBits(want[4:8]),
	}}
	s := newTestSession(t, dev, block, total)

	got, err := s.ReadROM(silentLog())
	if err != nil {
		t.Fatalf("ReadROM() = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadROM() = % x, want % x", got, want)
	}
	if s.State() != Ready {
		t.Fatalf("state = %v, want Ready", s.State())
	}
}

func TestWriteROMRejectsOversizedSource(t *testing.T) {
	dev := &fakeDevice{}
	s := newTestSession(t, dev, 4, 8)
	err := s.WriteROM(make([]byte, 9), silentLog())
	if err == nil {
		t.Fatal("WriteROM() = nil, want *CapacityError")
	}
	if _, ok := err.(*CapacityError); !ok {
		t.Fatalf("WriteROM() error = %T, want *CapacityError", err)
	}
}
