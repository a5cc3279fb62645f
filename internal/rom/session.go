// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rom

import (
	"github.com/flashcart/hm05/internal/bridge"
	"github.com/flashcart/hm05/internal/colorlog"
	"github.com/flashcart/hm05/internal/flash"
)

// State is one of the CartridgeSession lifecycle states. Every operation
// checks (or transitions) State; any error anywhere forces Faulted.
type State int

const (
	Closed State = iota
	Opened
	MpsseReady
	Powered
	Identified
	Ready
	Reading
	Writing
	Faulted
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Opened:
		return "Opened"
	case MpsseReady:
		return "MpsseReady"
	case Powered:
		return "Powered"
	case Identified:
		return "Identified"
	case Ready:
		return "Ready"
	case Reading:
		return "Reading"
	case Writing:
		return "Writing"
	case Faulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// maxROMBufferSize is the upper bound on the in-memory ROM image, matching
// the largest SST39VF168X part this protocol targets (16 Mbit = 2 MiB).
const maxROMBufferSize = 2 * 1024 * 1024

// Session is the CartridgeSession: process-singleton state for the
// duration of one read or write command. It owns the bridge Engine, the
// flash Chip built on top of it, the in-memory ROM buffer, and the
// lifecycle state.
type Session struct {
	Engine *bridge.Engine
	Chip   *flash.Chip

	state State
	rom   []byte
}

// Open brings up the bridge (through the sync probe and clock divisor) and
// wraps it in a Session at state MpsseReady. Callers must still call
// PowerOn and Identify before any I/O.
func Open(opener bridge.Opener, cfg bridge.Config) (*Session, error) {
	dev, err := opener(cfg.Vendor, cfg.Product)
	if err != nil {
		return nil, err
	}
	eng, err := bridge.Open(dev, cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{Engine: eng, state: MpsseReady}
	s.Chip = flash.NewChip(flash.NewTransport(eng))
	return s, nil
}

// State reports the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// PowerOn energizes the cartridge and advances Opened/MpsseReady -> Powered.
func (s *Session) PowerOn() error {
	if err := s.Engine.PowerOn(); err != nil {
		s.state = Faulted
		return err
	}
	s.state = Powered
	return nil
}

// Identify issues ChipID + ExitToRead, then CFIQueryCmd + ExitToRead,
// advancing Powered -> Identified -> Ready. Any failure forces Faulted.
func (s *Session) Identify(log *colorlog.Logger) error {
	if err := s.Chip.ChipID(); err != nil {
		s.state = Faulted
		return err
	}
	if err := s.Chip.ExitToRead(); err != nil {
		s.state = Faulted
		return err
	}
	if err := s.Chip.CFIQueryCmd(log); err != nil {
		s.state = Faulted
		return err
	}
	if err := s.Chip.ExitToRead(); err != nil {
		s.state = Faulted
		return err
	}
	s.state = Identified

	total := uint32(1) << s.Chip.CFI.DeviceSize
	if total > maxROMBufferSize {
		s.state = Faulted
		return &CapacityError{ChipBytes: total, BufferBytes: maxROMBufferSize}
	}
	s.rom = make([]byte, total)
	s.state = Ready
	return nil
}

// Close powers off the cartridge (best-effort) and releases the transport.
// Safe to call from any state, including Faulted.
func (s *Session) Close() error {
	_ = s.Engine.PowerOff()
	err := s.Engine.Close()
	s.state = Closed
	return err
}
