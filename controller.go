// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hm05

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/flashcart/hm05/internal/bridge"
	"github.com/flashcart/hm05/internal/colorlog"
	"github.com/flashcart/hm05/internal/rom"
)

// reportIfMismatch renders a verification-mismatch error as a color swatch
// pair on log before the caller returns it as the operational failure; every
// other error passes through untouched.
func reportIfMismatch(err error, log *colorlog.Logger) {
	var m *rom.VerificationMismatchError
	if errors.As(err, &m) {
		log.Mismatch(m.Addr, m.Want, m.Got)
	}
}

// romBufferSize is the upper bound on a ROM image file, matching the
// largest SST39VF168X part this programmer targets (16 Mbit = 2 MiB).
const romBufferSize = 2 * 1024 * 1024

// Exit codes, per the CLI contract: 0 success or help, 1 usage error, 255
// operational failure.
const (
	exitOK        = 0
	exitUsage     = 1
	exitOperation = 255
)

// config is the resolved command-line configuration.
type config struct {
	verb    string
	file    string
	vendor  uint
	product uint
	verbose bool
}

// Run parses args, executes the requested verb, and returns the process
// exit code. It never calls os.Exit, so it is unit-testable.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "hm05: %s\n", err)
		return exitUsage
	}

	log := colorlog.New(stdout)
	log.SetVerbose(cfg.verbose)

	if err := run(cfg, log); err != nil {
		fmt.Fprintf(stderr, "hm05: %s\n", err)
		return exitOperation
	}
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("hm05", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: hm05 <read|write> <file> [-vid 0xHHHH] [-pid 0xHHHH] [-v]")
		fs.PrintDefaults()
	}

	var cfg config
	vid := fs.String("vid", "0x0403", "USB vendor ID override, hex")
	pid := fs.String("pid", "0x6010", "USB product ID override, hex")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose/trace logging")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return config{}, errors.New("expected exactly a verb and a file argument")
	}
	cfg.verb = fs.Arg(0)
	cfg.file = fs.Arg(1)
	if cfg.verb != "read" && cfg.verb != "write" {
		return config{}, fmt.Errorf("unknown verb %q, want \"read\" or \"write\"", cfg.verb)
	}

	v, err := parseHex16(*vid)
	if err != nil {
		return config{}, fmt.Errorf("-vid: %w", err)
	}
	cfg.vendor = v
	p, err := parseHex16(*pid)
	if err != nil {
		return config{}, fmt.Errorf("-pid: %w", err)
	}
	cfg.product = p
	return cfg, nil
}

func parseHex16(s string) (uint, error) {
	var v uint
	if _, err := fmt.Sscanf(s, "0x%x", &v); err != nil {
		return 0, err
	}
	if v > 0xFFFF {
		return 0, fmt.Errorf("%s out of range for a 16-bit USB ID", s)
	}
	return v, nil
}

// openDevice is the Transport Adapter opener run uses; swapped out in
// tests to exercise the Controller without real USB hardware.
var openDevice bridge.Opener = bridge.OpenD2XX

// run orchestrates the full session per the lifecycle: bring up the
// bridge, power on, identify, perform the requested verb, and always power
// off and close, regardless of outcome.
func run(cfg config, log *colorlog.Logger) error {
	bcfg := bridge.DefaultConfig()
	bcfg.Vendor = uint16(cfg.vendor)
	bcfg.Product = uint16(cfg.product)

	s, err := rom.Open(openDevice, bcfg)
	if err != nil {
		return err
	}

	stop := installInterruptPowerOff(s)
	defer stop()
	defer s.Close()

	if err := s.PowerOn(); err != nil {
		return err
	}
	if err := s.Identify(log); err != nil {
		return err
	}

	switch cfg.verb {
	case "read":
		return doRead(s, cfg.file, log)
	case "write":
		return doWrite(s, cfg.file, log)
	default:
		return fmt.Errorf("unreachable verb %q", cfg.verb)
	}
}

func doRead(s *rom.Session, file string, log *colorlog.Logger) error {
	data, err := s.ReadROM(log)
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

func doWrite(s *rom.Session, file string, log *colorlog.Logger) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if len(data) > romBufferSize {
		return fmt.Errorf("%s is %d bytes, exceeds the %d byte ROM buffer", file, len(data), romBufferSize)
	}
	if err := s.WriteROM(data, log); err != nil {
		reportIfMismatch(err, log)
		return err
	}
	return nil
}

// installInterruptPowerOff powers off the cartridge if the process
// receives an interrupt mid-operation. It returns a stop function that
// must be called (via defer) to release the signal channel once the
// operation completes normally.
func installInterruptPowerOff(s *rom.Session) (stop func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	done := make(chan struct{})
	go func() {
		select {
		case <-c:
			_ = s.Close()
		case <-done:
		}
	}()
	return func() {
		close(done)
		signal.Stop(c)
	}
}
