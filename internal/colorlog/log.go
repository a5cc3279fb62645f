// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package colorlog provides level-tagged, optionally colored logging shared
// across every layer of the programmer, mirroring the bridge package's own
// build-tag-gated opcode tracing but available unconditionally at runtime.
package colorlog

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	colorCyan  = "\x1b[36m"
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

// Logger wraps a standard library *log.Logger with two levels, INFO and
// ERROR, colored when the destination is a real terminal.
type Logger struct {
	l       *log.Logger
	colored bool
	verbose bool
}

// New wraps w. Coloring is enabled only when w is an *os.File attached to a
// terminal; any other writer, including a colorable wrapper, gets plain
// output.
func New(w io.Writer) *Logger {
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{l: log.New(w, "", 0), colored: colored}
}

// NewStdout returns a Logger over a colorable-wrapped os.Stdout, the
// common case for the CLI entry point.
func NewStdout() *Logger {
	return New(colorable.NewColorableStdout())
}

// SetVerbose toggles whether Infof lines are emitted at all; ERROR lines
// always print regardless.
func (lg *Logger) SetVerbose(v bool) { lg.verbose = v }

// Infof logs an informational line, suppressed unless SetVerbose(true) was
// called.
func (lg *Logger) Infof(format string, args ...interface{}) {
	if !lg.verbose {
		return
	}
	lg.print(colorCyan, "INFO", format, args...)
}

// Errorf logs an error line unconditionally.
func (lg *Logger) Errorf(format string, args ...interface{}) {
	lg.print(colorRed, "ERROR", format, args...)
}

// Swatch renders b as a 256-color grayscale block suitable for a terminal,
// falling back to a bare hex byte when the destination isn't a terminal.
func (lg *Logger) Swatch(b byte) string {
	if !lg.colored {
		return fmt.Sprintf("0x%02x", b)
	}
	return ansi256.Default.Block(color.NRGBA{R: b, G: b, B: b, A: 255}) + fmt.Sprintf(" 0x%02x%s", b, colorReset)
}

// Mismatch reports a verification mismatch at addr, rendering want and got
// as color swatches so the differing byte stands out on a real terminal.
func (lg *Logger) Mismatch(addr int, want, got byte) {
	lg.Errorf("mismatch at 0x%06x: want %s got %s", addr, lg.Swatch(want), lg.Swatch(got))
}

func (lg *Logger) print(color, level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if lg.colored {
		lg.l.Printf("%s%s%s %s", color, level, colorReset, msg)
		return
	}
	lg.l.Printf("%s %s", level, msg)
}
