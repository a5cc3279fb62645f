// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package colorlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfofSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf)
	lg.Infof("hello %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("Infof() wrote %q, want nothing before SetVerbose(true)", buf.String())
	}
}

func TestInfofAfterSetVerbose(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf)
	lg.SetVerbose(true)
	lg.Infof("hello %d", 1)
	if !strings.Contains(buf.String(), "hello 1") {
		t.Fatalf("Infof() = %q, want it to contain %q", buf.String(), "hello 1")
	}
	if !strings.Contains(buf.String(), "INFO") {
		t.Fatalf("Infof() = %q, want an INFO tag", buf.String())
	}
}

func TestErrorfAlwaysWrites(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf)
	lg.Errorf("boom %s", "now")
	if !strings.Contains(buf.String(), "boom now") {
		t.Fatalf("Errorf() = %q, want it to contain %q", buf.String(), "boom now")
	}
}

func TestUncoloredWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf)
	lg.Errorf("plain")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("Errorf() = %q, want no ANSI escapes for a non-file writer", buf.String())
	}
}

func TestSwatchFallsBackToHexWhenUncolored(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf)
	if got := lg.Swatch(0xAB); got != "0xab" {
		t.Fatalf("Swatch(0xAB) = %q, want %q", got, "0xab")
	}
}

func TestMismatchReportsBothBytes(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf)
	lg.Mismatch(0x1234, 0xAA, 0x55)
	out := buf.String()
	if !strings.Contains(out, "0x001234") || !strings.Contains(out, "0xaa") || !strings.Contains(out, "0x55") {
		t.Fatalf("Mismatch() = %q, want it to contain the address and both bytes", out)
	}
}
