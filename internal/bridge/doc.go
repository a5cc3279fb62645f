// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bridge drives an FTDI FT2232H-class USB-to-MPSSE bridge.
//
// It provides three layered pieces: a thin Transport Adapter over the
// underlying USB driver (device_d2xx.go, with a device_gousb.go fallback
// behind the hm05_libusb build tag), a Framed Writer / Synchronous Reader
// staging outbound MPSSE bytes and synchronizing on inbound ones (buffer.go),
// and the MPSSE Engine itself, which performs bring-up and exposes clocked
// byte I/O and low-byte GPIO control (engine.go).
//
// Use build tag hm05_trace_mpsse to log the clock divisor, the sync-probe
// reply and every low-byte pin change.
package bridge
