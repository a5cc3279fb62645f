// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build hm05_libusb

package bridge

import (
	"errors"

	"github.com/google/gousb"
)

// FTDI vendor-request numbers (bmRequestType 0x40, "host to device, vendor,
// device"), per the protocol libftdi/the D2XX driver itself speak over the
// wire; see periph-extra/experimental/host/usbbus for the sibling generic-USB
// open/claim/endpoint dance this backend is grounded on.
const (
	ftdiReqReset       = 0x00
	ftdiReqSetFlowCtrl = 0x02
	ftdiReqSetLatency  = 0x09
	ftdiReqSetBitMode  = 0x0B
	ftdiReqSetChars    = 0x06

	ftdiFlowRTSCTS = 0x0100
)

// gousbDevice is the libusb-backed Transport Adapter, used on hosts without
// the proprietary D2XX driver installed (build tag hm05_libusb).
type gousbDevice struct {
	ctx   *gousb.Context
	dev   *gousb.Device
	done  func()
	iface *gousb.Interface
	in    *gousb.InEndpoint
	out   *gousb.OutEndpoint
}

// OpenLibusb opens the first FTDI device matching vendor/product over a
// generic libusb-backed USB stack instead of the proprietary D2XX driver.
func OpenLibusb(vendor, product uint16) (Device, error) {
	ctx := gousb.NewContext()
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == vendor && uint16(desc.Product) == product
	})
	if err != nil {
		ctx.Close()
		return nil, &TransportError{Op: "OpenDevices", Message: err.Error()}
	}
	if len(devs) == 0 {
		ctx.Close()
		return nil, &TransportError{Op: "Open", Message: "no matching FTDI device found on the USB bus"}
	}
	// Close any extras beyond the first; single-cartridge session only.
	for _, extra := range devs[1:] {
		_ = extra.Close()
	}
	dev := devs[0]

	iface, done, err := dev.DefaultInterface()
	if err != nil {
		_ = dev.Close()
		ctx.Close()
		return nil, &TransportError{Op: "DefaultInterface", Message: err.Error()}
	}
	in, err := iface.InEndpoint(1)
	if err != nil {
		done()
		_ = dev.Close()
		ctx.Close()
		return nil, &TransportError{Op: "InEndpoint", Message: err.Error()}
	}
	out, err := iface.OutEndpoint(2)
	if err != nil {
		done()
		_ = dev.Close()
		ctx.Close()
		return nil, &TransportError{Op: "OutEndpoint", Message: err.Error()}
	}
	return &gousbDevice{ctx: ctx, dev: dev, done: done, iface: iface, in: in, out: out}, nil
}

func (d *gousbDevice) control(request uint8, value, index uint16) error {
	_, err := d.dev.Control(0x40, request, value, index, nil)
	return err
}

func (d *gousbDevice) Reset() error {
	if err := d.control(ftdiReqReset, 0, 0); err != nil {
		return &TransportError{Op: "Reset", Message: err.Error()}
	}
	return nil
}

// SetChunkSizes is a no-op for the libusb backend: gousb's endpoint I/O has
// no separate driver-side chunk size knob, unlike D2XX's SetUSBParameters.
func (d *gousbDevice) SetChunkSizes(read, write int) error {
	return nil
}

// SetChars programs the event character only; err and errEnable are
// ignored by this backend.
func (d *gousbDevice) SetChars(event byte, eventEnable bool, err byte, errEnable bool) error {
	var value uint16
	if eventEnable {
		value = 0x0100 | uint16(event)
	}
	if e := d.control(ftdiReqSetChars, value, 0); e != nil {
		return &TransportError{Op: "SetChars", Message: e.Error()}
	}
	return nil
}

func (d *gousbDevice) SetLatencyTimer(ms byte) error {
	if err := d.control(ftdiReqSetLatency, uint16(ms), 0); err != nil {
		return &TransportError{Op: "SetLatencyTimer", Message: err.Error()}
	}
	return nil
}

func (d *gousbDevice) SetFlowControl() error {
	if err := d.control(ftdiReqSetFlowCtrl, 0, ftdiFlowRTSCTS); err != nil {
		return &TransportError{Op: "SetFlowControl", Message: err.Error()}
	}
	return nil
}

func (d *gousbDevice) SetBitMode(mask, mode byte) error {
	value := uint16(mask) | uint16(mode)<<8
	if err := d.control(ftdiReqSetBitMode, value, 0); err != nil {
		return &TransportError{Op: "SetBitMode", Message: err.Error()}
	}
	return nil
}

func (d *gousbDevice) Write(b []byte) (int, error) {
	n, err := d.out.Write(b)
	if err != nil {
		return n, &TransportError{Op: "Write", Message: err.Error()}
	}
	return n, nil
}

// Read performs a single non-blocking-ish bulk read: gousb endpoints don't
// expose a queue-status primitive like D2XX's GetQueueStatus, so this reads
// whatever is queued up to len(b), relying on the endpoint's own timeout.
func (d *gousbDevice) Read(b []byte) (int, error) {
	n, err := d.in.Read(b)
	if err != nil {
		if errors.Is(err, gousb.TransferTimedOut) {
			return n, nil
		}
		return n, &TransportError{Op: "Read", Message: err.Error()}
	}
	return n, nil
}

func (d *gousbDevice) Close() error {
	d.done()
	err := d.dev.Close()
	d.ctx.Close()
	if err != nil {
		return &TransportError{Op: "Close", Message: err.Error()}
	}
	return nil
}
