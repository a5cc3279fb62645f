// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bridge

import (
	"periph.io/x/d2xx"
)

// d2xxDevice is the default Transport Adapter backend, a thin wrapper
// around periph.io/x/d2xx (Init/Reset/SetBitMode/Read/Write), trimmed to
// exactly what the MPSSE Engine needs.
type d2xxDevice struct {
	h d2xx.Handle
}

// OpenD2XX opens the first FTDI device matching vendor/product using the
// proprietary D2XX driver.
//
// TODO: only the first matching device is opened; multi-device selection is
// out of scope.
func OpenD2XX(vendor, product uint16) (Device, error) {
	num, e := d2xx.CreateDeviceInfoList()
	if e != 0 {
		return nil, &TransportError{Op: "CreateDeviceInfoList", Code: int(e), Message: e.Error()}
	}
	for i := 0; i < num; i++ {
		h, e := d2xx.Open(i)
		if e != 0 {
			continue
		}
		_, vid, did, e := h.GetDeviceInfo()
		if e != 0 || vid != vendor || did != product {
			_ = h.Close()
			continue
		}
		return &d2xxDevice{h: h}, nil
	}
	return nil, &TransportError{Op: "Open", Message: "no matching FTDI device found on the USB bus"}
}

func (d *d2xxDevice) Reset() error {
	if e := d.h.ResetDevice(); e != 0 {
		return &TransportError{Op: "Reset", Code: int(e), Message: e.Error()}
	}
	return nil
}

func (d *d2xxDevice) SetChunkSizes(read, write int) error {
	if e := d.h.SetUSBParameters(uint32(read), uint32(write)); e != 0 {
		return &TransportError{Op: "SetChunkSizes", Code: int(e), Message: e.Error()}
	}
	return nil
}

func (d *d2xxDevice) SetChars(event byte, eventEnable bool, err byte, errEnable bool) error {
	if e := d.h.SetChars(event, eventEnable, err, errEnable); e != 0 {
		return &TransportError{Op: "SetChars", Code: int(e), Message: e.Error()}
	}
	return nil
}

func (d *d2xxDevice) SetLatencyTimer(ms byte) error {
	if e := d.h.SetLatencyTimer(ms); e != 0 {
		return &TransportError{Op: "SetLatencyTimer", Code: int(e), Message: e.Error()}
	}
	return nil
}

func (d *d2xxDevice) SetFlowControl() error {
	if e := d.h.SetFlowControl(); e != 0 {
		return &TransportError{Op: "SetFlowControl", Code: int(e), Message: e.Error()}
	}
	return nil
}

func (d *d2xxDevice) SetBitMode(mask, mode byte) error {
	if e := d.h.SetBitMode(mask, mode); e != 0 {
		return &TransportError{Op: "SetBitMode", Code: int(e), Message: e.Error()}
	}
	return nil
}

func (d *d2xxDevice) Write(b []byte) (int, error) {
	n, e := d.h.Write(b)
	if e != 0 {
		return n, &TransportError{Op: "Write", Code: int(e), Message: e.Error()}
	}
	return n, nil
}

// Read calls GetQueueStatus first, since calling Read() directly without
// it is measurably slower on most platforms.
func (d *d2xxDevice) Read(b []byte) (int, error) {
	p, e := d.h.GetQueueStatus()
	if e != 0 {
		return 0, &TransportError{Op: "GetQueueStatus", Code: int(e), Message: e.Error()}
	}
	if p == 0 {
		return 0, nil
	}
	v := int(p)
	if v > len(b) {
		v = len(b)
	}
	n, e := d.h.Read(b[:v])
	if e != 0 {
		return n, &TransportError{Op: "Read", Code: int(e), Message: e.Error()}
	}
	return n, nil
}

func (d *d2xxDevice) Close() error {
	if e := d.h.Close(); e != 0 {
		return &TransportError{Op: "Close", Code: int(e), Message: e.Error()}
	}
	return nil
}
