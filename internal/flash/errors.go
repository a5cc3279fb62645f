// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package flash

import "fmt"

// IdentityError is returned by ChipID when the manufacturer/device pair
// doesn't match the supported SST39VF168X family.
type IdentityError struct {
	Manufacturer, Device byte
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("flash: unsupported chip identity %#02x/%#02x, want 0xbf/0xc8", e.Manufacturer, e.Device)
}

// CFIError is returned when the CFI query reply fails validation: bad
// magic, too few regions, or (CFIQueryCmd) a region table whose total byte
// count disagrees with 1<<device_size.
type CFIError struct {
	Reason string
}

func (e *CFIError) Error() string {
	return "flash: CFI query: " + e.Reason
}
