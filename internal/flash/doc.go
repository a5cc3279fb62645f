// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package flash drives the SST39VF168X-family command protocol over an
// internal/bridge Engine: address-latched byte I/O, the unlock-cycle command
// set, and CFI geometry discovery.
package flash
