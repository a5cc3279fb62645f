// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rom owns the cartridge session state machine and the high-level
// read-all / write-all-with-verify loops built on top of internal/flash.
package rom
