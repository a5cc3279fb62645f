// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package flash

import "encoding/binary"

// CFIQuery is the Common Flash Interface geometry/electrical-parameter
// structure, packed little-endian on the wire.
//
// Deserialized field-by-field with encoding/binary rather than cast over a
// byte slice with unsafe.Pointer: target platforms may not permit unaligned
// struct overlays, and a field-by-field reader stays correct regardless of
// host alignment or struct padding rules.
type CFIQuery struct {
	ControlInterfaceID   uint16  // JEP137
	PrimaryExtTable      uint16  // 0 if absent
	AltControlID         uint16  // 0 if absent
	AltExtTable          uint16  // 0 if absent
	VccMin               byte    // BCD, 100mV units
	VccMax               byte
	VppMin               byte
	VppMax               byte
	TypicalTimeouts      [8]byte // JESD68-01
	DeviceSize           byte    // log2(bytes)
	InterfaceCode        uint16  // JEP137
	MaxMultibyteProgram  uint16  // log2(bytes)
	NumEraseBlockRegions byte    // >= 1
}

// cfiStructSize is the on-wire byte length parseCFIQuery consumes: 3-byte
// "QRY" magic plus the 26 bytes of CFIQuery (2+2+2+2+1+1+1+1+8+1+2+2+1).
const cfiStructSize = 29

// parseCFIQuery validates the "QRY" magic and decodes the fields that
// follow it in raw, which must be at least cfiStructSize bytes.
func parseCFIQuery(raw []byte) (CFIQuery, error) {
	var q CFIQuery
	if len(raw) < cfiStructSize {
		return q, &CFIError{Reason: "short read"}
	}
	if string(raw[0:3]) != "QRY" {
		return q, &CFIError{Reason: "bad magic, want \"QRY\""}
	}
	p := raw[3:]
	q.ControlInterfaceID = binary.LittleEndian.Uint16(p[0:2])
	q.PrimaryExtTable = binary.LittleEndian.Uint16(p[2:4])
	q.AltControlID = binary.LittleEndian.Uint16(p[4:6])
	q.AltExtTable = binary.LittleEndian.Uint16(p[6:8])
	q.VccMin = p[8]
	q.VccMax = p[9]
	q.VppMin = p[10]
	q.VppMax = p[11]
	copy(q.TypicalTimeouts[:], p[12:20])
	q.DeviceSize = p[20]
	q.InterfaceCode = binary.LittleEndian.Uint16(p[21:23])
	q.MaxMultibyteProgram = binary.LittleEndian.Uint16(p[23:25])
	q.NumEraseBlockRegions = p[25]

	if q.NumEraseBlockRegions < 1 {
		return q, &CFIError{Reason: "num_erase_block_regions must be >= 1"}
	}
	return q, nil
}

// BlockRegion is one entry of the erase-block-region table that follows the
// CFIQuery structure, packed little-endian on the wire.
type BlockRegion struct {
	NBlocksMinusOne uint16
	BlockSizeCode   uint16 // size in bytes = code << 8
}

// SizeBytes returns the per-block size this region describes.
func (r BlockRegion) SizeBytes() uint32 {
	return uint32(r.BlockSizeCode) << 8
}

// TotalBytes returns the total span of this region: (n+1) blocks of
// SizeBytes() each.
func (r BlockRegion) TotalBytes() uint32 {
	return uint32(r.NBlocksMinusOne+1) * r.SizeBytes()
}

// parseBlockRegions decodes n 4-byte BlockRegion entries field-by-field.
func parseBlockRegions(raw []byte, n int) []BlockRegion {
	regions := make([]BlockRegion, 0, n)
	for i := 0; i < n; i++ {
		off := i * 4
		regions = append(regions, BlockRegion{
			NBlocksMinusOne: binary.LittleEndian.Uint16(raw[off : off+2]),
			BlockSizeCode:   binary.LittleEndian.Uint16(raw[off+2 : off+4]),
		})
	}
	return regions
}
