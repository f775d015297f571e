/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import "github.com/unidoc/fontshuffle/common"

// Known sfnt versions.
const (
	sfntVersionTrueType = 0x00010000
	sfntVersionApple    = 0x74727565 // 'true'
	sfntVersionCFF      = 0x4F54544F // 'OTTO'
)

type offsetTable struct {
	sfntVersion   uint32
	numTables     uint16
	searchRange   uint16
	entrySelector uint16
	rangeShift    uint16
}

// newOffsetTable returns the offset table for `numTables` tables with the binary search
// parameters derived from it.
func newOffsetTable(sfntVersion uint32, numTables int) *offsetTable {
	entrySelector := 0
	power := 1
	for power*2 <= numTables {
		power *= 2
		entrySelector++
	}
	searchRange := power * 16
	return &offsetTable{
		sfntVersion:   sfntVersion,
		numTables:     uint16(numTables),
		searchRange:   uint16(searchRange),
		entrySelector: uint16(entrySelector),
		rangeShift:    uint16(numTables*16 - searchRange),
	}
}

func (f *Font) parseOffsetTable(r *byteReader) (*offsetTable, error) {
	ot := &offsetTable{}

	err := r.read(&ot.sfntVersion, &ot.numTables, &ot.searchRange)
	if err != nil {
		return nil, err
	}

	switch ot.sfntVersion {
	case sfntVersionTrueType, sfntVersionApple, sfntVersionCFF:
	default:
		common.Log.Debug("Unsupported sfnt version 0x%08X", ot.sfntVersion)
		return nil, ErrUnsupportedFormat
	}

	err = r.read(&ot.entrySelector, &ot.rangeShift)
	if err != nil {
		return nil, err
	}

	return ot, nil
}

func (f *Font) writeOffsetTable(w *byteWriter) error {
	if f.ot == nil {
		return errRequiredField
	}
	return w.write(f.ot.sfntVersion, f.ot.numTables, f.ot.searchRange, f.ot.entrySelector, f.ot.rangeShift)
}
