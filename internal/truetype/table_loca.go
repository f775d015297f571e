/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"errors"

	"github.com/unidoc/fontshuffle/common"
)

// maxShortLocaOffset is the largest byte offset representable in the short loca format.
const maxShortLocaOffset = 2 * 0xFFFF

// LocaTable represents the Index to Location (loca) table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/loca
//
// Offsets are always held as byte offsets into the glyf table. The extra entry at the end
// helps calculating the length of the last glyph data element (numGlyphs+1 entries). They are
// halved on write when the head table selects the short format.
type LocaTable struct {
	Offsets []uint32
}

// GlyphDataOffset returns offset and length of glyph `gid` relative to the beginning of the
// glyf table.
func (t *LocaTable) GlyphDataOffset(gid GlyphIndex) (offset int64, length int64, err error) {
	if int(gid)+1 >= len(t.Offsets) {
		common.Log.Debug("invalid range")
		return 0, 0, errRangeCheck
	}
	offset1 := int64(t.Offsets[gid])
	offset2 := int64(t.Offsets[gid+1])
	return offset1, offset2 - offset1, nil
}

// FitsShort returns true if the offsets can be stored in the short format.
func (t *LocaTable) FitsShort() bool {
	for _, off := range t.Offsets {
		if off > maxShortLocaOffset || off%2 != 0 {
			return false
		}
	}
	return true
}

// check verifies the table has `numGlyphs+1` non-decreasing offsets.
func (t *LocaTable) check(numGlyphs int) error {
	if len(t.Offsets) != numGlyphs+1 {
		common.Log.Debug("loca: %d offsets for %d glyphs", len(t.Offsets), numGlyphs)
		return errRangeCheck
	}
	for i := 1; i < len(t.Offsets); i++ {
		if t.Offsets[i] < t.Offsets[i-1] {
			common.Log.Debug("loca: offset %d decreasing (%d < %d)", i, t.Offsets[i], t.Offsets[i-1])
			return errors.New("invalid indexToLoca offset")
		}
	}
	return nil
}

func (f *Font) parseLoca(r *byteReader) (*LocaTable, error) {
	if f.Head == nil || f.Maxp == nil {
		common.Log.Debug("head or maxp not set - required missing")
		return nil, errRequiredField
	}

	_, has, err := f.seekToTable(r, tagLoca)
	if err != nil {
		return nil, err
	}
	if !has {
		common.Log.Debug("loca table not present")
		return nil, nil
	}

	numGlyphs := int(f.Maxp.numGlyphs)
	loca := &LocaTable{Offsets: make([]uint32, 0, numGlyphs+1)}

	if f.Head.ShortOffsets() {
		var offsets []offset16
		err := r.readSlice(&offsets, numGlyphs+1)
		if err != nil {
			return nil, err
		}
		for _, off := range offsets {
			loca.Offsets = append(loca.Offsets, 2*uint32(off))
		}
	} else {
		var offsets []offset32
		err := r.readSlice(&offsets, numGlyphs+1)
		if err != nil {
			return nil, err
		}
		for _, off := range offsets {
			loca.Offsets = append(loca.Offsets, uint32(off))
		}
	}

	if err := loca.check(numGlyphs); err != nil {
		return nil, err
	}
	return loca, nil
}

func (f *Font) writeLoca(w *byteWriter) error {
	if f.Loca == nil || f.Head == nil || f.Maxp == nil {
		return errRequiredField
	}
	t := f.Loca
	if err := t.check(int(f.Maxp.numGlyphs)); err != nil {
		return err
	}

	if f.Head.ShortOffsets() {
		if !t.FitsShort() {
			common.Log.Debug("loca: offsets do not fit the short format")
			return errRangeCheck
		}
		for _, off := range t.Offsets {
			err := w.writeOffset16(offset16(off / 2))
			if err != nil {
				return err
			}
		}
		return nil
	}

	for _, off := range t.Offsets {
		err := w.writeOffset32(offset32(off))
		if err != nil {
			return err
		}
	}
	return nil
}
