/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"bytes"

	"github.com/unidoc/fontshuffle/common"
)

// gvarHeaderSize is the size of the gvar header up to the glyph variation data offsets.
const gvarHeaderSize = 20

// gvarLongOffsets is the flags bit selecting Offset32 glyph variation data offsets.
const gvarLongOffsets = 0x0001

// GvarTable represents the Glyph Variations table (gvar) of variable fonts.
// https://docs.microsoft.com/en-us/typography/opentype/spec/gvar
//
// The shared tuple records and each glyph's variation data are carried as opaque bytes. The
// table is always written with long offsets.
type GvarTable struct {
	majorVersion uint16
	minorVersion uint16
	axisCount    uint16
	sharedTuples []byte // sharedTupleCount * axisCount F2DOT14 values.

	// Variations holds the variation data of each glyph, indexed by glyph ID. Empty for glyphs
	// without variations.
	Variations [][]byte
}

// Subset returns a copy of `t` holding the variation data of the glyphs in `keep`, in that order.
func (t *GvarTable) Subset(keep []GlyphIndex) *GvarTable {
	dup := *t
	dup.Variations = make([][]byte, len(keep))
	for i, gid := range keep {
		if int(gid) < len(t.Variations) {
			dup.Variations[i] = t.Variations[gid]
		}
	}
	return &dup
}

func (f *Font) parseGvar(r *byteReader) (*GvarTable, error) {
	data, err := f.readTableData(r, tagGvar)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // static font.
	}

	br := newByteReader(bytes.NewReader(data))
	t := &GvarTable{}
	var sharedTupleCount, glyphCount, flags uint16
	var sharedTuplesOffset, dataArrayOffset offset32
	err = br.read(&t.majorVersion, &t.minorVersion, &t.axisCount, &sharedTupleCount, &sharedTuplesOffset)
	if err != nil {
		return nil, err
	}
	err = br.read(&glyphCount, &flags, &dataArrayOffset)
	if err != nil {
		return nil, err
	}
	if f.Maxp != nil && glyphCount != f.Maxp.numGlyphs {
		common.Log.Debug("gvar glyphCount != maxp.numGlyphs (%d != %d)", glyphCount, f.Maxp.numGlyphs)
		return nil, errRangeCheck
	}

	offsets := make([]uint32, 0, int(glyphCount)+1)
	if flags&gvarLongOffsets != 0 {
		var offs []offset32
		err = br.readSlice(&offs, int(glyphCount)+1)
		for _, off := range offs {
			offsets = append(offsets, uint32(off))
		}
	} else {
		var offs []offset16
		err = br.readSlice(&offs, int(glyphCount)+1)
		for _, off := range offs {
			offsets = append(offsets, 2*uint32(off))
		}
	}
	if err != nil {
		return nil, err
	}

	tuplesLen := 2 * int(t.axisCount) * int(sharedTupleCount)
	if int(sharedTuplesOffset)+tuplesLen > len(data) {
		common.Log.Debug("gvar shared tuples outside table")
		return nil, errRangeCheck
	}
	t.sharedTuples = append([]byte(nil), data[sharedTuplesOffset:int(sharedTuplesOffset)+tuplesLen]...)

	t.Variations = make([][]byte, glyphCount)
	for i := 0; i < int(glyphCount); i++ {
		start := int(dataArrayOffset) + int(offsets[i])
		end := int(dataArrayOffset) + int(offsets[i+1])
		if start > end || end > len(data) {
			common.Log.Debug("gvar: glyph %d variation data outside table (%d-%d)", i, start, end)
			return nil, errRangeCheck
		}
		t.Variations[i] = data[start:end]
	}
	common.Log.Debug("gvar: %d axes, %d shared tuples, %d glyphs", t.axisCount, sharedTupleCount, glyphCount)

	return t, nil
}

func (f *Font) writeGvar(w *byteWriter) error {
	if f.Gvar == nil {
		return errRequiredField
	}
	t := f.Gvar
	if f.Maxp != nil && len(t.Variations) != int(f.Maxp.numGlyphs) {
		common.Log.Debug("gvar: %d glyph variations for %d glyphs", len(t.Variations), f.Maxp.numGlyphs)
		return errRangeCheck
	}

	sharedTupleCount := 0
	if t.axisCount > 0 {
		sharedTupleCount = len(t.sharedTuples) / (2 * int(t.axisCount))
	}
	glyphCount := len(t.Variations)
	sharedTuplesOffset := gvarHeaderSize + 4*(glyphCount+1)
	dataArrayOffset := sharedTuplesOffset + len(t.sharedTuples)

	err := w.write(t.majorVersion, t.minorVersion, t.axisCount, uint16(sharedTupleCount), offset32(sharedTuplesOffset))
	if err != nil {
		return err
	}
	err = w.write(uint16(glyphCount), uint16(gvarLongOffsets), offset32(dataArrayOffset))
	if err != nil {
		return err
	}

	var off uint32
	for _, v := range t.Variations {
		err = w.writeOffset32(offset32(off))
		if err != nil {
			return err
		}
		off += uint32(len(v)+1) &^ 1
	}
	err = w.writeOffset32(offset32(off))
	if err != nil {
		return err
	}

	err = w.writeBytes(t.sharedTuples)
	if err != nil {
		return err
	}
	for _, v := range t.Variations {
		err = w.writeBytes(v)
		if err != nil {
			return err
		}
		if len(v)%2 != 0 {
			err = w.writeUint8(0)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
