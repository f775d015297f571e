/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"errors"

	"github.com/unidoc/fontshuffle/common"
)

const headMagicNumber = 0x5F0F3CF5

// HeadTable represents the font header (head).
// https://docs.microsoft.com/en-us/typography/opentype/spec/head
type HeadTable struct {
	majorVersion       uint16
	minorVersion       uint16
	fontRevision       fixed
	checksumAdjustment uint32
	magicNumber        uint32
	flags              uint16
	unitsPerEm         uint16
	created            longdatetime
	modified           longdatetime
	xMin               int16
	yMin               int16
	xMax               int16
	yMax               int16
	macStyle           uint16
	lowestRecPPEM      uint16
	fontDirectionHint  int16
	indexToLocFormat   int16
	glyphDataFormat    int16
}

// ShortOffsets returns true when the loca table uses the short (Offset16/2) format.
func (t *HeadTable) ShortOffsets() bool {
	return t.indexToLocFormat == 0
}

// UnitsPerEm returns the design units per em.
func (t *HeadTable) UnitsPerEm() uint16 {
	return t.unitsPerEm
}

// WithShortOffsets returns a copy of `t` with the loca format set to short or long.
func (t *HeadTable) WithShortOffsets(short bool) *HeadTable {
	dup := *t
	dup.indexToLocFormat = 1
	if short {
		dup.indexToLocFormat = 0
	}
	return &dup
}

// parse the font's *head* table from `r` in the context of `f`.
func (f *Font) parseHead(r *byteReader) (*HeadTable, error) {
	_, has, err := f.seekToTable(r, tagHead)
	if err != nil {
		return nil, err
	}
	if !has {
		common.Log.Debug("head table absent")
		return nil, nil
	}

	t := &HeadTable{}
	err = r.read(&t.majorVersion, &t.minorVersion, &t.fontRevision)
	if err != nil {
		return nil, err
	}

	err = r.read(&t.checksumAdjustment, &t.magicNumber)
	if err != nil {
		return nil, err
	}
	if t.magicNumber != headMagicNumber {
		return nil, errors.New("magic number mismatch")
	}

	err = r.read(&t.flags, &t.unitsPerEm, &t.created, &t.modified)
	if err != nil {
		return nil, err
	}

	err = r.read(&t.xMin, &t.yMin, &t.xMax, &t.yMax)
	if err != nil {
		return nil, err
	}

	err = r.read(&t.macStyle, &t.lowestRecPPEM, &t.fontDirectionHint, &t.indexToLocFormat, &t.glyphDataFormat)
	if err != nil {
		return nil, err
	}
	if t.indexToLocFormat < 0 || t.indexToLocFormat > 1 {
		common.Log.Debug("Invalid index to loca format: %d", t.indexToLocFormat)
		return nil, errRangeCheck
	}
	return t, nil
}

// writeHead writes the head table with a zero checksum adjustment. The adjustment is patched
// once the whole font has been laid out.
func (f *Font) writeHead(w *byteWriter) error {
	if f.Head == nil {
		return errRequiredField
	}
	t := f.Head
	err := w.write(t.majorVersion, t.minorVersion, t.fontRevision, uint32(0), t.magicNumber)
	if err != nil {
		return err
	}

	err = w.write(t.flags, t.unitsPerEm, t.created, t.modified, t.xMin, t.yMin, t.xMax, t.yMax)
	if err != nil {
		return err
	}

	return w.write(t.macStyle, t.lowestRecPPEM, t.fontDirectionHint, t.indexToLocFormat, t.glyphDataFormat)
}
