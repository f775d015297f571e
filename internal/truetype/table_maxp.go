/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import "github.com/unidoc/fontshuffle/common"

const (
	maxpVersion05 = 0x00005000
	maxpVersion10 = 0x00010000
)

// MaxpTable represents the Maximum Profile (maxp) table.
// This table establishes the memory requirements for the font.
type MaxpTable struct {
	// Version 0.5 and above:
	version   fixed
	numGlyphs uint16

	// Version 1.0 and above:
	maxPoints             uint16
	maxContours           uint16
	maxCompositePoints    uint16
	maxCompositeContours  uint16
	maxZones              uint16
	maxTwilightPoints     uint16
	maxStorage            uint16
	maxFunctionDefs       uint16
	maxInstructionDefs    uint16
	maxStackElements      uint16
	maxSizeOfInstructions uint16
	maxComponentElements  uint16
	maxComponentDepth     uint16
}

// NumGlyphs returns the number of glyphs in the font.
func (t *MaxpTable) NumGlyphs() int {
	return int(t.numGlyphs)
}

// WithNumGlyphs returns a copy of `t` with the glyph count set to `n`.
func (t *MaxpTable) WithNumGlyphs(n int) *MaxpTable {
	dup := *t
	dup.numGlyphs = uint16(n)
	return &dup
}

func (f *Font) parseMaxp(r *byteReader) (*MaxpTable, error) {
	_, has, err := f.seekToTable(r, tagMaxp)
	if err != nil {
		return nil, err
	}
	if !has {
		common.Log.Debug("maxp table not present")
		return nil, nil
	}

	t := &MaxpTable{}

	err = r.read(&t.version, &t.numGlyphs)
	if err != nil {
		return nil, err
	}

	if t.version < maxpVersion10 {
		if t.version != maxpVersion05 {
			common.Log.Debug("Range check error: maxp version 0x%08X", t.version)
			return nil, errRangeCheck
		}
		// Version 0.5 (CFF outlines) only has the glyph count.
		return t, nil
	}

	err = r.read(&t.maxPoints, &t.maxContours, &t.maxCompositePoints, &t.maxCompositeContours)
	if err != nil {
		return nil, err
	}

	err = r.read(&t.maxZones, &t.maxTwilightPoints, &t.maxStorage, &t.maxFunctionDefs, &t.maxInstructionDefs)
	if err != nil {
		return nil, err
	}

	return t, r.read(&t.maxStackElements, &t.maxSizeOfInstructions, &t.maxComponentElements, &t.maxComponentDepth)
}

func (f *Font) writeMaxp(w *byteWriter) error {
	if f.Maxp == nil {
		return errRequiredField
	}
	t := f.Maxp
	err := w.write(t.version, t.numGlyphs)
	if err != nil {
		return err
	}

	if t.version < maxpVersion10 {
		return nil
	}

	err = w.write(t.maxPoints, t.maxContours, t.maxCompositePoints, t.maxCompositeContours)
	if err != nil {
		return err
	}

	err = w.write(t.maxZones, t.maxTwilightPoints, t.maxStorage, t.maxFunctionDefs, t.maxInstructionDefs)
	if err != nil {
		return err
	}

	return w.write(t.maxStackElements, t.maxSizeOfInstructions, t.maxComponentElements, t.maxComponentDepth)
}
