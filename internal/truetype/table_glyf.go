/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"encoding/binary"
	"errors"
	"strings"

	"github.com/unidoc/fontshuffle/common"
)

// GlyfTable represents the Glyph Data table (glyf).
// Information that describes the glyphs in the font in the TrueType outline format.
//
// The 'glyf' table is comprised of a list of glyph data blocks, each of which provides
// the description for a single glyph. Glyphs are referenced by identifiers (glyph IDs),
// which are sequential integers beginning at zero. The 'glyf' table does not include any overall
// table header or records providing offsets to glyph data blocks. Rather, the 'loca' table
// provides an array of offsets, indexed by glyph IDs, which provide the location of each
// glyph data block within the 'glyf' table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf
//
// Glyph descriptions are kept as opaque byte blocks. Only composite glyph component references
// are interpreted, since they are glyph IDs that must follow a renumbering.
type GlyfTable struct {
	Glyphs []GlyphData
}

// GlyphData is the raw description of one glyph. Empty for glyphs without an outline
// (e.g. space).
type GlyphData []byte

// glyfGlyphHeaderSize is the size of the glyph header: numberOfContours, xMin, yMin, xMax, yMax.
const glyfGlyphHeaderSize = 10

func (f *Font) parseGlyf(r *byteReader) (*GlyfTable, error) {
	if f.Maxp == nil || f.Loca == nil {
		common.Log.Debug("required field missing (glyf)")
		return nil, errRequiredField
	}

	data, err := f.readTableData(r, tagGlyf)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // table not found.
	}

	common.Log.Debug("parsing glyfs")
	common.Log.Debug("Number of glyphs: %d", f.Maxp.numGlyphs)

	glyf := &GlyfTable{Glyphs: make([]GlyphData, 0, f.Maxp.numGlyphs)}
	for i := 0; i < int(f.Maxp.numGlyphs); i++ {
		gdOffset, gdLen, err := f.Loca.GlyphDataOffset(GlyphIndex(i))
		if err != nil {
			return nil, err
		}

		if gdOffset+gdLen > int64(len(data)) {
			common.Log.Debug("Range check error (glyf): glyph %d at %d+%d, table length %d", i, gdOffset, gdLen, len(data))
			return nil, errRangeCheck
		}
		glyf.Glyphs = append(glyf.Glyphs, GlyphData(data[gdOffset:gdOffset+gdLen]))
	}

	return glyf, nil
}

func (f *Font) writeGlyf(w *byteWriter) error {
	if f.Glyf == nil || f.Maxp == nil || f.Loca == nil {
		common.Log.Debug("glyf: required field missing (write)")
		return errRequiredField
	}

	if int(f.Maxp.numGlyphs) != len(f.Glyf.Glyphs) {
		common.Log.Debug("Incorrect number of glyph descriptions (%d != %d)", len(f.Glyf.Glyphs), f.Maxp.numGlyphs)
		return errRangeCheck
	}

	for i, gd := range f.Glyf.Glyphs {
		_, gdLen, err := f.Loca.GlyphDataOffset(GlyphIndex(i))
		if err != nil {
			return err
		}
		if int64(len(gd)) != gdLen {
			common.Log.Debug("glyf: glyph %d length %d does not match loca (%d)", i, len(gd), gdLen)
			return errRangeCheck
		}
		err = w.writeBytes(gd)
		if err != nil {
			return err
		}
	}

	return nil
}

// Compile returns the glyph data padded to a 4 byte boundary, the layout glyph blocks take in a
// serialized glyf table.
func (g GlyphData) Compile() []byte {
	n := len(g)
	padded := (n + 3) &^ 3
	out := make([]byte, padded)
	copy(out, g)
	return out
}

// NumberOfContours returns the contour count from the glyph header; negative for composite
// glyphs and zero for empty glyphs.
func (g GlyphData) NumberOfContours() int {
	if len(g) < glyfGlyphHeaderSize {
		return 0
	}
	return int(int16(binary.BigEndian.Uint16(g)))
}

// IsComposite returns true if `g` is a composite glyph description.
func (g GlyphData) IsComposite() bool {
	return g.NumberOfContours() < 0
}

// Components returns the glyph IDs referenced by a composite glyph. Nil for simple glyphs.
func (g GlyphData) Components() ([]GlyphIndex, error) {
	var gids []GlyphIndex
	err := g.walkComponents(func(pos int, gid GlyphIndex) {
		gids = append(gids, gid)
	})
	return gids, err
}

// RemapComponents returns a copy of `g` with every component reference replaced through
// `gidMap`. Simple glyphs are returned unchanged.
func (g GlyphData) RemapComponents(gidMap map[GlyphIndex]GlyphIndex) (GlyphData, error) {
	if !g.IsComposite() {
		return g, nil
	}
	dup := make(GlyphData, len(g))
	copy(dup, g)

	var mapErr error
	err := g.walkComponents(func(pos int, gid GlyphIndex) {
		newGID, ok := gidMap[gid]
		if !ok {
			common.Log.Debug("composite component %d not retained", gid)
			mapErr = errors.New("composite component not retained")
			return
		}
		binary.BigEndian.PutUint16(dup[pos:], uint16(newGID))
	})
	if err != nil {
		return nil, err
	}
	if mapErr != nil {
		return nil, mapErr
	}
	return dup, nil
}

// walkComponents calls `fn` with the byte position and glyph ID of every component of a
// composite glyph.
func (g GlyphData) walkComponents(fn func(pos int, gid GlyphIndex)) error {
	if !g.IsComposite() {
		return nil
	}
	pos := glyfGlyphHeaderSize
	for {
		if pos+4 > len(g) {
			common.Log.Debug("composite glyph truncated at %d", pos)
			return errRangeCheck
		}
		flags := compositeGlyphFlag(binary.BigEndian.Uint16(g[pos:]))
		fn(pos+2, GlyphIndex(binary.BigEndian.Uint16(g[pos+2:])))
		common.Log.Trace("component flags: %s", flags)
		pos += 4

		if flags.IsSet(arg1And2AreWords) {
			pos += 4
		} else {
			pos += 2
		}
		switch {
		case flags.IsSet(weHaveAScale):
			pos += 2
		case flags.IsSet(weHaveAnXAndYScale):
			pos += 4
		case flags.IsSet(weHaveATwoByTwo):
			pos += 8
		}

		if !flags.IsSet(moreComponents) {
			break
		}
	}
	if pos > len(g) {
		common.Log.Debug("composite glyph truncated at %d", pos)
		return errRangeCheck
	}
	return nil
}

type compositeGlyphFlag uint16

const (
	arg1And2AreWords compositeGlyphFlag = (1 << iota) // If set, the args are 16-bit (uint16/int16), otherwise uint8/int8.
	argsAreXYValues                                   // If set, the args are signed xy values (otherwise unsigned).
	roundXYToGrid
	weHaveAScale
	_              // reserved
	moreComponents // Indicates at least one glyph following this one.
	weHaveAnXAndYScale
	weHaveATwoByTwo
	weHaveInstructions
	useMyMetrics
	overlapCompound
	scaledComponentOffset
	unscaledComponentOffset
)

func (f compositeGlyphFlag) IsSet(flag compositeGlyphFlag) bool {
	return f&flag != 0
}

func (f compositeGlyphFlag) String() string {
	names := []struct {
		flag compositeGlyphFlag
		name string
	}{
		{arg1And2AreWords, "arg1And2AreWords"},
		{argsAreXYValues, "argsAreXYValues"},
		{roundXYToGrid, "roundXYToGrid"},
		{weHaveAScale, "weHaveAScale"},
		{moreComponents, "moreComponents"},
		{weHaveAnXAndYScale, "weHaveAnXAndYScale"},
		{weHaveATwoByTwo, "weHaveATwoByTwo"},
		{weHaveInstructions, "weHaveInstructions"},
		{useMyMetrics, "useMyMetrics"},
		{overlapCompound, "overlapCompound"},
		{scaledComponentOffset, "scaledComponentOffset"},
		{unscaledComponentOffset, "unscaledComponentOffset"},
	}

	var flags []string
	for _, n := range names {
		if f.IsSet(n.flag) {
			flags = append(flags, n.name)
		}
	}
	return strings.Join(flags, "|")
}
