/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"errors"

	"github.com/unidoc/fontshuffle/common"
)

// Supported post table versions.
const (
	postVersion1  = 0x00010000
	postVersion2  = 0x00020000
	postVersion25 = 0x00025000
	postVersion3  = 0x00030000
)

// PostTable represents a PostScript (post) table.
// This table contains additional information needed for use on PostScript printers.
// Includes FontInfo dictionary entries and the PostScript names of all glyphs.
//
//  - version 1.0 is used the font file contains exactly the 258 glyphs in the standard Macintosh TrueType font file.
//    Glyph list on: https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6post.html
//  - version 2.0 is used for fonts that contain some glyphs not in the standard set or have different ordering.
//  - version 2.5 can handle nonstandard ordering of the standard mac glyphs via offsets.
//  - other versions do not contain post glyph name data.
//
// Versions 2.0 and 2.5 are written back as 2.0. Fonts without glyph names are written with the
// 32 byte header only.
type PostTable struct {
	// header (all versions).
	version            fixed
	italicAngle        fixed // in degrees.
	underlinePosition  fword
	underlineThickness fword
	isFixedPitch       uint32
	minMemType42       uint32
	maxMemType42       uint32
	minMemType1        uint32
	maxMemType1        uint32

	// Processed data:
	glyphNames []GlyphName // len = numGlyphs, index is GlyphID (GID), glyphNames[GlyphID] -> GlyphName.
}

// GlyphNames returns the glyph names indexed by glyph ID, or nil if the table carries none.
func (t *PostTable) GlyphNames() []GlyphName {
	return t.glyphNames
}

// HasGlyphNames returns true if the table carries per glyph names.
func (t *PostTable) HasGlyphNames() bool {
	return t.glyphNames != nil
}

// Subset returns a copy of `t` holding the names of the glyphs in `keep`, in that order. Tables
// carrying names are switched to version 2.0; tables without names keep their version.
func (t *PostTable) Subset(keep []GlyphIndex) *PostTable {
	dup := *t
	if t.glyphNames == nil {
		return &dup
	}
	dup.version = postVersion2
	dup.glyphNames = make([]GlyphName, len(keep))
	for i, gid := range keep {
		if int(gid) < len(t.glyphNames) {
			dup.glyphNames[i] = t.glyphNames[gid]
		}
	}
	return &dup
}

/*
 See https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6post.html
 and https://docs.microsoft.com/en-us/typography/opentype/spec/post
 for details regarding the format.
*/

func (f *Font) parsePost(r *byteReader) (*PostTable, error) {
	common.Log.Debug("Parsing post table")
	if f.Maxp == nil {
		// maxp table required for numGlyphs check.
		common.Log.Debug("Required maxp table missing")
		return nil, errRequiredField
	}

	tr, has, err := f.seekToTable(r, tagPost)
	if err != nil {
		return nil, err
	}
	if !has {
		common.Log.Debug("Post table not present")
		return nil, nil
	}

	start := r.Offset()

	t := &PostTable{}
	err = r.read(&t.version, &t.italicAngle, &t.underlinePosition, &t.underlineThickness, &t.isFixedPitch)
	if err != nil {
		return nil, err
	}
	err = r.read(&t.minMemType42, &t.maxMemType42, &t.minMemType1, &t.maxMemType1)
	if err != nil {
		return nil, err
	}

	numGlyphs := f.Maxp.numGlyphs

	common.Log.Debug("Version: %v %v 0x%X", t.version, t.version.Float64(), t.version)
	switch uint32(t.version) {
	case postVersion1:
		if int(numGlyphs) <= len(macGlyphNames) {
			t.glyphNames = append([]GlyphName(nil), macGlyphNames[:numGlyphs]...)
		}
	case postVersion2:
		common.Log.Trace("Version: 2.0")
		var postGlyphs uint16
		err = r.read(&postGlyphs)
		if err != nil {
			return nil, err
		}
		common.Log.Debug("numGlyphs: %d", postGlyphs)
		if postGlyphs != numGlyphs {
			common.Log.Debug("post numGlyphs != maxp.numGlyphs (%d != %d)", postGlyphs, numGlyphs)
			return nil, errRangeCheck
		}
		var glyphNameIndex []uint16
		err = r.readSlice(&glyphNameIndex, int(postGlyphs))
		if err != nil {
			return nil, err
		}
		newGlyphs := 0
		for _, ni := range glyphNameIndex {
			if ni >= 258 && ni <= 32767 && int(ni)-258 >= newGlyphs {
				newGlyphs = int(ni) - 258 + 1
			}
		}
		common.Log.Trace("newGlyphs: %d", newGlyphs)
		var names []string
		for i := 0; i < newGlyphs; i++ {
			if r.Offset()-start >= int64(tr.length) {
				common.Log.Debug("ERROR: Reading outside post table")
				common.Log.Debug("%d > %d", r.Offset()-start, tr.length)
				return nil, errors.New("reading outside table")
			}
			var numChars uint8
			err = r.read(&numChars)
			if err != nil {
				return nil, err
			}

			var name []byte
			err = r.readBytes(&name, int(numChars))
			if err != nil {
				common.Log.Debug("ERROR: %v", err)
				return nil, err
			}

			names = append(names, string(name))
		}

		t.glyphNames = make([]GlyphName, int(postGlyphs))
		for i := 0; i < int(postGlyphs); i++ {
			var name GlyphName

			ni := glyphNameIndex[i]
			if ni < 258 {
				name = macGlyphNames[ni]
			} else if ni <= 32767 {
				ni -= 258
				if int(ni) >= len(names) {
					common.Log.Debug("ERROR: Glyph %d referring to outside name list (%d)", i, ni)
					return nil, errRangeCheck
				}
				name = GlyphName(names[ni])
			}
			common.Log.Trace("GID %d -> '%s'", i, name)
			t.glyphNames[i] = name
		}
		common.Log.Debug("len(names) = %d", len(names))

	case postVersion25:
		common.Log.Trace("Version: 2.5")
		var postGlyphs uint16
		err = r.read(&postGlyphs)
		if err != nil {
			return nil, err
		}
		if postGlyphs != numGlyphs {
			common.Log.Debug("post numGlyphs != maxp.numGlyphs (%d != %d)", postGlyphs, numGlyphs)
			return nil, errRangeCheck
		}
		var offsets []int8
		err = r.readSlice(&offsets, int(postGlyphs))
		if err != nil {
			return nil, err
		}
		t.glyphNames = make([]GlyphName, int(postGlyphs))
		for i := 0; i < int(postGlyphs); i++ {
			nameIndex := i + 1 + int(offsets[i])
			if nameIndex < 0 || nameIndex > 257 {
				common.Log.Debug("ERROR: name index outside range (%d)", nameIndex)
				continue
			}
			t.glyphNames[i] = macGlyphNames[nameIndex]
			common.Log.Trace("2.5 I: %d -> %s", i, t.glyphNames[i])
		}

	case postVersion3:
		common.Log.Debug("Version 3.0 - no postscript data")
	default:
		common.Log.Debug("Unsupported version of post (%d) - no post data loaded", t.version)
		t.version = postVersion3
	}

	return t, nil
}

// writePost writes the table header followed by the version 2.0 glyph name data when names
// are present.
func (f *Font) writePost(w *byteWriter) error {
	if f.Post == nil {
		return errRequiredField
	}
	t := f.Post

	version := t.version
	if t.glyphNames != nil && version != postVersion1 {
		version = postVersion2
	}
	if version == postVersion1 && f.Maxp != nil && len(t.glyphNames) != int(f.Maxp.numGlyphs) {
		// Standard ordering only holds when the glyph set has not changed.
		version = postVersion2
	}
	if t.glyphNames == nil && version != postVersion1 {
		version = postVersion3
	}

	err := w.write(version, t.italicAngle, t.underlinePosition, t.underlineThickness, t.isFixedPitch)
	if err != nil {
		return err
	}
	err = w.write(t.minMemType42, t.maxMemType42, t.minMemType1, t.maxMemType1)
	if err != nil {
		return err
	}
	if version != postVersion2 {
		return nil
	}

	if f.Maxp != nil && len(t.glyphNames) != int(f.Maxp.numGlyphs) {
		common.Log.Debug("post: %d names for %d glyphs", len(t.glyphNames), f.Maxp.numGlyphs)
		return errRangeCheck
	}

	indices := make([]uint16, len(t.glyphNames))
	var custom []GlyphName
	customIndex := map[GlyphName]uint16{}
	for i, name := range t.glyphNames {
		if idx, ok := macGlyphIndex[name]; ok {
			indices[i] = idx
			continue
		}
		idx, ok := customIndex[name]
		if !ok {
			idx = uint16(258 + len(custom))
			customIndex[name] = idx
			custom = append(custom, name)
		}
		indices[i] = idx
	}

	err = w.writeUint16(uint16(len(indices)))
	if err != nil {
		return err
	}
	err = w.writeSlice(indices)
	if err != nil {
		return err
	}
	for _, name := range custom {
		b := []byte(name)
		if len(b) > 255 {
			b = b[:255]
		}
		err = w.writeUint8(uint8(len(b)))
		if err != nil {
			return err
		}
		err = w.writeBytes(b)
		if err != nil {
			return err
		}
	}
	return nil
}
