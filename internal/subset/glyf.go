/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package subset

import (
	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/truetype"
)

// subsetGlyphs returns the glyph data of `keep` in that order, with composite references
// renumbered, and the matching loca offsets. Each glyph is padded to 4 bytes; empty glyphs
// produce two equal consecutive offsets.
func subsetGlyphs(glyf *truetype.GlyfTable, keep []truetype.GlyphIndex,
	gidMap map[truetype.GlyphIndex]truetype.GlyphIndex) (*truetype.GlyfTable, *truetype.LocaTable, error) {
	out := &truetype.GlyfTable{Glyphs: make([]truetype.GlyphData, 0, len(keep))}
	loca := &truetype.LocaTable{Offsets: make([]uint32, 0, len(keep)+1)}

	var offset uint32
	for _, gid := range keep {
		loca.Offsets = append(loca.Offsets, offset)

		data, err := glyf.Glyphs[gid].RemapComponents(gidMap)
		if err != nil {
			common.Log.Debug("subset: glyph %d: %v", gid, err)
			return nil, nil, err
		}
		compiled := truetype.GlyphData(data.Compile())
		common.Log.Trace("subset: glyph %d -> %d, %d bytes at %d", gid, gidMap[gid], len(compiled), offset)
		out.Glyphs = append(out.Glyphs, compiled)
		offset += uint32(len(compiled))
	}
	loca.Offsets = append(loca.Offsets, offset)

	return out, loca, nil
}
