/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package subset reduces a font to the glyphs needed to render a text, rebuilding every table
// that depends on glyph IDs.
package subset

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/truetype"
)

// Options controls SubsetWithOptions. The zero value matches Subset.
type Options struct {
	// KeepNotdef retains glyph 0 (.notdef) even if no rune of the text maps to it.
	KeepNotdef bool

	// FamilyName is the family recorded in the name table of the subset. A random
	// "Shuffled-xxxxxxxx" name is generated when empty.
	FamilyName string
}

// Subset returns a new font holding only the glyphs `text` needs. Runes without a glyph are
// skipped. `font` is not modified.
func Subset(font *truetype.Font, text string) (*truetype.Font, error) {
	return SubsetWithOptions(font, text, Options{})
}

// SubsetWithOptions is Subset controlled by `opts`.
func SubsetWithOptions(font *truetype.Font, text string, opts Options) (*truetype.Font, error) {
	for _, tableName := range requiredTables {
		if !font.HasTable(tableName) {
			common.Log.Debug("subset: %s table missing", tableName)
			return nil, fmt.Errorf("%w: %s", ErrMissingTable, tableName)
		}
	}

	numGlyphs := font.NumGlyphs()
	required, retained := resolve(font, text, numGlyphs)
	if opts.KeepNotdef && numGlyphs > 0 {
		retained[0] = true
	}
	if err := closeComposites(font.Glyf, retained); err != nil {
		return nil, err
	}

	keep := make([]truetype.GlyphIndex, 0, len(retained))
	for gid := range retained {
		keep = append(keep, gid)
	}
	sort.Slice(keep, func(i, j int) bool { return keep[i] < keep[j] })
	gidMap := make(map[truetype.GlyphIndex]truetype.GlyphIndex, len(keep))
	for i, gid := range keep {
		gidMap[gid] = truetype.GlyphIndex(i)
	}
	common.Log.Debug("subset: %d runes, %d of %d glyphs retained", len(required), len(keep), numGlyphs)

	out := truetype.NewFont(font.SfntVersion())

	glyf, loca, err := subsetGlyphs(font.Glyf, keep, gidMap)
	if err != nil {
		return nil, err
	}
	out.Glyf = glyf
	out.Loca = loca

	out.Head = font.Head
	if font.Head.ShortOffsets() && !loca.FitsShort() {
		common.Log.Debug("subset: glyph data exceeds the short loca format, switching to long offsets")
		out.Head = font.Head.WithShortOffsets(false)
	}

	out.Hmtx, err = font.Hmtx.Subset(keep)
	if err != nil {
		return nil, err
	}
	out.Maxp = font.Maxp.WithNumGlyphs(len(keep))
	out.Hhea = font.Hhea.WithNumberOfHMetrics(len(keep))
	if font.Gvar != nil {
		out.Gvar = font.Gvar.Subset(keep)
	}
	if font.Post != nil {
		out.Post = font.Post.Subset(keep)
	}

	out.Cmap = subsetCmap(font.Cmap, required, gidMap)
	if font.OS2 != nil {
		out.OS2 = font.OS2
		if first, last, ok := out.Cmap.CharRange(); ok {
			out.OS2 = font.OS2.WithCharRange(first, last)
		}
	}

	family := opts.FamilyName
	if family == "" {
		family = NewFamilyName()
	}
	out.Name = truetype.NewNameTable(family, "Regular")

	for _, tableName := range font.RawTags() {
		if passThroughTables[tableName] {
			out.SetRawTable(tableName, font.RawTable(tableName))
		} else {
			common.Log.Debug("subset: dropping %s", tableName)
		}
	}

	return out, nil
}

// NewFamilyName returns a family name made of the "Shuffled-" prefix and 8 hex digits of a
// random UUID.
func NewFamilyName() string {
	return familyPrefix + uuid.New().String()[:8]
}

// resolve looks up the runes of `text` in the best Unicode cmap. Returns the set of runes and
// the set of glyphs they resolve to.
func resolve(font *truetype.Font, text string, numGlyphs int) (map[rune]bool, map[truetype.GlyphIndex]bool) {
	required := map[rune]bool{}
	retained := map[truetype.GlyphIndex]bool{}

	best := font.Cmap.Best()
	if best == nil {
		common.Log.Debug("subset: no Unicode cmap subtable")
	}
	for _, r := range text {
		required[r] = true
		if best == nil {
			continue
		}
		gid, ok := best.Mapping[r]
		if !ok || gid == 0 {
			common.Log.Trace("subset: no glyph for U+%04X", r)
			continue
		}
		if int(gid) >= numGlyphs {
			common.Log.Debug("subset: U+%04X maps to glyph %d outside the font (%d)", r, gid, numGlyphs)
			continue
		}
		retained[gid] = true
	}
	return required, retained
}

// closeComposites adds the components of retained composite glyphs to `retained`, recursively.
func closeComposites(glyf *truetype.GlyfTable, retained map[truetype.GlyphIndex]bool) error {
	var queue []truetype.GlyphIndex
	for gid := range retained {
		queue = append(queue, gid)
	}
	for len(queue) > 0 {
		gid := queue[0]
		queue = queue[1:]

		components, err := glyf.Glyphs[gid].Components()
		if err != nil {
			common.Log.Debug("subset: glyph %d: %v", gid, err)
			return err
		}
		for _, comp := range components {
			if int(comp) >= len(glyf.Glyphs) {
				common.Log.Debug("subset: glyph %d references missing component %d", gid, comp)
				return fmt.Errorf("glyph %d: component %d outside font", gid, comp)
			}
			if !retained[comp] {
				retained[comp] = true
				queue = append(queue, comp)
			}
		}
	}
	return nil
}

// subsetCmap keeps the Unicode subtable entries for `required` runes whose glyphs were retained,
// renumbered through `gidMap`. Non-Unicode subtables are dropped.
func subsetCmap(cmap *truetype.CmapTable, required map[rune]bool, gidMap map[truetype.GlyphIndex]truetype.GlyphIndex) *truetype.CmapTable {
	var subtables []*truetype.CmapSubtable
	for _, st := range cmap.Subtables {
		if !st.IsUnicode() {
			common.Log.Debug("subset: dropping cmap subtable (%d,%d) format %d", st.PlatformID, st.EncodingID, st.Format)
			continue
		}
		mapping := map[rune]truetype.GlyphIndex{}
		for r := range required {
			gid, ok := st.Mapping[r]
			if !ok {
				continue
			}
			newGID, ok := gidMap[gid]
			if !ok {
				continue
			}
			mapping[r] = newGID
		}
		subtables = append(subtables, st.WithMapping(mapping))
	}
	return cmap.WithSubtables(subtables)
}
