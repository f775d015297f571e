/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fontshuffle

import (
	"fmt"

	"golang.org/x/image/font/sfnt"

	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/truetype"
)

// verify parses `data` with the sfnt package of golang.org/x/image, independently of the
// writer, and checks each of `runes` resolves to the glyph `font` maps it to.
func verify(data []byte, font *truetype.Font, runes []rune) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		common.Log.Debug("verify: parse failed: %v", err)
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
	if f.NumGlyphs() != font.NumGlyphs() {
		return fmt.Errorf("%w: %d glyphs, want %d", ErrVerify, f.NumGlyphs(), font.NumGlyphs())
	}

	var mapping map[rune]truetype.GlyphIndex
	if best := font.Cmap.Best(); best != nil {
		mapping = best.Mapping
	}

	var buf sfnt.Buffer
	for _, r := range runes {
		want, ok := mapping[r]
		if !ok {
			common.Log.Debug("verify: U+%04X not mapped", r)
			return fmt.Errorf("%w: U+%04X has no glyph", ErrVerify, r)
		}
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return fmt.Errorf("%w: U+%04X: %w", ErrVerify, r, err)
		}
		if truetype.GlyphIndex(gid) != want {
			common.Log.Debug("verify: U+%04X resolves to glyph %d, want %d", r, gid, want)
			return fmt.Errorf("%w: U+%04X resolves to glyph %d, want %d", ErrVerify, r, gid, want)
		}
	}
	common.Log.Trace("verify: %d runes resolved, %d glyphs", len(runes), f.NumGlyphs())
	return nil
}
