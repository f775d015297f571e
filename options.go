/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fontshuffle

import (
	"math/rand"
	"time"

	"github.com/unidoc/fontshuffle/internal/shuffle"
)

// Options controls Obfuscate.
type Options struct {
	// Range holds the codepoints that are moved to decoys.
	Range shuffle.Range

	// Rand is the source of the decoy permutation. When nil, a source seeded with Seed is
	// created, or with the current time if Seed is 0.
	Rand *rand.Rand
	Seed int64

	// Subset reduces the font to the glyphs of the text.
	Subset bool

	// KeepNotdef retains glyph 0 in subsets.
	KeepNotdef bool

	// KeepNonUnicode carries cmap subtables other than formats 4 and 12 through the shuffle.
	// Subsets drop them regardless.
	KeepNonUnicode bool

	// Verify re-parses the output with golang.org/x/image/font/sfnt and checks every obfuscated
	// rune of the text resolves to a glyph.
	Verify bool

	// FamilyName names the subset font. A random "Shuffled-" name is used when empty. Ignored
	// when not subsetting.
	FamilyName string
}

// DefaultOptions returns the options for obfuscating CJK text: the CJK Unified Ideographs
// block is shuffled and the font is subset to the text, keeping .notdef.
func DefaultOptions() Options {
	return Options{
		Range:      shuffle.CJKRange,
		Subset:     true,
		KeepNotdef: true,
	}
}

func (o Options) source() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
