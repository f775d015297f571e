/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fontshuffle

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/shuffle"
	"github.com/unidoc/fontshuffle/internal/subset"
	"github.com/unidoc/fontshuffle/internal/truetype"
)

// Result is the output of Obfuscate.
type Result struct {
	// Text is the input text with every remapped rune replaced by its decoy.
	Text string

	// Font is the serialized obfuscated font.
	Font []byte

	// Remap maps the original codepoints of the range to their decoys.
	Remap shuffle.RemapTable
}

// Base64 returns the font encoded as standard base64.
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.Font)
}

// FontFace returns a CSS @font-face rule declaring `family` with the font embedded as a data
// URL.
func (r *Result) FontFace(family string) string {
	var b strings.Builder
	b.WriteString("@font-face {\n")
	fmt.Fprintf(&b, "  font-family: '%s';\n", family)
	fmt.Fprintf(&b, "  src: url('data:font/ttf;base64,%s') format('truetype');\n", r.Base64())
	b.WriteString("}\n")
	return b.String()
}

// LoadFont loads a font from file.
func LoadFont(filePath string) (*truetype.Font, error) {
	font, err := truetype.ParseFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", filePath, err)
	}
	return font, nil
}

// ParseFont parses a font from `data`.
func ParseFont(data []byte) (*truetype.Font, error) {
	font, err := truetype.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return font, nil
}

// ObfuscateFile loads the font at `filePath` and obfuscates `text` with it.
func ObfuscateFile(filePath, text string, opts Options) (*Result, error) {
	font, err := LoadFont(filePath)
	if err != nil {
		return nil, err
	}
	return Obfuscate(font, text, opts)
}

// Obfuscate shuffles the codepoints of `opts.Range` in `font`, translates `text` to the decoy
// codepoints and serializes the resulting font, subset to the text if `opts.Subset` is set.
// `font` is not modified.
func Obfuscate(font *truetype.Font, text string, opts Options) (*Result, error) {
	if font.Cmap == nil {
		return nil, shuffle.ErrNoCmap
	}

	cmap, remap, err := shuffle.Shuffle(font.Cmap, opts.Range, opts.source(), shuffle.Options{
		KeepNonUnicode: opts.KeepNonUnicode,
	})
	if err != nil {
		return nil, err
	}

	shuffled := font.Copy()
	shuffled.Cmap = cmap
	if font.OS2 != nil {
		if first, last, ok := cmap.CharRange(); ok {
			shuffled.OS2 = font.OS2.WithCharRange(first, last)
		}
	}

	obfText := shuffle.RemapText(text, remap)

	out := shuffled
	if opts.Subset {
		out, err = subset.SubsetWithOptions(shuffled, obfText, subset.Options{
			KeepNotdef: opts.KeepNotdef,
			FamilyName: opts.FamilyName,
		})
		if err != nil {
			return nil, err
		}
	}

	data, err := out.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serialize font: %w", err)
	}
	common.Log.Debug("obfuscated %d runes, %d codepoints remapped, font %d bytes (%d glyphs)",
		len([]rune(text)), len(remap), len(data), out.NumGlyphs())

	if opts.Verify {
		if err := verify(data, out, remappedRunes(obfText, remap)); err != nil {
			return nil, err
		}
	}

	return &Result{
		Text:  obfText,
		Font:  data,
		Remap: remap,
	}, nil
}

// remappedRunes returns the distinct runes of `text` that are decoys in `remap`.
func remappedRunes(text string, remap shuffle.RemapTable) []rune {
	decoys := remap.Decoys()
	seen := map[rune]bool{}
	var runes []rune
	for _, r := range text {
		if decoys[r] && !seen[r] {
			seen[r] = true
			runes = append(runes, r)
		}
	}
	return runes
}
