/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package subset

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidoc/fontshuffle/internal/shuffle"
	"github.com/unidoc/fontshuffle/internal/testutil"
	"github.com/unidoc/fontshuffle/internal/truetype"
)

func parseFont(t *testing.T, data []byte) *truetype.Font {
	font, err := truetype.ParseBytes(data)
	require.NoError(t, err)
	return font
}

// roundTrip serializes `font` and parses it back.
func roundTrip(t *testing.T, font *truetype.Font) *truetype.Font {
	data, err := font.Bytes()
	require.NoError(t, err)
	require.NoError(t, truetype.Validate(bytes.NewReader(data)))
	return parseFont(t, data)
}

func checkConsistent(t *testing.T, font *truetype.Font) {
	n := font.NumGlyphs()
	assert.Len(t, font.Glyf.Glyphs, n)
	assert.Len(t, font.Hmtx.Metrics, n)
	assert.Equal(t, n, font.Hhea.NumberOfHMetrics())
	require.Len(t, font.Loca.Offsets, n+1)
	assert.Equal(t, uint32(0), font.Loca.Offsets[0])
	for i := 1; i < len(font.Loca.Offsets); i++ {
		assert.True(t, font.Loca.Offsets[i] >= font.Loca.Offsets[i-1], "loca %d", i)
		length := font.Loca.Offsets[i] - font.Loca.Offsets[i-1]
		assert.Equal(t, uint32(len(font.Glyf.Glyphs[i-1])), length, "glyph %d", i-1)
	}
	if font.Gvar != nil {
		assert.Len(t, font.Gvar.Variations, n)
	}
	if font.Post != nil && font.Post.HasGlyphNames() {
		assert.Len(t, font.Post.GlyphNames(), n)
	}
	for _, st := range font.Cmap.Unicode() {
		for r, gid := range st.Mapping {
			assert.True(t, int(gid) < n, "U+%04X -> %d", r, gid)
		}
	}
}

func TestSubsetASCII(t *testing.T) {
	font := parseFont(t, testutil.Font())

	sub, err := SubsetWithOptions(font, "AB", Options{FamilyName: "Test Subset"})
	require.NoError(t, err)
	checkConsistent(t, sub)

	require.Equal(t, 2, sub.NumGlyphs())
	assert.Equal(t, font.Glyf.Glyphs[testutil.GIDA], sub.Glyf.Glyphs[0])
	assert.Equal(t, font.Glyf.Glyphs[testutil.GIDB], sub.Glyf.Glyphs[1])
	assert.Equal(t, font.Hmtx.Metrics[testutil.GIDB], sub.Hmtx.Metrics[1])
	assert.Equal(t, []truetype.GlyphName{"A", "B"}, sub.Post.GlyphNames())

	best := sub.Cmap.Best()
	require.NotNil(t, best)
	assert.Equal(t, map[rune]truetype.GlyphIndex{'A': 0, 'B': 1}, best.Mapping)
	for _, st := range sub.Cmap.Subtables {
		assert.True(t, st.IsUnicode(), "(%d,%d)", st.PlatformID, st.EncodingID)
	}

	first, last := sub.OS2.CharRange()
	assert.Equal(t, uint16('A'), first)
	assert.Equal(t, uint16('B'), last)
	assert.Equal(t, "Test Subset", sub.GetNameByID(truetype.NameIDFamily))
	assert.Equal(t, "TestSubset-Regular", sub.GetNameByID(truetype.NameIDPostScriptName))

	assert.Nil(t, sub.RawTable("GSUB"))
	assert.NotNil(t, sub.RawTable("cvt"))

	reparsed := roundTrip(t, sub)
	checkConsistent(t, reparsed)
	// Without .notdef kept, 'A' lands on glyph 0 and reads back as unmapped.
	assert.Equal(t, map[rune]truetype.GlyphIndex{'B': 1}, reparsed.Cmap.Best().Mapping)
}

func TestSubsetSharedGlyphs(t *testing.T) {
	font := parseFont(t, testutil.Font())

	// 'a' shares the glyph of 'A'; 'b' the glyph of 'C'.
	sub, err := Subset(font, "aAb")
	require.NoError(t, err)
	checkConsistent(t, sub)

	require.Equal(t, 2, sub.NumGlyphs())
	mapping := sub.Cmap.Best().Mapping
	assert.Equal(t, mapping['a'], mapping['A'])
	assert.Equal(t, truetype.GlyphIndex(0), mapping['A'])
	assert.Equal(t, truetype.GlyphIndex(1), mapping['b'])
	assert.NotContains(t, mapping, 'C')
}

func TestSubsetCJKShuffled(t *testing.T) {
	font := parseFont(t, testutil.Font())

	cmap, remap, err := shuffle.Shuffle(font.Cmap, shuffle.CJKRange, rand.New(rand.NewSource(7)), shuffle.Options{})
	require.NoError(t, err)
	shuffled := font.Copy()
	shuffled.Cmap = cmap

	text := shuffle.RemapText(testutil.SampleText, remap)
	sub, err := Subset(shuffled, text)
	require.NoError(t, err)
	checkConsistent(t, sub)

	runes := []rune(testutil.SampleText)
	require.Equal(t, len(runes), sub.NumGlyphs())
	best := sub.Cmap.Best()
	require.NotNil(t, best)
	assert.Len(t, best.Mapping, len(runes))

	origBest := font.Cmap.Best()
	for _, r := range runes {
		decoy := remap[r]
		assert.False(t, shuffle.CJKRange.Contains(decoy))
		gid, ok := best.Mapping[decoy]
		require.True(t, ok, "U+%04X", decoy)
		assert.Equal(t, font.Glyf.Glyphs[origBest.Mapping[r]], sub.Glyf.Glyphs[gid])
		assert.NotContains(t, best.Mapping, r)
	}

	checkConsistent(t, roundTrip(t, sub))
}

func TestSubsetMissingGlyphs(t *testing.T) {
	font := parseFont(t, testutil.Font())

	sub, err := Subset(font, "A三Z")
	require.NoError(t, err)
	checkConsistent(t, sub)

	require.Equal(t, 1, sub.NumGlyphs())
	assert.Equal(t, map[rune]truetype.GlyphIndex{'A': 0}, sub.Cmap.Best().Mapping)
}

// A codepoint mapped to glyph 0 has no glyph and does not pull .notdef into the subset.
func TestSubsetNotdefMapping(t *testing.T) {
	glyphs := testutil.Glyphs()
	glyphs[testutil.GIDNotdef].Runes = []rune{'Z'}
	parsed := parseFont(t, testutil.Build(glyphs, testutil.Options{}))

	inMemory := parseFont(t, testutil.Font())
	var subtables []*truetype.CmapSubtable
	for _, st := range inMemory.Cmap.Subtables {
		if st.IsUnicode() {
			mapping := map[rune]truetype.GlyphIndex{'Z': 0}
			for r, gid := range st.Mapping {
				mapping[r] = gid
			}
			st = st.WithMapping(mapping)
		}
		subtables = append(subtables, st)
	}
	inMemory.Cmap = inMemory.Cmap.WithSubtables(subtables)

	testcases := []struct {
		name string
		font *truetype.Font
	}{
		{"parsed", parsed},
		{"in memory", inMemory},
	}

	for _, tcase := range testcases {
		t.Run(tcase.name, func(t *testing.T) {
			want, err := Subset(tcase.font, "A")
			require.NoError(t, err)
			sub, err := Subset(tcase.font, "AZ")
			require.NoError(t, err)
			checkConsistent(t, sub)

			require.Equal(t, 1, sub.NumGlyphs())
			assert.Equal(t, want.NumGlyphs(), sub.NumGlyphs())
			assert.Equal(t, tcase.font.Glyf.Glyphs[testutil.GIDA], sub.Glyf.Glyphs[0])
			assert.Equal(t, map[rune]truetype.GlyphIndex{'A': 0}, sub.Cmap.Best().Mapping)
		})
	}
}

func TestSubsetEmptyText(t *testing.T) {
	font := parseFont(t, testutil.Font())

	sub, err := Subset(font, "")
	require.NoError(t, err)
	assert.Equal(t, 0, sub.NumGlyphs())
	assert.Len(t, sub.Loca.Offsets, 1)

	sub, err = SubsetWithOptions(font, "", Options{KeepNotdef: true})
	require.NoError(t, err)
	require.Equal(t, 1, sub.NumGlyphs())
	assert.Equal(t, font.Glyf.Glyphs[testutil.GIDNotdef], sub.Glyf.Glyphs[0])
	checkConsistent(t, roundTrip(t, sub))
}

func TestSubsetKeepNotdef(t *testing.T) {
	font := parseFont(t, testutil.Font())

	sub, err := SubsetWithOptions(font, "C", Options{KeepNotdef: true})
	require.NoError(t, err)
	checkConsistent(t, sub)

	require.Equal(t, 2, sub.NumGlyphs())
	assert.Equal(t, []truetype.GlyphName{".notdef", "C"}, sub.Post.GlyphNames())
	assert.Equal(t, truetype.GlyphIndex(1), sub.Cmap.Best().Mapping['C'])
}

func TestSubsetCompositeClosure(t *testing.T) {
	font := parseFont(t, testutil.Font())

	sub, err := Subset(font, "Á")
	require.NoError(t, err)
	checkConsistent(t, sub)

	// A, acute and Aacute in original order.
	require.Equal(t, 3, sub.NumGlyphs())
	assert.Equal(t, []truetype.GlyphName{"A", "acute", "Aacute"}, sub.Post.GlyphNames())
	assert.Equal(t, map[rune]truetype.GlyphIndex{'Á': 2}, sub.Cmap.Best().Mapping)

	composite := sub.Glyf.Glyphs[2]
	require.True(t, composite.IsComposite())
	components, err := composite.Components()
	require.NoError(t, err)
	assert.Equal(t, []truetype.GlyphIndex{0, 1}, components)

	// The input is left unchanged.
	components, err = font.Glyf.Glyphs[testutil.GIDAacute].Components()
	require.NoError(t, err)
	assert.Equal(t, []truetype.GlyphIndex{testutil.GIDA, testutil.GIDAcute}, components)

	reparsed := roundTrip(t, sub)
	components, err = reparsed.Glyf.Glyphs[2].Components()
	require.NoError(t, err)
	assert.Equal(t, []truetype.GlyphIndex{0, 1}, components)
}

func TestSubsetVariableFont(t *testing.T) {
	font := parseFont(t, testutil.VariableFont())
	require.NotNil(t, font.Gvar)

	sub, err := Subset(font, "B"+testutil.SampleText[:3])
	require.NoError(t, err)
	checkConsistent(t, sub)

	require.Equal(t, 2, sub.NumGlyphs())
	require.NotNil(t, sub.Gvar)
	assert.Equal(t, font.Gvar.Variations[testutil.GIDB], sub.Gvar.Variations[0])
	assert.Equal(t, font.Gvar.Variations[testutil.GIDFirstCJK], sub.Gvar.Variations[1])
	assert.NotNil(t, sub.RawTable("fvar"))
	assert.False(t, sub.Head.ShortOffsets())

	// The (3,10) format 12 subtable is kept alongside the format 4 ones.
	var format12 *truetype.CmapSubtable
	for _, st := range sub.Cmap.Subtables {
		if st.Format == 12 {
			format12 = st
		}
	}
	require.NotNil(t, format12)
	assert.Len(t, format12.Mapping, 2)

	reparsed := roundTrip(t, sub)
	checkConsistent(t, reparsed)
	assert.Equal(t, sub.Gvar.Variations, reparsed.Gvar.Variations)
}

func TestSubsetIdempotent(t *testing.T) {
	font := parseFont(t, testutil.Font())
	text := "Á B" + testutil.SampleText

	opts := Options{KeepNotdef: true, FamilyName: "Idempotent"}
	once, err := SubsetWithOptions(font, text, opts)
	require.NoError(t, err)
	twice, err := SubsetWithOptions(roundTrip(t, once), text, opts)
	require.NoError(t, err)

	assert.Equal(t, once.NumGlyphs(), twice.NumGlyphs())
	assert.Equal(t, once.Glyf.Glyphs, twice.Glyf.Glyphs)
	assert.Equal(t, once.Loca.Offsets, twice.Loca.Offsets)
	assert.Equal(t, once.Hmtx.Metrics, twice.Hmtx.Metrics)
	assert.Equal(t, once.Cmap.Best().Mapping, twice.Cmap.Best().Mapping)
	assert.Equal(t, once.Post.GlyphNames(), twice.Post.GlyphNames())
}

func TestSubsetMissingTable(t *testing.T) {
	testcases := []struct {
		omit []string
		want string
	}{
		{[]string{"glyf"}, "glyf"},
		{[]string{"hmtx"}, "hmtx"},
		{[]string{"cmap"}, "cmap"},
		{[]string{"glyf", "loca"}, "glyf"},
	}
	for _, tcase := range testcases {
		font := parseFont(t, testutil.Build(testutil.Glyphs(), testutil.Options{Omit: tcase.omit}))
		_, err := Subset(font, "A")
		require.Error(t, err, tcase.want)
		assert.ErrorIs(t, err, ErrMissingTable, tcase.want)
		assert.True(t, strings.HasSuffix(err.Error(), tcase.want), err.Error())
	}
}

func TestNewFamilyName(t *testing.T) {
	name := NewFamilyName()
	assert.True(t, strings.HasPrefix(name, "Shuffled-"))
	assert.Len(t, name, len("Shuffled-")+8)
	assert.NotEqual(t, name, NewFamilyName())
}
