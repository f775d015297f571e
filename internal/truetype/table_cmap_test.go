/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidoc/fontshuffle/internal/testutil"
)

func expectedMapping() map[rune]GlyphIndex {
	m := map[rune]GlyphIndex{}
	for r, gid := range testutil.Mapping(testutil.Glyphs()) {
		m[r] = GlyphIndex(gid)
	}
	return m
}

func TestCmapParse(t *testing.T) {
	testcases := []struct {
		name      string
		data      []byte
		subtables [][3]uint16 // platform, encoding, format.
		best      [2]uint16
	}{
		{
			"static",
			testutil.Font(),
			[][3]uint16{{0, 3, 4}, {1, 0, 0}, {3, 1, 4}},
			[2]uint16{3, 1},
		},
		{
			"variable",
			testutil.VariableFont(),
			[][3]uint16{{0, 3, 4}, {1, 0, 0}, {3, 1, 4}, {3, 10, 12}},
			[2]uint16{3, 10},
		},
	}

	for _, tcase := range testcases {
		t.Run(tcase.name, func(t *testing.T) {
			fnt, err := ParseBytes(tcase.data)
			require.NoError(t, err)
			require.NotNil(t, fnt.Cmap)
			require.Len(t, fnt.Cmap.Subtables, len(tcase.subtables))

			for i, st := range fnt.Cmap.Subtables {
				assert.Equal(t, tcase.subtables[i], [3]uint16{st.PlatformID, st.EncodingID, st.Format})
				if st.IsUnicode() {
					assert.Equal(t, expectedMapping(), st.Mapping)
				} else {
					assert.Nil(t, st.Mapping)
					assert.Len(t, st.raw, 262)
				}
			}

			best := fnt.Cmap.Best()
			require.NotNil(t, best)
			assert.Equal(t, tcase.best, [2]uint16{best.PlatformID, best.EncodingID})
			assert.Len(t, fnt.Cmap.Unicode(), len(tcase.subtables)-1)
		})
	}
}

func TestCmapGlyphIDArray(t *testing.T) {
	fnt, err := ParseBytes(testutil.Font())
	require.NoError(t, err)
	st := fnt.Cmap.Best()
	require.NotNil(t, st)

	// 'a' and 'b' form a segment whose glyphs are not consecutive.
	assert.Equal(t, GlyphIndex(testutil.GIDA), st.Mapping['a'])
	assert.Equal(t, GlyphIndex(testutil.GIDC), st.Mapping['b'])
	assert.Equal(t, GlyphIndex(testutil.GIDFirstCJK), st.Mapping['这'])
	_, has := st.Mapping[0xFFFF]
	assert.False(t, has)
}

func TestCmapCompileRoundTrip(t *testing.T) {
	mapping := map[rune]GlyphIndex{
		' ': 1, '!': 2, '"': 3, // delta segment.
		'a': 7, 'b': 4, 'c': 9, // glyph ID array segment.
		0x4E00: 0, // explicit .notdef mapping.
		0x9FA5: 12,
	}
	want := map[rune]GlyphIndex{}
	for r, gid := range mapping {
		if gid != 0 {
			want[r] = gid
		}
	}

	for _, format := range []uint16{4, 12} {
		st := NewCmapSubtable(3, 1, format, mapping)
		data, err := st.compile()
		require.NoError(t, err)

		parsed, err := parseCmapSubtable(data)
		require.NoError(t, err)
		assert.Equal(t, format, parsed.Format)
		// Codepoints mapped to glyph 0 read back as unmapped.
		assert.Equal(t, want, parsed.Mapping)
	}
}

func TestCmapNotdefMapping(t *testing.T) {
	glyphs := testutil.Glyphs()
	glyphs[testutil.GIDNotdef].Runes = []rune{'Z'}
	fnt, err := ParseBytes(testutil.Build(glyphs, testutil.Options{Format12: true}))
	require.NoError(t, err)

	for _, st := range fnt.Cmap.Unicode() {
		assert.NotContains(t, st.Mapping, 'Z', "(%d,%d)", st.PlatformID, st.EncodingID)
		assert.Equal(t, GlyphIndex(testutil.GIDA), st.Mapping['A'])
	}
}

func TestCmapCharRange(t *testing.T) {
	testcases := []struct {
		name        string
		cmap        *CmapTable
		first, last rune
		ok          bool
	}{
		{"empty", &CmapTable{}, 0, 0, false},
		{
			"non-unicode only",
			&CmapTable{Subtables: []*CmapSubtable{{PlatformID: 1, Format: 0, raw: []byte{0}}}},
			0, 0, false,
		},
		{
			"single",
			&CmapTable{Subtables: []*CmapSubtable{NewCmapSubtable(3, 1, 4, map[rune]GlyphIndex{'B': 1})}},
			'B', 'B', true,
		},
		{
			"union of subtables",
			&CmapTable{Subtables: []*CmapSubtable{
				NewCmapSubtable(3, 1, 4, map[rune]GlyphIndex{'B': 1, 0x4E00: 2}),
				NewCmapSubtable(3, 10, 12, map[rune]GlyphIndex{' ': 3, 0x20000: 4}),
			}},
			' ', 0x20000, true,
		},
	}

	for _, tcase := range testcases {
		t.Run(tcase.name, func(t *testing.T) {
			first, last, ok := tcase.cmap.CharRange()
			assert.Equal(t, tcase.ok, ok)
			assert.Equal(t, tcase.first, first)
			assert.Equal(t, tcase.last, last)
		})
	}
}

func TestCmapFormat12Supplementary(t *testing.T) {
	mapping := map[rune]GlyphIndex{'A': 1, 0x1F600: 2, 0x1F601: 3}
	_, err := compileCmapFormat4(mapping, 0)
	assert.Equal(t, errCmapFormat4Overflow, err)

	data, err := compileCmapFormat12(mapping, 0)
	require.NoError(t, err)
	// 'A' and the two consecutive emoji.
	assert.Len(t, data, 16+12*2)
}

// scatteredMapping returns `n` codepoints that need one format 4 segment each.
func scatteredMapping(n int) map[rune]GlyphIndex {
	mapping := map[rune]GlyphIndex{}
	for i := 0; i < n; i++ {
		mapping[rune(0x100+3*i)] = GlyphIndex(1 + (i*7)%500)
	}
	return mapping
}

// writeAndParseCmap writes the cmap of `fnt` and parses it back.
func writeAndParseCmap(t *testing.T, fnt *Font) *CmapTable {
	var buf bytes.Buffer
	bw := newByteWriter(&buf)
	require.NoError(t, fnt.writeCmap(bw))

	parsed := NewFont(sfntVersionTrueType)
	parsed.trec = &tableRecords{trMap: map[string]tableRecord{
		tagCmap: {tableTag: makeTag(tagCmap), length: uint32(bw.bufferedLen())},
	}}
	cmap, err := parsed.parseCmap(newByteReader(bytes.NewReader(bw.bytes())))
	require.NoError(t, err)
	return cmap
}

func subtableKeys(cmap *CmapTable) [][3]uint16 {
	var keys [][3]uint16
	for _, st := range cmap.Subtables {
		keys = append(keys, [3]uint16{st.PlatformID, st.EncodingID, st.Format})
	}
	return keys
}

func TestCmapFormat4OverflowPromotion(t *testing.T) {
	mapping := scatteredMapping(9000)
	_, err := compileCmapFormat4(mapping, 0)
	require.Equal(t, errCmapFormat4Overflow, err)

	fnt := NewFont(sfntVersionTrueType)
	fnt.Cmap = &CmapTable{Subtables: []*CmapSubtable{
		NewCmapSubtable(0, 3, 4, mapping),
		NewCmapSubtable(3, 1, 4, mapping),
	}}
	cmap := writeAndParseCmap(t, fnt)

	assert.Equal(t, [][3]uint16{{0, 4, 12}, {3, 10, 12}}, subtableKeys(cmap))
	for _, st := range cmap.Subtables {
		assert.Equal(t, mapping, st.Mapping)
	}
}

func TestCmapFormat4OverflowKeepsNative(t *testing.T) {
	bmp := scatteredMapping(9000)
	full := scatteredMapping(9000)
	full[0x20000] = 600
	// Conflicting entry, the native subtable wins.
	full[0x100] = 601

	testcases := []struct {
		name      string
		subtables []*CmapSubtable
	}{
		{
			"native after",
			[]*CmapSubtable{NewCmapSubtable(3, 1, 4, bmp), NewCmapSubtable(3, 10, 12, full)},
		},
		{
			"native before",
			[]*CmapSubtable{NewCmapSubtable(3, 10, 12, full), NewCmapSubtable(3, 1, 4, bmp)},
		},
	}

	for _, tcase := range testcases {
		t.Run(tcase.name, func(t *testing.T) {
			fnt := NewFont(sfntVersionTrueType)
			fnt.Cmap = &CmapTable{Subtables: tcase.subtables}
			cmap := writeAndParseCmap(t, fnt)

			require.Equal(t, [][3]uint16{{3, 10, 12}}, subtableKeys(cmap))
			assert.Equal(t, full, cmap.Subtables[0].Mapping)
			assert.Equal(t, GlyphIndex(600), cmap.Best().Mapping[0x20000])
		})
	}

	t.Run("merge adds missing entries", func(t *testing.T) {
		native := map[rune]GlyphIndex{0x20000: 600, 0x100: 601}
		fnt := NewFont(sfntVersionTrueType)
		fnt.Cmap = &CmapTable{Subtables: []*CmapSubtable{
			NewCmapSubtable(3, 1, 4, bmp),
			NewCmapSubtable(3, 10, 12, native),
		}}
		cmap := writeAndParseCmap(t, fnt)

		require.Equal(t, [][3]uint16{{3, 10, 12}}, subtableKeys(cmap))
		got := cmap.Subtables[0].Mapping
		assert.Len(t, got, len(bmp)+1)
		assert.Equal(t, GlyphIndex(600), got[0x20000])
		assert.Equal(t, GlyphIndex(601), got[0x100])
		assert.Equal(t, bmp[0x103], got[0x103])
	})
}
