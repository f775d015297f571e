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

func TestParseFont(t *testing.T) {
	fnt, err := ParseBytes(testutil.Font())
	require.NoError(t, err)

	assert.Equal(t, uint32(sfntVersionTrueType), fnt.SfntVersion())
	assert.Equal(t, testutil.NumGlyphs, fnt.NumGlyphs())
	assert.Equal(t, uint16(1000), fnt.Head.UnitsPerEm())
	assert.True(t, fnt.Head.ShortOffsets())
	assert.Nil(t, fnt.Gvar)

	// The last two glyphs only carry a left side bearing and repeat the last advance.
	require.Len(t, fnt.Hmtx.Metrics, testutil.NumGlyphs)
	assert.Equal(t, testutil.NumGlyphs-2, fnt.Hhea.NumberOfHMetrics())
	last := fnt.Hmtx.Metrics[testutil.NumGlyphs-1]
	assert.Equal(t, uint16(1000), last.AdvanceWidth)
	assert.Equal(t, int16(testutil.NumGlyphs-1), last.LSB)

	names := fnt.Post.GlyphNames()
	require.Len(t, names, testutil.NumGlyphs)
	assert.Equal(t, GlyphName(".notdef"), names[0])
	assert.Equal(t, GlyphName("Aacute"), names[testutil.GIDAacute])
	assert.Equal(t, GlyphName("uni8FD9"), names[testutil.GIDFirstCJK])

	first, last16 := fnt.OS2.CharRange()
	assert.Equal(t, uint16(' '), first)
	assert.Equal(t, uint16(0x8FD9), last16)

	assert.Equal(t, []string{"GSUB", "cvt"}, fnt.RawTags())
	assert.Equal(t, []byte{0x00, 0x10, 0x00, 0x20}, fnt.RawTable("cvt"))
}

func TestParseVariableFont(t *testing.T) {
	fnt, err := ParseBytes(testutil.VariableFont())
	require.NoError(t, err)

	assert.False(t, fnt.Head.ShortOffsets())
	require.NotNil(t, fnt.Gvar)
	require.Len(t, fnt.Gvar.Variations, testutil.NumGlyphs)
	assert.Len(t, fnt.Gvar.Variations[testutil.GIDSpace], 0)
	assert.Equal(t, testutil.GvarData(testutil.GIDB), fnt.Gvar.Variations[testutil.GIDB])
	assert.Equal(t, []byte{0x40, 0x00}, fnt.Gvar.sharedTuples)
	assert.NotNil(t, fnt.RawTable("fvar"))
}

// Writing a parsed font and parsing it again gives the same typed tables.
func TestFontRoundTrip(t *testing.T) {
	testcases := []struct {
		name string
		data []byte
	}{
		{"static", testutil.Font()},
		{"variable", testutil.VariableFont()},
	}

	for _, tcase := range testcases {
		t.Run(tcase.name, func(t *testing.T) {
			fnt, err := ParseBytes(tcase.data)
			require.NoError(t, err)

			data, err := fnt.Bytes()
			require.NoError(t, err)
			require.NoError(t, Validate(bytes.NewReader(data)))

			again, err := ParseBytes(data)
			require.NoError(t, err)
			assert.Equal(t, fnt.Tags(), again.Tags())
			assert.Equal(t, fnt.Maxp, again.Maxp)
			assert.Equal(t, fnt.Hmtx, again.Hmtx)
			assert.Equal(t, fnt.Loca, again.Loca)
			assert.Equal(t, fnt.Glyf, again.Glyf)
			assert.Equal(t, fnt.Post.GlyphNames(), again.Post.GlyphNames())
			assert.Equal(t, fnt.OS2, again.OS2)
			assert.Equal(t, fnt.Gvar, again.Gvar)
			assert.Equal(t, fnt.GetNameByID(NameIDFamily), again.GetNameByID(NameIDFamily))
			for i, st := range fnt.Cmap.Unicode() {
				assert.Equal(t, st.Mapping, again.Cmap.Unicode()[i].Mapping)
			}
			for _, tag := range fnt.RawTags() {
				assert.Equal(t, fnt.RawTable(tag), again.RawTable(tag))
			}

			// Writing is deterministic.
			data2, err := again.Bytes()
			require.NoError(t, err)
			assert.Equal(t, data, data2)
		})
	}
}

func TestFontWriteInconsistent(t *testing.T) {
	fnt, err := ParseBytes(testutil.Font())
	require.NoError(t, err)

	fnt.Maxp = fnt.Maxp.WithNumGlyphs(testutil.NumGlyphs - 1)
	_, err = fnt.Bytes()
	assert.Equal(t, errRangeCheck, err)
}

func TestFontCopy(t *testing.T) {
	fnt, err := ParseBytes(testutil.Font())
	require.NoError(t, err)

	dup := fnt.Copy()
	dup.SetRawTable("GSUB", nil)
	dup.SetRawTable("fpgm", []byte{0xB0, 0x00})
	assert.Equal(t, []string{"GSUB", "cvt"}, fnt.RawTags())
	assert.Equal(t, []string{"cvt", "fpgm"}, dup.RawTags())
	assert.True(t, dup.HasTable("fpgm"))
	assert.False(t, dup.HasTable("GSUB"))
	assert.True(t, dup.HasTable(tagHead))
}
