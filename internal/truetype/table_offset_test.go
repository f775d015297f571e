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

	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/testutil"
)

func TestNewOffsetTable(t *testing.T) {
	testcases := []struct {
		numTables int
		expected  offsetTable
	}{
		{16, offsetTable{sfntVersion: 0x10000, numTables: 16, searchRange: 256, entrySelector: 4, rangeShift: 0}},
		{15, offsetTable{sfntVersion: 0x10000, numTables: 15, searchRange: 128, entrySelector: 3, rangeShift: 112}},
		{18, offsetTable{sfntVersion: 0x10000, numTables: 18, searchRange: 256, entrySelector: 4, rangeShift: 32}},
		{12, offsetTable{sfntVersion: 0x10000, numTables: 12, searchRange: 128, entrySelector: 3, rangeShift: 64}},
	}

	for _, tcase := range testcases {
		assert.Equal(t, tcase.expected, *newOffsetTable(sfntVersionTrueType, tcase.numTables))
	}
}

// Test unmarshalling and marshalling offset table.
func TestOffsetTableReadWrite(t *testing.T) {
	testcases := []struct {
		name string
		data []byte
		// Expected offset table parameters.
		expected offsetTable
	}{
		{
			"static",
			testutil.Font(),
			offsetTable{
				sfntVersion:   0x10000,
				numTables:     12,
				searchRange:   128,
				entrySelector: 3,
				rangeShift:    64,
			},
		},
		{
			"variable",
			testutil.VariableFont(),
			offsetTable{
				sfntVersion:   0x10000,
				numTables:     14,
				searchRange:   128,
				entrySelector: 3,
				rangeShift:    96,
			},
		},
	}

	for _, tcase := range testcases {
		t.Logf("%s", tcase.name)
		fnt, err := ParseBytes(tcase.data)
		require.NoError(t, err)
		assert.Equal(t, tcase.expected, *fnt.ot)

		common.Log.Debug("Write offset table")
		// Marshall to buffer.
		var buf bytes.Buffer
		bw := newByteWriter(&buf)
		err = fnt.writeOffsetTable(bw)
		require.NoError(t, err)
		require.NoError(t, bw.flush())

		// Reload from buffer.
		br := newByteReader(bytes.NewReader(buf.Bytes()))
		ot, err := fnt.parseOffsetTable(br)
		require.NoError(t, err)
		assert.Equal(t, fnt.ot, ot)
	}
}

func TestOffsetTableUnsupported(t *testing.T) {
	data := testutil.Font()
	copy(data, []byte{'w', 'O', 'F', 'F'})
	_, err := ParseBytes(data)
	assert.Equal(t, ErrUnsupportedFormat, err)
}
