/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedParts(t *testing.T) {
	testcases := []struct {
		val       fixed
		high, low uint16
		f64       float64
	}{
		{fixed(0x00011000), 0x0001, 0x1000, 1.0625},
		{fixed(0x00005000), 0x0000, 0x5000, 0.3125},
		{fixed(0x00025000), 0x0002, 0x5000, 2.3125},
		// post table version 2.5.
		{fixed(0x00028000), 0x0002, 0x8000, 2.5},
		{fixed(-0x00018000), 0xFFFE, 0x8000, -1.5},
	}

	for _, tcase := range testcases {
		high, low := tcase.val.Parts()
		assert.Equal(t, tcase.high, high, "0x%08X", uint32(tcase.val))
		assert.Equal(t, tcase.low, low, "0x%08X", uint32(tcase.val))
		assert.Equal(t, tcase.f64, tcase.val.Float64(), "0x%08X", uint32(tcase.val))
	}
}

func TestMakeTag(t *testing.T) {
	assert.Equal(t, tag{'c', 'v', 't', ' '}, makeTag("cvt"))
	assert.Equal(t, "cvt", makeTag("cvt").String())
	assert.Equal(t, tag{'O', 'S', '/', '2'}, makeTag("OS/2"))
	assert.Equal(t, tag{'g', 'l', 'y', 'f'}, makeTag("glyphs"))
	assert.Equal(t, tag{' ', ' ', ' ', ' '}, makeTag(""))
	assert.True(t, makeTag("OS/2").uint32() < makeTag("cmap").uint32())
	assert.True(t, makeTag("glyf").uint32() < makeTag("head").uint32())
}
