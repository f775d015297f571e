/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"encoding/binary"
	"strings"
)

// GlyphName is the PostScript name of a glyph as stored in the post table.
type GlyphName string

// GlyphIndex identifies a glyph by its position in glyf/loca. Index 0 is .notdef.
type GlyphIndex uint16

// Scalar types of the sfnt tables (https://docs.microsoft.com/en-us/typography/opentype/spec/otff).
// All are stored big endian.
type (
	// fixed is a signed 16.16 fixed-point number.
	fixed int32
	// fword is a signed distance in font design units.
	fword int16
	// ufword is an unsigned distance in font design units.
	ufword uint16
	// longdatetime counts seconds since 1904-01-01 00:00 UTC.
	longdatetime int64
	// tag names a table, four ASCII bytes padded with spaces.
	tag [4]uint8
	// offset16 and offset32 are byte offsets, 0 meaning none.
	offset16 uint16
	offset32 uint32
)

// makeTag returns the tag for `s`: truncated to 4 bytes, space padded if shorter.
func makeTag(s string) tag {
	t := tag{' ', ' ', ' ', ' '}
	copy(t[:], s)
	return t
}

// String returns the tag without its padding, "cvt " gives "cvt".
func (t tag) String() string {
	return strings.TrimSpace(string(t[:]))
}

// uint32 is the sort key of table records.
func (t tag) uint32() uint32 {
	return binary.BigEndian.Uint32(t[:])
}

// Parts splits `f` into its high (integral) and low (fraction) words.
func (f fixed) Parts() (uint16, uint16) {
	u := uint32(f)
	return uint16(u >> 16), uint16(u & 0xFFFF)
}

func (f fixed) Float64() float64 {
	return float64(f) / 0x10000
}
