/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package testutil builds small synthetic TrueType fonts for tests. The fonts are assembled
// byte by byte so that they exercise the table parsers independently of the writer.
package testutil

import (
	"bytes"
	"encoding/binary"
	"sort"

	textunicode "golang.org/x/text/encoding/unicode"
)

// SampleText is the CJK sample covered by Glyphs.
const SampleText = "这是一段测试文本"

// Glyph describes one glyph of a synthetic font.
type Glyph struct {
	Name    string
	Runes   []rune // codepoints mapped to the glyph.
	Advance uint16
	Data    []byte // glyf data, nil for empty glyphs.
}

// Options controls which table variants Build emits.
type Options struct {
	// LongLoca selects the long (Offset32) loca format.
	LongLoca bool
	// CompactMetrics stores the last two glyphs as left side bearings only in hmtx.
	CompactMetrics bool
	// Format12 adds a (3,10) format 12 cmap subtable.
	Format12 bool
	// Variable adds fvar and gvar tables.
	Variable bool
	// Omit lists tables left out of the font.
	Omit []string
}

// Glyph IDs of Glyphs.
const (
	GIDNotdef = iota
	GIDSpace
	GIDA
	GIDB
	GIDC
	GIDAcute
	GIDAacute
	GIDFirstCJK // 这, followed by the rest of SampleText and 二.
)

// NumGlyphs is the number of glyphs in Glyphs.
const NumGlyphs = GIDFirstCJK + 9

// Glyphs returns the default glyph set:
//   - .notdef, space, A, B, C, acute and the composite Aacute (A + acute),
//   - one glyph per rune of SampleText, followed by 二 (U+4E8C).
// 'a' shares the glyph of 'A' and 'b' the glyph of 'C'.
func Glyphs() []Glyph {
	glyphs := []Glyph{
		{Name: ".notdef", Advance: 500, Data: SimpleGlyph(0)},
		{Name: "space", Runes: []rune{' '}, Advance: 250},
		{Name: "A", Runes: []rune{'A', 'a'}, Advance: 600, Data: SimpleGlyph(1)},
		{Name: "B", Runes: []rune{'B'}, Advance: 600, Data: SimpleGlyph(2)},
		{Name: "C", Runes: []rune{'C', 'b'}, Advance: 600, Data: SimpleGlyph(3)},
		{Name: "acute", Advance: 300, Data: SimpleGlyph(4)},
		{Name: "Aacute", Runes: []rune{'Á'}, Advance: 600, Data: CompositeGlyph(GIDA, GIDAcute)},
	}
	for i, r := range []rune(SampleText + "二") {
		glyphs = append(glyphs, Glyph{
			Name:    uniName(r),
			Runes:   []rune{r},
			Advance: 1000,
			Data:    SimpleGlyph(10 + i),
		})
	}
	return glyphs
}

// Font returns the default synthetic font.
func Font() []byte {
	return Build(Glyphs(), Options{CompactMetrics: true})
}

// VariableFont returns the default glyph set as a variable font with fvar and gvar.
func VariableFont() []byte {
	return Build(Glyphs(), Options{LongLoca: true, Format12: true, Variable: true})
}

func uniName(r rune) string {
	const hex = "0123456789ABCDEF"
	return "uni" + string([]byte{hex[r>>12&0xF], hex[r>>8&0xF], hex[r>>4&0xF], hex[r&0xF]})
}

// SimpleGlyph returns a one contour triangle glyph, distinct for each `seed`.
func SimpleGlyph(seed int) []byte {
	width := int16(400 + 10*seed)
	height := int16(700 - seed)
	var buf bytes.Buffer
	put(&buf, int16(1), int16(0), int16(0), width, height) // numberOfContours, bbox.
	put(&buf, uint16(2), uint16(0))                        // endPtsOfContours[0], instructionLength.
	buf.Write([]byte{0x01, 0x01, 0x01})                    // on curve points, int16 coordinates.
	put(&buf, int16(0), width/2, width/2)                  // x deltas.
	put(&buf, int16(0), height, -height)                   // y deltas.
	return buf.Bytes()
}

// CompositeGlyph returns a composite glyph referencing `components`.
func CompositeGlyph(components ...uint16) []byte {
	const (
		arg1And2AreWords = 0x0001
		argsAreXYValues  = 0x0002
		moreComponents   = 0x0020
	)
	var buf bytes.Buffer
	put(&buf, int16(-1), int16(0), int16(0), int16(600), int16(900))
	for i, gid := range components {
		flags := uint16(arg1And2AreWords | argsAreXYValues)
		if i < len(components)-1 {
			flags |= moreComponents
		}
		put(&buf, flags, gid, int16(0), int16(100*i))
	}
	return buf.Bytes()
}

// Build assembles a font from `glyphs`.
func Build(glyphs []Glyph, opts Options) []byte {
	omit := map[string]bool{}
	for _, t := range opts.Omit {
		omit[t] = true
	}
	numGlyphs := len(glyphs)

	tables := map[string][]byte{}
	glyf, loca := buildGlyfLoca(glyphs, opts.LongLoca)
	tables["glyf"] = glyf
	tables["loca"] = loca
	tables["head"] = buildHead(opts.LongLoca)
	numberOfHMetrics := numGlyphs
	if opts.CompactMetrics && numGlyphs > 2 {
		numberOfHMetrics = numGlyphs - 2
	}
	tables["hhea"] = buildHhea(numberOfHMetrics)
	tables["hmtx"] = buildHmtx(glyphs, numberOfHMetrics)
	tables["maxp"] = buildMaxp(numGlyphs)
	tables["cmap"] = buildCmap(glyphs, opts.Format12)
	tables["post"] = buildPost(glyphs)
	tables["name"] = buildName("Synthetic Test", "Regular")
	tables["OS/2"] = buildOS2(glyphs)
	tables["cvt "] = []byte{0x00, 0x10, 0x00, 0x20}
	tables["GSUB"] = []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x0C, 0x00, 0x0E, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if opts.Variable {
		tables["fvar"] = buildFvar()
		tables["gvar"] = buildGvar(glyphs)
	}
	for t := range omit {
		delete(tables, t)
	}
	return assemble(tables)
}

func put(buf *bytes.Buffer, vals ...interface{}) {
	for _, v := range vals {
		binary.Write(buf, binary.BigEndian, v)
	}
}

func pad(b []byte, n int) []byte {
	for len(b)%n != 0 {
		b = append(b, 0)
	}
	return b
}

func buildGlyfLoca(glyphs []Glyph, long bool) ([]byte, []byte) {
	var glyf []byte
	var offsets []uint32
	for _, g := range glyphs {
		offsets = append(offsets, uint32(len(glyf)))
		glyf = append(glyf, pad(append([]byte(nil), g.Data...), 4)...)
	}
	offsets = append(offsets, uint32(len(glyf)))

	var loca bytes.Buffer
	for _, off := range offsets {
		if long {
			put(&loca, off)
		} else {
			put(&loca, uint16(off/2))
		}
	}
	return glyf, loca.Bytes()
}

func buildHead(long bool) []byte {
	var buf bytes.Buffer
	put(&buf, uint16(1), uint16(0), uint32(0x00010000), uint32(0), uint32(0x5F0F3CF5))
	put(&buf, uint16(0x000B), uint16(1000), int64(0), int64(0))
	put(&buf, int16(0), int16(-200), int16(1000), int16(900))
	indexToLocFormat := int16(0)
	if long {
		indexToLocFormat = 1
	}
	put(&buf, uint16(0), uint16(8), int16(2), indexToLocFormat, int16(0))
	return buf.Bytes()
}

func buildHhea(numberOfHMetrics int) []byte {
	var buf bytes.Buffer
	put(&buf, uint32(0x00010000), int16(900), int16(-200), int16(0), uint16(1000))
	put(&buf, int16(0), int16(0), int16(1000), int16(1), int16(0), int16(0))
	put(&buf, int16(0), int16(0), int16(0), int16(0), int16(0), uint16(numberOfHMetrics))
	return buf.Bytes()
}

func buildHmtx(glyphs []Glyph, numberOfHMetrics int) []byte {
	var buf bytes.Buffer
	for i, g := range glyphs {
		if i < numberOfHMetrics {
			put(&buf, g.Advance, int16(i))
		} else {
			put(&buf, int16(i))
		}
	}
	return buf.Bytes()
}

func buildMaxp(numGlyphs int) []byte {
	var buf bytes.Buffer
	put(&buf, uint32(0x00010000), uint16(numGlyphs))
	put(&buf, uint16(3), uint16(1), uint16(6), uint16(2), uint16(2), uint16(0), uint16(0))
	put(&buf, uint16(0), uint16(0), uint16(0), uint16(0), uint16(2), uint16(1))
	return buf.Bytes()
}

// Mapping returns the codepoint to glyph ID mapping of `glyphs`.
func Mapping(glyphs []Glyph) map[rune]uint16 {
	m := map[rune]uint16{}
	for gid, g := range glyphs {
		for _, r := range g.Runes {
			m[r] = uint16(gid)
		}
	}
	return m
}

func buildCmap(glyphs []Glyph, format12 bool) []byte {
	mapping := Mapping(glyphs)
	format4 := buildCmapFormat4(mapping)
	format0 := buildCmapFormat0(mapping)

	type record struct {
		platformID, encodingID uint16
		data                   []byte
	}
	records := []record{
		{0, 3, format4},
		{1, 0, format0},
		{3, 1, format4},
	}
	if format12 {
		records = append(records, record{3, 10, buildCmapFormat12(mapping)})
	}

	var buf bytes.Buffer
	put(&buf, uint16(0), uint16(len(records)))
	offset := 4 + 8*len(records)
	var storage []byte
	var prev []byte
	prevOffset := 0
	for _, rec := range records {
		if prev != nil && bytes.Equal(prev, rec.data) {
			put(&buf, rec.platformID, rec.encodingID, uint32(prevOffset))
			continue
		}
		put(&buf, rec.platformID, rec.encodingID, uint32(offset+len(storage)))
		prev, prevOffset = rec.data, offset+len(storage)
		storage = append(storage, rec.data...)
	}
	buf.Write(storage)
	return buf.Bytes()
}

func sortedRunes(mapping map[rune]uint16) []rune {
	var runes []rune
	for r := range mapping {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

// buildCmapFormat4 writes runs of consecutive codepoints as segments, using idDelta when the
// glyph IDs follow the codepoints and the glyph ID array otherwise.
func buildCmapFormat4(mapping map[rune]uint16) []byte {
	type segment struct {
		start, end uint16
		gids       []uint16
	}
	var segs []segment
	for _, r := range sortedRunes(mapping) {
		n := len(segs)
		if n > 0 && segs[n-1].end+1 == uint16(r) {
			segs[n-1].end = uint16(r)
			segs[n-1].gids = append(segs[n-1].gids, mapping[r])
			continue
		}
		segs = append(segs, segment{uint16(r), uint16(r), []uint16{mapping[r]}})
	}
	segs = append(segs, segment{0xFFFF, 0xFFFF, []uint16{0}})

	segCount := len(segs)
	var ends, starts, deltas, rangeOffsets, glyphIDs []uint16
	for i, s := range segs {
		ends = append(ends, s.end)
		starts = append(starts, s.start)
		consecutive := true
		for j := range s.gids {
			if s.gids[j] != s.gids[0]+uint16(j) {
				consecutive = false
			}
		}
		switch {
		case i == segCount-1:
			deltas = append(deltas, 1)
			rangeOffsets = append(rangeOffsets, 0)
		case consecutive:
			deltas = append(deltas, s.gids[0]-s.start)
			rangeOffsets = append(rangeOffsets, 0)
		default:
			deltas = append(deltas, 0)
			rangeOffsets = append(rangeOffsets, uint16(2*(segCount-i+len(glyphIDs))))
			glyphIDs = append(glyphIDs, s.gids...)
		}
	}

	entrySelector := 0
	for 1<<uint(entrySelector+1) <= segCount {
		entrySelector++
	}
	searchRange := 2 * (1 << uint(entrySelector))
	length := 16 + 8*segCount + 2*len(glyphIDs)

	var buf bytes.Buffer
	put(&buf, uint16(4), uint16(length), uint16(0), uint16(2*segCount),
		uint16(searchRange), uint16(entrySelector), uint16(2*segCount-searchRange))
	put(&buf, ends, uint16(0), starts, deltas, rangeOffsets, glyphIDs)
	return buf.Bytes()
}

func buildCmapFormat0(mapping map[rune]uint16) []byte {
	var buf bytes.Buffer
	put(&buf, uint16(0), uint16(262), uint16(0))
	ids := make([]byte, 256)
	for r, gid := range mapping {
		if r < 256 && gid < 256 {
			ids[r] = byte(gid)
		}
	}
	buf.Write(ids)
	return buf.Bytes()
}

func buildCmapFormat12(mapping map[rune]uint16) []byte {
	runes := sortedRunes(mapping)
	var buf bytes.Buffer
	put(&buf, uint16(12), uint16(0), uint32(16+12*len(runes)), uint32(0), uint32(len(runes)))
	for _, r := range runes {
		put(&buf, uint32(r), uint32(r), uint32(mapping[r]))
	}
	return buf.Bytes()
}

var macIndex = map[string]uint16{
	".notdef": 0, "space": 3, "A": 36, "B": 37, "C": 38, "acute": 141, "Aacute": 201,
}

func buildPost(glyphs []Glyph) []byte {
	var buf bytes.Buffer
	put(&buf, uint32(0x00020000), uint32(0), int16(-100), int16(50), uint32(0))
	put(&buf, uint32(0), uint32(0), uint32(0), uint32(0))
	put(&buf, uint16(len(glyphs)))
	var custom []string
	for _, g := range glyphs {
		if idx, ok := macIndex[g.Name]; ok {
			put(&buf, idx)
			continue
		}
		put(&buf, uint16(258+len(custom)))
		custom = append(custom, g.Name)
	}
	for _, name := range custom {
		buf.WriteByte(byte(len(name)))
		buf.WriteString(name)
	}
	return buf.Bytes()
}

func buildName(family, subfamily string) []byte {
	values := []string{family, subfamily, family, family + "-" + subfamily}
	ids := []uint16{1, 2, 4, 6}
	enc := textunicode.UTF16(textunicode.BigEndian, textunicode.IgnoreBOM).NewEncoder()

	var records, storage bytes.Buffer
	for i, v := range values {
		data, _ := enc.Bytes([]byte(v))
		put(&records, uint16(3), uint16(1), uint16(0x409), ids[i], uint16(len(data)), uint16(storage.Len()))
		storage.Write(data)
	}

	var buf bytes.Buffer
	put(&buf, uint16(0), uint16(len(values)), uint16(6+12*len(values)))
	buf.Write(records.Bytes())
	buf.Write(storage.Bytes())
	return buf.Bytes()
}

func buildOS2(glyphs []Glyph) []byte {
	first, last := rune(0xFFFF), rune(0)
	for r := range Mapping(glyphs) {
		if r < first {
			first = r
		}
		if r > last {
			last = r
		}
	}

	var buf bytes.Buffer
	put(&buf, uint16(4), int16(700), uint16(400), uint16(5), uint16(0))
	for i := 0; i < 11; i++ {
		put(&buf, int16(0))
	}
	buf.Write(make([]byte, 10)) // panose.
	put(&buf, uint32(1), uint32(0), uint32(0x08000000), uint32(0))
	buf.WriteString("TEST")
	put(&buf, uint16(0x0040), uint16(first), uint16(last), int16(900), int16(-200), int16(0))
	put(&buf, uint16(900), uint16(200), uint32(1), uint32(0))
	put(&buf, int16(500), int16(700), uint16(0), uint16(32), uint16(1))
	return buf.Bytes()
}

func buildFvar() []byte {
	var buf bytes.Buffer
	put(&buf, uint16(1), uint16(0), uint16(16), uint16(2), uint16(1), uint16(20), uint16(0), uint16(8))
	buf.WriteString("wght")
	put(&buf, uint32(100<<16), uint32(400<<16), uint32(900<<16), uint16(0), uint16(256))
	return buf.Bytes()
}

// GvarData returns the variation data Build stores for glyph `gid`.
func GvarData(gid int) []byte {
	return []byte{0x00, 0x01, 0x00, byte(gid)}
}

func buildGvar(glyphs []Glyph) []byte {
	numGlyphs := len(glyphs)
	var data []byte
	var offsets []uint16
	for gid, g := range glyphs {
		offsets = append(offsets, uint16(len(data)/2))
		if g.Data != nil {
			data = append(data, GvarData(gid)...)
		}
	}
	offsets = append(offsets, uint16(len(data)/2))

	sharedTuplesOffset := 20 + 2*(numGlyphs+1)
	sharedTuplesOffset += sharedTuplesOffset % 2
	dataOffset := sharedTuplesOffset + 2

	var buf bytes.Buffer
	put(&buf, uint16(1), uint16(0), uint16(1), uint16(1), uint32(sharedTuplesOffset))
	put(&buf, uint16(numGlyphs), uint16(0), uint32(dataOffset), offsets)
	for buf.Len() < sharedTuplesOffset {
		buf.WriteByte(0)
	}
	put(&buf, uint16(0x4000))
	buf.Write(data)
	return buf.Bytes()
}

func checksum(data []byte) uint32 {
	var sum uint32
	data = pad(append([]byte(nil), data...), 4)
	for i := 0; i < len(data); i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	return sum
}

// assemble writes the table directory followed by the tables, sorted by tag, and sets the head
// checksum adjustment.
func assemble(tables map[string][]byte) []byte {
	var tags []string
	for t := range tables {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	numTables := len(tags)
	entrySelector := 0
	for 1<<uint(entrySelector+1) <= numTables {
		entrySelector++
	}
	searchRange := 16 * (1 << uint(entrySelector))

	var buf bytes.Buffer
	put(&buf, uint32(0x00010000), uint16(numTables), uint16(searchRange), uint16(entrySelector),
		uint16(numTables*16-searchRange))

	offset := 12 + 16*numTables
	headOffset := -1
	for _, t := range tags {
		data := tables[t]
		buf.WriteString(t)
		put(&buf, checksum(data), uint32(offset), uint32(len(data)))
		if t == "head" {
			headOffset = offset
		}
		offset += len(pad(append([]byte(nil), data...), 4))
	}
	for _, t := range tags {
		buf.Write(pad(append([]byte(nil), tables[t]...), 4))
	}

	out := buf.Bytes()
	if headOffset >= 0 {
		binary.BigEndian.PutUint32(out[headOffset+8:], 0xB1B0AFBA-checksum(out))
	}
	return out
}
