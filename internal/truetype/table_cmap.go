/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"bytes"
	"errors"
	"sort"

	"github.com/unidoc/fontshuffle/common"
)

// CmapTable represents a Character to Glyph Index Mapping Table (cmap).
// This table defines the mapping of character codes to the glyph index values used
// in the font.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
//
// Subtables of format 4 and 12 are decoded into Mapping. Other formats are carried as raw bytes.
type CmapTable struct {
	version   uint16
	Subtables []*CmapSubtable
}

// CmapSubtable is one encoding record of the cmap together with the subtable it points to.
type CmapSubtable struct {
	PlatformID uint16
	EncodingID uint16
	Format     uint16
	Language   uint32

	// Mapping holds the codepoint to glyph mapping of format 4 and 12 subtables.
	Mapping map[rune]GlyphIndex

	raw []byte // undecoded subtable data.
}

/*
Regardless of the encoding scheme, character codes that do not correspond to any glyph in the font should be
mapped to glyph index 0. The glyph at this location must be a special glyph representing a missing character,
commonly known as .notdef.
*/

// unicodePriority lists the (platform, encoding) pairs searched by Best in order.
var unicodePriority = [][2]uint16{
	{3, 10}, {0, 6}, {0, 4}, {3, 1}, {0, 3}, {0, 2}, {0, 1}, {0, 0},
}

// NewCmapSubtable returns a format 4 or 12 subtable holding `mapping`.
func NewCmapSubtable(platformID, encodingID, format uint16, mapping map[rune]GlyphIndex) *CmapSubtable {
	return &CmapSubtable{
		PlatformID: platformID,
		EncodingID: encodingID,
		Format:     format,
		Mapping:    mapping,
	}
}

// IsUnicode returns true for subtables whose mapping is decoded (format 4 and 12).
func (st *CmapSubtable) IsUnicode() bool {
	return st.Format == 4 || st.Format == 12
}

// WithMapping returns a copy of `st` with the mapping replaced by `mapping`.
func (st *CmapSubtable) WithMapping(mapping map[rune]GlyphIndex) *CmapSubtable {
	dup := *st
	dup.Mapping = mapping
	return &dup
}

// Runes returns the mapped codepoints in ascending order.
func (st *CmapSubtable) Runes() []rune {
	runes := make([]rune, 0, len(st.Mapping))
	for r := range st.Mapping {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

// WithSubtables returns a table of the same version as `t` holding `subtables`.
func (t *CmapTable) WithSubtables(subtables []*CmapSubtable) *CmapTable {
	return &CmapTable{version: t.version, Subtables: subtables}
}

// Unicode returns the subtables with decoded Unicode mappings.
func (t *CmapTable) Unicode() []*CmapSubtable {
	var subtables []*CmapSubtable
	for _, st := range t.Subtables {
		if st.IsUnicode() {
			subtables = append(subtables, st)
		}
	}
	return subtables
}

// CharRange returns the lowest and highest codepoints mapped by the Unicode subtables of `t`.
// The bool flag is false if none maps anything.
func (t *CmapTable) CharRange() (first, last rune, ok bool) {
	for _, st := range t.Unicode() {
		for r := range st.Mapping {
			if !ok || r < first {
				first = r
			}
			if !ok || r > last {
				last = r
			}
			ok = true
		}
	}
	return first, last, ok
}

// Best returns the preferred Unicode subtable, searching (3,10), (0,6), (0,4), (3,1), (0,3),
// (0,2), (0,1) and (0,0) in that order. Returns nil if there is none.
func (t *CmapTable) Best() *CmapSubtable {
	for _, pe := range unicodePriority {
		for _, st := range t.Subtables {
			if st.IsUnicode() && st.PlatformID == pe[0] && st.EncodingID == pe[1] {
				return st
			}
		}
	}
	return nil
}

func (f *Font) parseCmap(r *byteReader) (*CmapTable, error) {
	data, err := f.readTableData(r, tagCmap)
	if err != nil {
		return nil, err
	}
	if data == nil {
		common.Log.Debug("cmap table absent")
		return nil, nil
	}

	br := newByteReader(bytes.NewReader(data))
	t := &CmapTable{}
	var numTables uint16
	err = br.read(&t.version, &numTables)
	if err != nil {
		return nil, err
	}

	type encodingRecord struct {
		platformID uint16
		encodingID uint16
		offset     offset32
	}
	records := make([]encodingRecord, numTables)
	for i := range records {
		er := &records[i]
		err = br.read(&er.platformID, &er.encodingID, &er.offset)
		if err != nil {
			return nil, err
		}
	}

	for _, er := range records {
		if int(er.offset) >= len(data) {
			common.Log.Debug("cmap subtable (%d,%d) offset outside table", er.platformID, er.encodingID)
			return nil, errRangeCheck
		}
		st, err := parseCmapSubtable(data[er.offset:])
		if err != nil {
			common.Log.Debug("cmap subtable (%d,%d): %v", er.platformID, er.encodingID, err)
			return nil, err
		}
		st.PlatformID = er.platformID
		st.EncodingID = er.encodingID
		common.Log.Debug("cmap subtable (%d,%d) format %d: %d mappings", st.PlatformID, st.EncodingID, st.Format, len(st.Mapping))
		t.Subtables = append(t.Subtables, st)
	}

	return t, nil
}

// parseCmapSubtable decodes the subtable starting at the beginning of `data`.
func parseCmapSubtable(data []byte) (*CmapSubtable, error) {
	r := newByteReader(bytes.NewReader(data))
	st := &CmapSubtable{}
	err := r.read(&st.Format)
	if err != nil {
		return nil, err
	}

	var length uint32
	switch st.Format {
	case 0, 2, 4, 6:
		var length16, lang16 uint16
		err = r.read(&length16, &lang16)
		length = uint32(length16)
		st.Language = uint32(lang16)
	case 8, 10, 12, 13:
		var reserved uint16
		err = r.read(&reserved, &length, &st.Language)
	case 14:
		err = r.read(&length)
	default:
		common.Log.Debug("Unsupported cmap subtable format %d", st.Format)
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if int(length) > len(data) {
		common.Log.Debug("cmap subtable length %d outside table (%d)", length, len(data))
		return nil, errRangeCheck
	}

	switch st.Format {
	case 4:
		st.Mapping, err = parseCmapFormat4(r)
	case 12:
		st.Mapping, err = parseCmapFormat12(r)
	default:
		st.raw = append([]byte(nil), data[:length]...)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// parseCmapFormat4 decodes a segment mapping to delta values subtable, positioned after its
// language field.
func parseCmapFormat4(r *byteReader) (map[rune]GlyphIndex, error) {
	var segCountX2, searchRange, entrySelector, rangeShift uint16
	err := r.read(&segCountX2, &searchRange, &entrySelector, &rangeShift)
	if err != nil {
		return nil, err
	}
	segCount := int(segCountX2 / 2)

	var endCode, startCode, idRangeOffset []uint16
	var idDelta []int16
	var reservedPad uint16
	err = r.readSlice(&endCode, segCount)
	if err != nil {
		return nil, err
	}
	err = r.read(&reservedPad)
	if err != nil {
		return nil, err
	}
	err = r.readSlice(&startCode, segCount)
	if err != nil {
		return nil, err
	}
	err = r.readSlice(&idDelta, segCount)
	if err != nil {
		return nil, err
	}
	err = r.readSlice(&idRangeOffset, segCount)
	if err != nil {
		return nil, err
	}

	// glyphIdArray runs to the end of the subtable; read lazily as segments reference it.
	var glyphIDArray []uint16
	readGlyphIDs := func(n int) error {
		for len(glyphIDArray) < n {
			val, err := r.readUint16()
			if err != nil {
				return err
			}
			glyphIDArray = append(glyphIDArray, val)
		}
		return nil
	}

	mapping := map[rune]GlyphIndex{}
	for i := 0; i < segCount; i++ {
		start, end := startCode[i], endCode[i]
		if start > end {
			common.Log.Debug("cmap format 4: invalid segment %d (%d > %d)", i, start, end)
			return nil, errRangeCheck
		}
		for c := uint32(start); c <= uint32(end); c++ {
			if c == 0xFFFF {
				break
			}
			var gid uint16
			if idRangeOffset[i] == 0 {
				gid = uint16(int32(c) + int32(idDelta[i]))
			} else {
				pos := i + int(idRangeOffset[i])/2 + int(c-uint32(start)) - segCount
				if pos < 0 {
					common.Log.Debug("cmap format 4: glyph index array position %d", pos)
					return nil, errRangeCheck
				}
				if err := readGlyphIDs(pos + 1); err != nil {
					return nil, err
				}
				gid = glyphIDArray[pos]
				if gid != 0 {
					gid = uint16(int32(gid) + int32(idDelta[i]))
				}
			}
			if gid == 0 {
				// Mapped to .notdef, i.e. no glyph.
				continue
			}
			mapping[rune(c)] = GlyphIndex(gid)
		}
	}
	return mapping, nil
}

// parseCmapFormat12 decodes a segmented coverage subtable, positioned after its language field.
func parseCmapFormat12(r *byteReader) (map[rune]GlyphIndex, error) {
	var numGroups uint32
	err := r.read(&numGroups)
	if err != nil {
		return nil, err
	}

	mapping := map[rune]GlyphIndex{}
	for i := 0; i < int(numGroups); i++ {
		var startCharCode, endCharCode, startGlyphID uint32
		err = r.read(&startCharCode, &endCharCode, &startGlyphID)
		if err != nil {
			return nil, err
		}
		if startCharCode > endCharCode || endCharCode > 0x10FFFF {
			common.Log.Debug("cmap format 12: invalid group %d (%d-%d)", i, startCharCode, endCharCode)
			return nil, errRangeCheck
		}
		for c := startCharCode; c <= endCharCode; c++ {
			gid := startGlyphID + c - startCharCode
			if gid == 0 || gid > 0xFFFF {
				continue
			}
			mapping[rune(c)] = GlyphIndex(gid)
		}
	}
	return mapping, nil
}

// errCmapFormat4Overflow indicates a mapping that a format 4 subtable cannot hold.
var errCmapFormat4Overflow = errors.New("cmap format 4 overflow")

// compile returns the serialized subtable.
func (st *CmapSubtable) compile() ([]byte, error) {
	switch {
	case st.Format == 4:
		return compileCmapFormat4(st.Mapping, st.Language)
	case st.Format == 12:
		return compileCmapFormat12(st.Mapping, st.Language)
	case st.raw != nil:
		return st.raw, nil
	}
	common.Log.Debug("cmap subtable format %d has no data", st.Format)
	return nil, ErrUnsupportedFormat
}

// promoted returns the format 12 equivalent of a format 4 subtable, moving BMP encodings to
// their full repertoire counterparts.
func (st *CmapSubtable) promoted() *CmapSubtable {
	dup := *st
	dup.Format = 12
	switch {
	case st.PlatformID == 3 && st.EncodingID == 1:
		dup.EncodingID = 10
	case st.PlatformID == 0 && st.EncodingID == 3:
		dup.EncodingID = 4
	}
	return &dup
}

// cmapSegment is a run of consecutive codepoints.
type cmapSegment struct {
	start, end uint16
	gids       []uint16
}

// constantDelta returns true if the glyph IDs of `s` increase together with the codepoints.
func (s cmapSegment) constantDelta() bool {
	for i := 1; i < len(s.gids); i++ {
		if s.gids[i] != s.gids[0]+uint16(i) {
			return false
		}
	}
	return true
}

func compileCmapFormat4(mapping map[rune]GlyphIndex, language uint32) ([]byte, error) {
	if language > 0xFFFF {
		return nil, errCmapFormat4Overflow
	}
	runes := make([]rune, 0, len(mapping))
	for r := range mapping {
		if r > 0xFFFF {
			return nil, errCmapFormat4Overflow
		}
		if r == 0xFFFF || r < 0 {
			continue
		}
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	var segments []cmapSegment
	for _, r := range runes {
		n := len(segments)
		gid := uint16(mapping[r])
		if n > 0 && segments[n-1].end+1 == uint16(r) {
			segments[n-1].end = uint16(r)
			segments[n-1].gids = append(segments[n-1].gids, gid)
			continue
		}
		segments = append(segments, cmapSegment{start: uint16(r), end: uint16(r), gids: []uint16{gid}})
	}
	segments = append(segments, cmapSegment{start: 0xFFFF, end: 0xFFFF, gids: []uint16{0}})

	segCount := len(segments)
	if segCount > 0x7FFF {
		return nil, errCmapFormat4Overflow
	}
	endCode := make([]uint16, segCount)
	startCode := make([]uint16, segCount)
	idDelta := make([]uint16, segCount)
	idRangeOffset := make([]uint16, segCount)
	var glyphIDArray []uint16
	for i, s := range segments {
		startCode[i], endCode[i] = s.start, s.end
		if i == segCount-1 {
			idDelta[i] = 1
			continue
		}
		if s.constantDelta() {
			idDelta[i] = s.gids[0] - s.start
			continue
		}
		rangeOffset := 2 * (segCount - i + len(glyphIDArray))
		if rangeOffset > 0xFFFF {
			return nil, errCmapFormat4Overflow
		}
		idRangeOffset[i] = uint16(rangeOffset)
		glyphIDArray = append(glyphIDArray, s.gids...)
	}

	length := 16 + 8*segCount + 2*len(glyphIDArray)
	if length > 0xFFFF {
		return nil, errCmapFormat4Overflow
	}

	entrySelector := 0
	for 1<<uint(entrySelector+1) <= segCount {
		entrySelector++
	}
	searchRange := 2 * (1 << uint(entrySelector))

	var buf bytes.Buffer
	w := newByteWriter(&buf)
	err := w.write(uint16(4), uint16(length), uint16(language), uint16(2*segCount),
		uint16(searchRange), uint16(entrySelector), uint16(2*segCount-searchRange))
	if err != nil {
		return nil, err
	}
	for _, arr := range [][]uint16{endCode, {0}, startCode, idDelta, idRangeOffset, glyphIDArray} {
		err = w.writeSlice(arr)
		if err != nil {
			return nil, err
		}
	}
	return w.bytes(), nil
}

func compileCmapFormat12(mapping map[rune]GlyphIndex, language uint32) ([]byte, error) {
	runes := make([]rune, 0, len(mapping))
	for r := range mapping {
		if r < 0 || r > 0x10FFFF {
			continue
		}
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	type group struct {
		start, end rune
		gid        GlyphIndex
	}
	var groups []group
	for _, r := range runes {
		n := len(groups)
		gid := mapping[r]
		if n > 0 {
			g := &groups[n-1]
			if g.end+1 == r && int(g.gid)+int(r-g.start) == int(gid) {
				g.end = r
				continue
			}
		}
		groups = append(groups, group{start: r, end: r, gid: gid})
	}

	var buf bytes.Buffer
	w := newByteWriter(&buf)
	err := w.write(uint16(12), uint16(0), uint32(16+12*len(groups)), language, uint32(len(groups)))
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		err = w.write(uint32(g.start), uint32(g.end), uint32(g.gid))
		if err != nil {
			return nil, err
		}
	}
	return w.bytes(), nil
}

// writeCmap writes the encoding records sorted by platform and encoding, followed by the
// subtables. Identical subtables are stored once. Format 4 subtables that overflow are written
// as format 12.
func (f *Font) writeCmap(w *byteWriter) error {
	if f.Cmap == nil {
		return errRequiredField
	}

	type entry struct {
		platformID, encodingID uint16
		st                     *CmapSubtable
		data                   []byte
	}
	var entries []entry
	index := map[[2]uint16]int{}
	var promoted []*CmapSubtable
	for _, st := range f.Cmap.Subtables {
		data, err := st.compile()
		if err == errCmapFormat4Overflow {
			promoted = append(promoted, st.promoted())
			continue
		}
		if err != nil {
			return err
		}
		key := [2]uint16{st.PlatformID, st.EncodingID}
		if _, dup := index[key]; dup {
			common.Log.Debug("cmap: dropping duplicate subtable (%d,%d)", st.PlatformID, st.EncodingID)
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry{st.PlatformID, st.EncodingID, st, data})
	}

	// Promoted subtables never displace a subtable already present under their encoding; their
	// entries are merged into it instead, the existing mappings taking precedence.
	for _, st := range promoted {
		key := [2]uint16{st.PlatformID, st.EncodingID}
		i, exists := index[key]
		if !exists {
			common.Log.Debug("cmap: format 4 overflow, writing (%d,%d) format 12", st.PlatformID, st.EncodingID)
			data, err := st.compile()
			if err != nil {
				return err
			}
			index[key] = len(entries)
			entries = append(entries, entry{st.PlatformID, st.EncodingID, st, data})
			continue
		}

		native := entries[i].st
		if !native.IsUnicode() {
			common.Log.Debug("cmap: format 4 overflow, (%d,%d) format %d kept as is", st.PlatformID, st.EncodingID, native.Format)
			continue
		}
		merged := make(map[rune]GlyphIndex, len(native.Mapping)+len(st.Mapping))
		for r, gid := range st.Mapping {
			merged[r] = gid
		}
		for r, gid := range native.Mapping {
			merged[r] = gid
		}
		common.Log.Debug("cmap: format 4 overflow, merged into (%d,%d): %d + %d entries",
			st.PlatformID, st.EncodingID, len(native.Mapping), len(merged)-len(native.Mapping))
		mergedSt := native.WithMapping(merged)
		mergedSt.Format = 12
		data, err := mergedSt.compile()
		if err != nil {
			return err
		}
		entries[i] = entry{st.PlatformID, st.EncodingID, mergedSt, data}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].platformID != entries[j].platformID {
			return entries[i].platformID < entries[j].platformID
		}
		return entries[i].encodingID < entries[j].encodingID
	})

	err := w.write(f.Cmap.version, uint16(len(entries)))
	if err != nil {
		return err
	}

	offset := 4 + 8*len(entries)
	var storage [][]byte
	offsets := make([]int, len(entries))
	for i, e := range entries {
		shared := -1
		for j := 0; j < i; j++ {
			if bytes.Equal(entries[j].data, e.data) {
				shared = offsets[j]
				break
			}
		}
		if shared >= 0 {
			offsets[i] = shared
			continue
		}
		offsets[i] = offset
		storage = append(storage, e.data)
		offset += len(e.data)
	}

	for i, e := range entries {
		err = w.write(e.platformID, e.encodingID, offset32(offsets[i]))
		if err != nil {
			return err
		}
	}
	for _, data := range storage {
		err = w.writeBytes(data)
		if err != nil {
			return err
		}
	}
	return nil
}
