/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/unidoc/fontshuffle/common"
)

// Font is a data model for truetype fonts with basic access methods.
//
// The tables the shuffler and subsetter operate on are decoded into typed fields (nil when the
// table is absent). All other tables are carried as raw bytes and written back unchanged.
type Font struct {
	ot   *offsetTable
	trec *tableRecords // table records (references other tables).

	Head *HeadTable
	Maxp *MaxpTable
	Hhea *HheaTable
	Hmtx *HmtxTable
	Loca *LocaTable
	Glyf *GlyfTable
	Cmap *CmapTable
	Gvar *GvarTable // nil for static fonts.
	Name *NameTable
	OS2  *OS2Table
	Post *PostTable

	raw map[string][]byte // untyped tables by tag.
}

// typedTags are the tables decoded into the typed fields of Font.
var typedTags = map[string]bool{
	tagHead: true, tagMaxp: true, tagHhea: true, tagHmtx: true, tagLoca: true, tagGlyf: true,
	tagCmap: true, tagGvar: true, tagName: true, tagOS2: true, tagPost: true,
}

// NewFont returns an empty font with the given sfnt version.
func NewFont(sfntVersion uint32) *Font {
	return &Font{
		ot:  &offsetTable{sfntVersion: sfntVersion},
		raw: map[string][]byte{},
	}
}

// SfntVersion returns the sfnt version of the font (0x00010000 for TrueType outlines).
func (f *Font) SfntVersion() uint32 {
	if f.ot == nil {
		return sfntVersionTrueType
	}
	return f.ot.sfntVersion
}

// NumGlyphs returns the number of glyphs according to maxp, or 0 if maxp is absent.
func (f *Font) NumGlyphs() int {
	if f.Maxp == nil {
		return 0
	}
	return int(f.Maxp.numGlyphs)
}

// Copy returns a shallow copy of `f`. Typed tables are shared; the raw table set is copied so
// tables can be added or removed on the copy only.
func (f *Font) Copy() *Font {
	dup := *f
	dup.raw = make(map[string][]byte, len(f.raw))
	for k, v := range f.raw {
		dup.raw[k] = v
	}
	return &dup
}

// RawTable returns the data of untyped table `tableName`, or nil if it is absent.
func (f *Font) RawTable(tableName string) []byte {
	return f.raw[tableName]
}

// SetRawTable sets the data of untyped table `tableName`. A nil `data` removes the table.
func (f *Font) SetRawTable(tableName string, data []byte) {
	if f.raw == nil {
		f.raw = map[string][]byte{}
	}
	if data == nil {
		delete(f.raw, tableName)
		return
	}
	f.raw[tableName] = data
}

// RawTags returns the tags of the untyped tables, sorted.
func (f *Font) RawTags() []string {
	tags := make([]string, 0, len(f.raw))
	for t := range f.raw {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// HasTable returns true if the font holds table `tableName`, typed or raw.
func (f *Font) HasTable(tableName string) bool {
	switch tableName {
	case tagHead:
		return f.Head != nil
	case tagMaxp:
		return f.Maxp != nil
	case tagHhea:
		return f.Hhea != nil
	case tagHmtx:
		return f.Hmtx != nil
	case tagLoca:
		return f.Loca != nil
	case tagGlyf:
		return f.Glyf != nil
	case tagCmap:
		return f.Cmap != nil
	case tagGvar:
		return f.Gvar != nil
	case tagName:
		return f.Name != nil
	case tagOS2:
		return f.OS2 != nil
	case tagPost:
		return f.Post != nil
	}
	_, has := f.raw[tableName]
	return has
}

// Tags returns the tags of all tables in the font, in table directory order.
func (f *Font) Tags() []string {
	var tags []string
	for t := range typedTags {
		if f.HasTable(t) {
			tags = append(tags, t)
		}
	}
	tags = append(tags, f.RawTags()...)
	sort.Slice(tags, func(i, j int) bool {
		return makeTag(tags[i]).uint32() < makeTag(tags[j]).uint32()
	})
	return tags
}

func parseFont(r *byteReader) (*Font, error) {
	f := &Font{raw: map[string][]byte{}}

	var err error

	f.ot, err = f.parseOffsetTable(r)
	if err != nil {
		return nil, err
	}

	f.trec, err = f.parseTableRecords(r)
	if err != nil {
		return nil, err
	}

	f.Head, err = f.parseHead(r)
	if err != nil {
		return nil, err
	}

	f.Maxp, err = f.parseMaxp(r)
	if err != nil {
		return nil, err
	}

	f.Hhea, err = f.parseHhea(r)
	if err != nil {
		return nil, err
	}

	if f.trec.HasTable(tagHmtx) {
		f.Hmtx, err = f.parseHmtx(r)
		if err != nil {
			return nil, err
		}
	}

	if f.trec.HasTable(tagLoca) {
		f.Loca, err = f.parseLoca(r)
		if err != nil {
			return nil, err
		}
	}

	if f.trec.HasTable(tagGlyf) {
		f.Glyf, err = f.parseGlyf(r)
		if err != nil {
			return nil, err
		}
	}

	f.Cmap, err = f.parseCmap(r)
	if err != nil {
		return nil, err
	}

	f.Gvar, err = f.parseGvar(r)
	if err != nil {
		return nil, err
	}

	f.Name, err = f.parseNameTable(r)
	if err != nil {
		return nil, err
	}

	f.OS2, err = f.parseOS2Table(r)
	if err != nil {
		return nil, err
	}

	if f.trec.HasTable(tagPost) {
		f.Post, err = f.parsePost(r)
		if err != nil {
			return nil, err
		}
	}

	for _, tr := range f.trec.list {
		name := tr.tableTag.String()
		if typedTags[name] {
			continue
		}
		data, err := f.readTableData(r, name)
		if err != nil {
			return nil, err
		}
		common.Log.Trace("raw table %s: %d bytes", name, len(data))
		f.raw[name] = data
	}

	return f, nil
}

// check verifies the glyph counts of the tables agree with maxp.
func (f *Font) check() error {
	if f.Maxp == nil {
		return nil
	}
	numGlyphs := int(f.Maxp.numGlyphs)
	if f.Hmtx != nil && len(f.Hmtx.Metrics) != numGlyphs {
		common.Log.Debug("hmtx: %d metrics for %d glyphs", len(f.Hmtx.Metrics), numGlyphs)
		return errRangeCheck
	}
	if f.Glyf != nil && len(f.Glyf.Glyphs) != numGlyphs {
		common.Log.Debug("glyf: %d glyphs for %d glyphs", len(f.Glyf.Glyphs), numGlyphs)
		return errRangeCheck
	}
	if f.Loca != nil {
		if err := f.Loca.check(numGlyphs); err != nil {
			return err
		}
	}
	if f.Gvar != nil && len(f.Gvar.Variations) != numGlyphs {
		common.Log.Debug("gvar: %d entries for %d glyphs", len(f.Gvar.Variations), numGlyphs)
		return errRangeCheck
	}
	return nil
}

// marshalTable returns the serialized data of table `tableName`.
func (f *Font) marshalTable(tableName string) ([]byte, error) {
	var writeFn func(w *byteWriter) error
	switch tableName {
	case tagHead:
		writeFn = f.writeHead
	case tagMaxp:
		writeFn = f.writeMaxp
	case tagHhea:
		writeFn = f.writeHhea
	case tagHmtx:
		writeFn = f.writeHmtx
	case tagLoca:
		writeFn = f.writeLoca
	case tagGlyf:
		writeFn = f.writeGlyf
	case tagCmap:
		writeFn = f.writeCmap
	case tagGvar:
		writeFn = f.writeGvar
	case tagName:
		writeFn = f.writeName
	case tagOS2:
		writeFn = f.writeOS2
	case tagPost:
		writeFn = f.writePost
	default:
		data, has := f.raw[tableName]
		if !has {
			return nil, errRequiredField
		}
		return data, nil
	}

	var buf bytes.Buffer
	w := newByteWriter(&buf)
	err := writeFn(w)
	if err != nil {
		common.Log.Debug("Failed writing %s: %v", tableName, err)
		return nil, err
	}
	return w.bytes(), nil
}

// write lays out the font in `w`:
//    1. Serialize each table and calculate its checksum.
//    2. Generate the table records, sorted by tag, with offsets of the 4 byte aligned tables.
//    3. Write the offset table, table records and the tables.
//    4. Set checksumAdjustment of the head table based on the checksum of the entire file.
func (f *Font) write(w *byteWriter) error {
	if err := f.check(); err != nil {
		return err
	}

	tags := f.Tags()
	datas := make([][]byte, len(tags))
	out := *f
	out.ot = newOffsetTable(f.SfntVersion(), len(tags))
	out.trec = &tableRecords{trMap: map[string]tableRecord{}}

	offset := 12 + 16*len(tags)
	for i, name := range tags {
		data, err := f.marshalTable(name)
		if err != nil {
			return err
		}
		datas[i] = data
		tr := tableRecord{
			tableTag: makeTag(name),
			checksum: calcChecksum(data),
			offset:   offset32(offset),
			length:   uint32(len(data)),
		}
		common.Log.Trace("table %s: offset=%d length=%d checksum=0x%08X", name, tr.offset, tr.length, tr.checksum)
		out.trec.list = append(out.trec.list, tr)
		out.trec.trMap[name] = tr
		offset += (len(data) + 3) &^ 3
	}
	out.trec.sort()

	err := out.writeOffsetTable(w)
	if err != nil {
		return err
	}
	err = out.writeTableRecords(w)
	if err != nil {
		return err
	}
	for _, data := range datas {
		err = w.writeBytes(data)
		if err != nil {
			return err
		}
		err = w.pad4()
		if err != nil {
			return err
		}
	}

	if headRec, ok := out.trec.trMap[tagHead]; ok {
		buf := w.bytes()
		adjustment := 0xB1B0AFBA - calcChecksum(buf)
		binary.BigEndian.PutUint32(buf[headRec.offset+8:], adjustment)
	}
	return nil
}
