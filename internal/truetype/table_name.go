/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	textunicode "golang.org/x/text/encoding/unicode"

	"github.com/unidoc/fontshuffle/common"
)

// Name IDs written by NewNameTable.
const (
	NameIDFamily         = 1
	NameIDSubfamily      = 2
	NameIDFullName       = 4
	NameIDPostScriptName = 6
)

// Platform, encoding and language of the name records written by NewNameTable.
const (
	platformUnicode   = 0
	platformMac       = 1
	platformWindows   = 3
	macEncodingRoman  = 0
	macLanguageEn     = 0
	winEncodingBMP    = 1
	winLanguageEnUS   = 0x0409
	nameRecordSize    = 12
	langTagRecordSize = 4
)

var utf16be = textunicode.UTF16(textunicode.BigEndian, textunicode.IgnoreBOM)

// NameTable represents the Naming table (name).
// The naming table allows multilingual strings to be associated with the font.
// These strings can represent copyright notices, font names, family names, style names, and so on.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name
type NameTable struct {
	// format >= 0
	format      uint16
	nameRecords []*nameRecord

	// format = 1 adds
	langTagRecords []*langTagRecord
}

type langTagRecord struct {
	data []byte // actual string data (UTF-16BE format).
}

// Each string in the string storage is referenced by a name record.
type nameRecord struct {
	platformID uint16
	encodingID uint16
	languageID uint16
	nameID     uint16
	data       []byte // actual string data.
}

// NewNameTable returns a name table with family, subfamily, full and PostScript names derived
// from `family` and `subfamily`, each recorded for the Macintosh Roman and the Windows Unicode
// (en-US) platforms.
func NewNameTable(family, subfamily string) *NameTable {
	full := family
	if subfamily != "" && subfamily != "Regular" {
		full = family + " " + subfamily
	}
	psName := strings.Replace(family, " ", "", -1)
	if subfamily != "" {
		psName += "-" + strings.Replace(subfamily, " ", "", -1)
	}
	values := []struct {
		id  uint16
		val string
	}{
		{NameIDFamily, family},
		{NameIDSubfamily, subfamily},
		{NameIDFullName, full},
		{NameIDPostScriptName, psName},
	}

	t := &NameTable{}
	macEncoder := encoding.ReplaceUnsupported(charmap.Macintosh.NewEncoder())
	for _, v := range values {
		data, err := macEncoder.Bytes([]byte(v.val))
		if err != nil {
			common.Log.Debug("name %d: mac roman encoding failed: %v", v.id, err)
			continue
		}
		t.nameRecords = append(t.nameRecords, &nameRecord{
			platformID: platformMac,
			encodingID: macEncodingRoman,
			languageID: macLanguageEn,
			nameID:     v.id,
			data:       data,
		})
	}
	for _, v := range values {
		data, err := utf16be.NewEncoder().Bytes([]byte(v.val))
		if err != nil {
			common.Log.Debug("name %d: UTF-16BE encoding failed: %v", v.id, err)
			continue
		}
		t.nameRecords = append(t.nameRecords, &nameRecord{
			platformID: platformWindows,
			encodingID: winEncodingBMP,
			languageID: winLanguageEnUS,
			nameID:     v.id,
			data:       data,
		})
	}
	t.sort()
	return t
}

// sort orders the records by platform, encoding, language and name ID.
func (t *NameTable) sort() {
	sort.SliceStable(t.nameRecords, func(i, j int) bool {
		a, b := t.nameRecords[i], t.nameRecords[j]
		if a.platformID != b.platformID {
			return a.platformID < b.platformID
		}
		if a.encodingID != b.encodingID {
			return a.encodingID < b.encodingID
		}
		if a.languageID != b.languageID {
			return a.languageID < b.languageID
		}
		return a.nameID < b.nameID
	})
}

// GetNameByID returns the first entry according to the name table with `nameID`.
// An empty string is returned otherwise (nothing found).
func (t *NameTable) GetNameByID(nameID int) string {
	if t == nil {
		common.Log.Debug("ERROR: name table not set")
		return ""
	}
	for _, nr := range t.nameRecords {
		if int(nr.nameID) == nameID {
			return nr.Decoded()
		}
	}
	return ""
}

// GetNameByID returns the first entry of the font's name table with `nameID`.
func (f *Font) GetNameByID(nameID int) string {
	if f == nil {
		return ""
	}
	return f.Name.GetNameByID(nameID)
}

// makePrintable replaces unprintable runes with quotes runes, returning printable string.
func makePrintable(str string) string {
	var buf bytes.Buffer
	for _, r := range str {
		if unicode.IsPrint(r) || r == '\n' {
			buf.WriteRune(r)
		} else {
			buf.WriteString(strconv.QuoteRune(r))
		}
	}
	return buf.String()
}

// Decoded attempts to decode the underlying data and convert to a string.
func (nr nameRecord) Decoded() string {
	switch nr.platformID {
	case platformUnicode:
		if decoded, err := utf16be.NewDecoder().Bytes(nr.data); err == nil {
			return makePrintable(string(decoded))
		}
	case platformMac:
		decoded, err := charmap.Macintosh.NewDecoder().Bytes(nr.data)
		if err == nil {
			return makePrintable(string(decoded))
		}

	case platformWindows:
		// When building a Unicode font for Windows, the platform ID should be 3 and the encoding ID should be 1,
		// and the referenced string data must be encoded in UTF-16BE. When building a symbol font for Windows,
		// the platform ID should be 3 and the encoding ID should be 0, and the referenced string data must be
		// encoded in UTF-16BE. (https://docs.microsoft.com/en-us/typography/opentype/spec/name).
		if nr.encodingID == 0 || nr.encodingID == 1 {
			if decoded, err := utf16be.NewDecoder().Bytes(nr.data); err == nil {
				return makePrintable(string(decoded))
			}
		}
	}

	return makePrintable(string(nr.data))
}

func (f *Font) parseNameTable(r *byteReader) (*NameTable, error) {
	tr, has, err := f.seekToTable(r, tagName)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}

	t := &NameTable{}
	var count uint16
	var stringOffset offset16
	err = r.read(&t.format, &count, &stringOffset)
	if err != nil {
		return nil, err
	}
	if t.format > 1 {
		common.Log.Debug("ERROR: format > 1 (%d)", t.format)
		return nil, errRangeCheck
	}

	type location struct {
		length uint16
		offset offset16
	}
	var nameLocs []location
	for i := 0; i < int(count); i++ {
		var nr nameRecord
		var loc location
		err = r.read(&nr.platformID, &nr.encodingID, &nr.languageID, &nr.nameID, &loc.length, &loc.offset)
		if err != nil {
			return nil, err
		}
		t.nameRecords = append(t.nameRecords, &nr)
		nameLocs = append(nameLocs, loc)
	}

	var langLocs []location
	if t.format == 1 {
		var langTagCount uint16
		err = r.read(&langTagCount)
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(langTagCount); i++ {
			var loc location
			err = r.read(&loc.length, &loc.offset)
			if err != nil {
				return nil, err
			}
			t.langTagRecords = append(t.langTagRecords, &langTagRecord{})
			langLocs = append(langLocs, loc)
		}
	}

	readString := func(loc location) ([]byte, error) {
		if int(stringOffset)+int(loc.offset)+int(loc.length) > int(tr.length) {
			common.Log.Debug("name string offset outside table")
			return nil, errRangeCheck
		}
		err := r.Seek(int64(stringOffset) + int64(tr.offset) + int64(loc.offset))
		if err != nil {
			common.Log.Debug("Error: %v", err)
			return nil, err
		}
		var data []byte
		err = r.readBytes(&data, int(loc.length))
		if err != nil {
			common.Log.Debug("Error: %v", err)
			return nil, err
		}
		return data, nil
	}

	// Get the actual string data.
	for i, nr := range t.nameRecords {
		nr.data, err = readString(nameLocs[i])
		if err != nil {
			return nil, err
		}
	}
	for i, ltr := range t.langTagRecords {
		ltr.data, err = readString(langLocs[i])
		if err != nil {
			return nil, err
		}
	}

	common.Log.Debug("Name records: %d", len(t.nameRecords))
	for _, nr := range t.nameRecords {
		common.Log.Trace("%d %d %d - '%s' (%d)", nr.platformID, nr.encodingID, nr.nameID, nr.Decoded(), len(nr.data))
	}

	return t, nil
}

// writeName writes the records followed by the string storage.
func (f *Font) writeName(w *byteWriter) error {
	if f.Name == nil {
		return errRequiredField
	}
	t := f.Name

	headerLen := 6 + nameRecordSize*len(t.nameRecords)
	if t.format == 1 {
		headerLen += 2 + langTagRecordSize*len(t.langTagRecords)
	}
	if headerLen > 0xFFFF {
		return errRangeCheck
	}

	var storage bytes.Buffer
	err := w.write(t.format, uint16(len(t.nameRecords)), offset16(headerLen))
	if err != nil {
		return err
	}
	for _, nr := range t.nameRecords {
		if storage.Len() > 0xFFFF || len(nr.data) > 0xFFFF {
			return errRangeCheck
		}
		err = w.write(nr.platformID, nr.encodingID, nr.languageID, nr.nameID, uint16(len(nr.data)), offset16(storage.Len()))
		if err != nil {
			return err
		}
		storage.Write(nr.data)
	}
	if t.format == 1 {
		err = w.writeUint16(uint16(len(t.langTagRecords)))
		if err != nil {
			return err
		}
		for _, ltr := range t.langTagRecords {
			err = w.write(uint16(len(ltr.data)), offset16(storage.Len()))
			if err != nil {
				return err
			}
			storage.Write(ltr.data)
		}
	}
	return w.writeBytes(storage.Bytes())
}
