/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"bytes"
	"io"
	"os"
)

// Parse parses the truetype font from `rs` and returns a new Font.
func Parse(rs io.ReadSeeker) (*Font, error) {
	r := newByteReader(rs)
	return parseFont(r)
}

// ParseBytes parses the truetype font held in `data`.
func ParseBytes(data []byte) (*Font, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile parses the truetype font from file given by path.
func ParseFile(filePath string) (*Font, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	defer f.Close()
	return Parse(f)
}

// Validate validates the truetype font in `rs`: required tables are present and the table and
// whole-file checksums are correct.
func Validate(rs io.ReadSeeker) error {
	br := newByteReader(rs)
	fnt, err := parseFont(br)
	if err != nil {
		return err
	}

	return fnt.validate(br)
}

// ValidateFile validates the truetype font given by `filePath`.
func ValidateFile(filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	return Validate(f)
}

// Bytes returns the serialized font.
func (f *Font) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	bw := newByteWriter(&buf)
	err := f.write(bw)
	if err != nil {
		return nil, err
	}
	err = bw.flush()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the font to `w`.
func (f *Font) Write(w io.Writer) error {
	bw := newByteWriter(w)
	err := f.write(bw)
	if err != nil {
		return err
	}
	return bw.flush()
}
