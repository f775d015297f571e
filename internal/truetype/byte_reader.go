/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/unidoc/fontshuffle/common"
)

// byteReader reads big endian sfnt values from a seekable source. Reads go through a buffer;
// seeking resets it.
type byteReader struct {
	src io.ReadSeeker
	buf *bufio.Reader
}

func newByteReader(src io.ReadSeeker) *byteReader {
	return &byteReader{src: src, buf: bufio.NewReader(src)}
}

// Offset returns the position of the next byte to be read.
func (r *byteReader) Offset() int64 {
	pos, err := r.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	return pos - int64(r.buf.Buffered())
}

// Seek moves to the absolute position `offset`.
func (r *byteReader) Seek(offset int64) error {
	if _, err := r.src.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	r.buf.Reset(r.src)
	return nil
}

// Skip discards the next `n` bytes.
func (r *byteReader) Skip(n int) error {
	_, err := r.buf.Discard(n)
	return err
}

// readAll returns everything from `offset` to the end of the source.
func (r *byteReader) readAll(offset int64) ([]byte, error) {
	if err := r.Seek(offset); err != nil {
		return nil, err
	}
	return io.ReadAll(r.buf)
}

// readBytes reads exactly `length` raw bytes into a new slice at `bp`.
func (r *byteReader) readBytes(bp *[]byte, length int) error {
	b := make([]byte, length)
	if _, err := io.ReadFull(r.buf, b); err != nil {
		return err
	}
	*bp = b
	return nil
}

func (r *byteReader) readUint16() (uint16, error) {
	return readValue[uint16](r)
}

// readSlice appends `length` values to the slice pointed to by `slice`.
func (r *byteReader) readSlice(slice interface{}, length int) error {
	switch s := slice.(type) {
	case *[]uint8:
		return appendValues(r, s, length)
	case *[]int8:
		return appendValues(r, s, length)
	case *[]uint16:
		return appendValues(r, s, length)
	case *[]int16:
		return appendValues(r, s, length)
	case *[]offset16:
		return appendValues(r, s, length)
	case *[]offset32:
		return appendValues(r, s, length)
	}
	common.Log.Debug("readSlice: unsupported type %T", slice)
	return errTypeCheck
}

// read fills `fields` in order. Every field must point to one of the fixed size sfnt types.
func (r *byteReader) read(fields ...interface{}) error {
	for _, field := range fields {
		switch field.(type) {
		case *uint8, *int8, *uint16, *int16, *uint32,
			*fixed, *fword, *ufword, *longdatetime, *tag, *offset16, *offset32:
		default:
			common.Log.Debug("read: unsupported type %T", field)
			return errTypeCheck
		}
		if err := binary.Read(r.buf, binary.BigEndian, field); err != nil {
			return err
		}
	}
	return nil
}

// sfntValue lists the fixed size values that appear in sfnt tables.
type sfntValue interface {
	uint8 | int8 | uint16 | int16 | uint32 |
		fixed | fword | ufword | longdatetime | tag | offset16 | offset32
}

func readValue[T sfntValue](r *byteReader) (T, error) {
	var v T
	err := binary.Read(r.buf, binary.BigEndian, &v)
	return v, err
}

func appendValues[T sfntValue](r *byteReader, dst *[]T, n int) error {
	if n <= 0 {
		return nil
	}
	vals := make([]T, n)
	if err := binary.Read(r.buf, binary.BigEndian, vals); err != nil {
		return err
	}
	*dst = append(*dst, vals...)
	return nil
}
