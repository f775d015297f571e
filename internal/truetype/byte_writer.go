/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/unidoc/fontshuffle/common"
)

// byteWriter encapsulates io.Writer and provides methods to write binary data as fit for truetype fonts.
// Writes are buffered until flushed. Provides methods to calculate checksum of the current buffer.
type byteWriter struct {
	w   io.Writer
	len int64

	buffer bytes.Buffer
}

func newByteWriter(w io.Writer) *byteWriter {
	return &byteWriter{
		w: w,
	}
}

func (w *byteWriter) flush() error {
	b := w.buffer.Bytes()
	_, err := w.w.Write(b)
	if err != nil {
		return err
	}

	w.buffer.Reset()
	return nil
}

// bufferedLen returns the length of the current buffer.
func (w *byteWriter) bufferedLen() int {
	return w.buffer.Len()
}

// bytes returns the current buffer contents.
func (w *byteWriter) bytes() []byte {
	return w.buffer.Bytes()
}

// checksum returns the checksum of the current buffer.
func (w *byteWriter) checksum() uint32 {
	return calcChecksum(w.buffer.Bytes())
}

// calcChecksum sums `data` as big endian uint32 values, zero padding the final partial word.
func calcChecksum(data []byte) uint32 {
	var sum uint32
	n := len(data)
	for i := 0; i+4 <= n; i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	if rem := n % 4; rem != 0 {
		var last [4]byte
		copy(last[:], data[n-rem:])
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

// pad4 appends zero bytes until the buffer length is a multiple of 4.
func (w *byteWriter) pad4() error {
	for w.bufferedLen()%4 != 0 {
		if err := w.writeUint8(0); err != nil {
			return err
		}
	}
	return nil
}

func (w *byteWriter) writeBytes(b []byte) error {
	n, err := w.buffer.Write(b)
	w.len += int64(n)
	return err
}

func (w *byteWriter) writeSlice(slice interface{}) error {
	switch t := slice.(type) {
	case []uint8:
		return w.writeBytes(t)
	case []int8:
		for _, val := range t {
			err := w.writeUint8(uint8(val))
			if err != nil {
				return err
			}
		}
	case []uint16:
		for _, val := range t {
			err := w.writeUint16(val)
			if err != nil {
				return err
			}
		}
	case []int16:
		for _, val := range t {
			err := w.writeInt16(val)
			if err != nil {
				return err
			}
		}
	case []offset16:
		for _, val := range t {
			err := w.writeOffset16(val)
			if err != nil {
				return err
			}
		}
	case []offset32:
		for _, val := range t {
			err := w.writeOffset32(val)
			if err != nil {
				return err
			}
		}
	default:
		common.Log.Debug("Write type check error: %T (slice)", t)
		return errTypeCheck
	}
	return nil
}

// Write a series of values to `w`.
func (w *byteWriter) write(fields ...interface{}) error {
	for _, f := range fields {
		var err error
		switch t := f.(type) {
		case uint8:
			err = w.writeUint8(t)
		case int8:
			err = w.writeUint8(uint8(t))
		case uint16:
			err = w.writeUint16(t)
		case int16:
			err = w.writeInt16(t)
		case uint32:
			err = w.writeUint32(t)
		case fixed:
			err = w.writeUint32(uint32(t))
		case fword:
			err = w.writeInt16(int16(t))
		case ufword:
			err = w.writeUint16(uint16(t))
		case longdatetime:
			err = binary.Write(&w.buffer, binary.BigEndian, int64(t))
			w.len += 8
		case tag:
			err = w.writeTag(t)
		case offset16:
			err = w.writeOffset16(t)
		case offset32:
			err = w.writeOffset32(t)
		default:
			common.Log.Debug("Write type check error: %T", t)
			return errTypeCheck
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *byteWriter) writeUint8(vals ...uint8) error {
	err := binary.Write(&w.buffer, binary.BigEndian, vals)
	if err != nil {
		return err
	}
	w.len += int64(len(vals))
	return nil
}

func (w *byteWriter) writeUint16(vals ...uint16) error {
	err := binary.Write(&w.buffer, binary.BigEndian, vals)
	if err != nil {
		return err
	}
	w.len += 2 * int64(len(vals))
	return nil
}

func (w *byteWriter) writeInt16(vals ...int16) error {
	err := binary.Write(&w.buffer, binary.BigEndian, vals)
	if err != nil {
		return err
	}
	w.len += 2 * int64(len(vals))
	return nil
}

func (w *byteWriter) writeUint32(val uint32) error {
	err := binary.Write(&w.buffer, binary.BigEndian, val)
	if err != nil {
		return err
	}
	w.len += 4
	return nil
}

func (w *byteWriter) writeTag(val tag) error {
	err := binary.Write(&w.buffer, binary.BigEndian, val)
	if err != nil {
		return err
	}
	w.len += 4
	return nil
}

func (w *byteWriter) writeOffset16(val offset16) error {
	err := binary.Write(&w.buffer, binary.BigEndian, val)
	if err != nil {
		return err
	}
	w.len += 2
	return nil
}

func (w *byteWriter) writeOffset32(val offset32) error {
	err := binary.Write(&w.buffer, binary.BigEndian, val)
	if err != nil {
		return err
	}
	w.len += 4
	return nil
}
