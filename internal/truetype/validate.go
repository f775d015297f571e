/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"fmt"

	"github.com/unidoc/fontshuffle/common"
)

// checksumMagic is the constant the head checkSumAdjustment is subtracted from.
const checksumMagic = 0xB1B0AFBA

// validate checks the table checksums of the parsed font `f` against the bytes of `r`, then
// the head checkSumAdjustment against the whole file.
func (f *Font) validate(r *byteReader) error {
	if f.trec == nil || f.ot == nil || f.Head == nil {
		common.Log.Debug("validate: offset table, table records and head are required")
		return errRequiredField
	}
	headRec, ok := f.trec.trMap[tagHead]
	if !ok {
		return errRequiredField
	}

	data, err := r.readAll(0)
	if err != nil {
		return err
	}

	for _, tr := range f.trec.list {
		if err := validateTable(data, tr); err != nil {
			return err
		}
	}

	// The file sum is taken with the adjustment field zeroed, on a copy.
	adjusted := make([]byte, len(data))
	copy(adjusted, data)
	if err := clearAdjustment(adjusted[headRec.offset:]); err != nil {
		return err
	}
	want := uint32(checksumMagic) - calcChecksum(adjusted)
	if f.Head.checksumAdjustment != want {
		common.Log.Debug("validate: checkSumAdjustment 0x%08X, want 0x%08X", f.Head.checksumAdjustment, want)
		return fmt.Errorf("%w: head checkSumAdjustment", ErrChecksum)
	}
	common.Log.Trace("validate: %d tables, %d bytes ok", len(f.trec.list), len(data))
	return nil
}

// validateTable compares the checksum of the table at `tr` in the file `data` with its record.
func validateTable(data []byte, tr tableRecord) error {
	name := tr.tableTag.String()
	end := int64(tr.offset) + int64(tr.length)
	if end > int64(len(data)) {
		common.Log.Debug("validate: %s ends at %d, file has %d bytes", name, end, len(data))
		return fmt.Errorf("%w: %s", errRangeCheck, name)
	}

	table := data[tr.offset:end]
	if name == tagHead {
		table = append([]byte(nil), table...)
		if err := clearAdjustment(table); err != nil {
			return err
		}
	}

	if sum := calcChecksum(table); sum != tr.checksum {
		common.Log.Debug("validate: %s checksum 0x%08X, record has 0x%08X", name, sum, tr.checksum)
		return fmt.Errorf("%w: %s", ErrChecksum, name)
	}
	return nil
}

// clearAdjustment zeroes checkSumAdjustment in the head table data `head`.
func clearAdjustment(head []byte) error {
	if len(head) < 12 {
		return fmt.Errorf("%w: head too short", errRangeCheck)
	}
	copy(head[8:12], []byte{0, 0, 0, 0})
	return nil
}
