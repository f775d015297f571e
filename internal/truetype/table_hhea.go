/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import "github.com/unidoc/fontshuffle/common"

// HheaTable represents the horizontal header table (hhea).
// This table contains information for horizontal layout.
// https://docs.microsoft.com/en-us/typography/opentype/spec/hhea
type HheaTable struct {
	majorVersion        uint16
	minorVersion        uint16
	ascender            fword
	descender           fword
	lineGap             fword
	advanceWidthMax     ufword
	minLeftSideBearing  fword
	minRightSideBearing fword
	xMaxExtent          fword
	caretSlopeRise      int16
	caretSlopeRun       int16
	caretOffset         int16
	metricDataFormat    int16
	numberOfHMetrics    uint16 // Number of hMetric entries in 'hmtx' table.
}

// NumberOfHMetrics returns the number of long horizontal metrics in the hmtx table.
func (t *HheaTable) NumberOfHMetrics() int {
	return int(t.numberOfHMetrics)
}

// WithNumberOfHMetrics returns a copy of `t` with the metrics count set to `n`.
func (t *HheaTable) WithNumberOfHMetrics(n int) *HheaTable {
	dup := *t
	dup.numberOfHMetrics = uint16(n)
	return &dup
}

func (f *Font) parseHhea(r *byteReader) (*HheaTable, error) {
	_, has, err := f.seekToTable(r, tagHhea)
	if err != nil {
		return nil, err
	}
	if !has {
		common.Log.Debug("hhea table absent")
		return nil, nil
	}

	t := &HheaTable{}
	err = r.read(&t.majorVersion, &t.minorVersion)
	if err != nil {
		return nil, err
	}

	err = r.read(&t.ascender, &t.descender, &t.lineGap)
	if err != nil {
		return nil, err
	}

	err = r.read(&t.advanceWidthMax, &t.minLeftSideBearing, &t.minRightSideBearing, &t.xMaxExtent)
	if err != nil {
		return nil, err
	}

	err = r.read(&t.caretSlopeRise, &t.caretSlopeRun, &t.caretOffset)
	if err != nil {
		return nil, err
	}

	// Skip over reserved bytes.
	err = r.Skip(4 * 2)
	if err != nil {
		return nil, err
	}

	return t, r.read(&t.metricDataFormat, &t.numberOfHMetrics)
}

func (f *Font) writeHhea(w *byteWriter) error {
	if f.Hhea == nil {
		common.Log.Debug("hhea is nil - nothing to write")
		return nil
	}

	t := f.Hhea
	numberOfHMetrics := t.numberOfHMetrics
	if f.Hmtx != nil && int(numberOfHMetrics) != len(f.Hmtx.Metrics) {
		// hmtx is always written with one long metric per glyph.
		common.Log.Trace("hhea: numberOfHMetrics %d -> %d", numberOfHMetrics, len(f.Hmtx.Metrics))
		numberOfHMetrics = uint16(len(f.Hmtx.Metrics))
	}

	err := w.write(t.majorVersion, t.minorVersion)
	if err != nil {
		return err
	}

	err = w.write(t.ascender, t.descender, t.lineGap)
	if err != nil {
		return err
	}

	err = w.write(t.advanceWidthMax, t.minLeftSideBearing, t.minRightSideBearing, t.xMaxExtent)
	if err != nil {
		return err
	}

	err = w.write(t.caretSlopeRise, t.caretSlopeRun, t.caretOffset)
	if err != nil {
		return err
	}

	reserved := int16(0)
	err = w.write(reserved, reserved, reserved, reserved)
	if err != nil {
		return err
	}

	return w.write(t.metricDataFormat, numberOfHMetrics)
}
