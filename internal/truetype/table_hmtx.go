/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import "github.com/unidoc/fontshuffle/common"

// HmtxTable represents the horizontal metrics table (hmtx), expanded to one long metric per
// glyph. Trailing left side bearings that share the last advance width are expanded on parse.
type HmtxTable struct {
	Metrics []LongHorMetric
}

// LongHorMetric is the horizontal metric of a single glyph.
type LongHorMetric struct {
	AdvanceWidth uint16
	LSB          int16
}

// Subset returns the metrics of the glyphs in `keep` in that order.
func (t *HmtxTable) Subset(keep []GlyphIndex) (*HmtxTable, error) {
	sub := &HmtxTable{Metrics: make([]LongHorMetric, 0, len(keep))}
	for _, gid := range keep {
		if int(gid) >= len(t.Metrics) {
			common.Log.Debug("hmtx: glyph %d outside metrics (%d)", gid, len(t.Metrics))
			return nil, errRangeCheck
		}
		sub.Metrics = append(sub.Metrics, t.Metrics[gid])
	}
	return sub, nil
}

func (f *Font) parseHmtx(r *byteReader) (*HmtxTable, error) {
	if f.Maxp == nil || f.Hhea == nil {
		common.Log.Debug("maxp or hhea table missing")
		return nil, errRequiredField
	}

	_, has, err := f.seekToTable(r, tagHmtx)
	if err != nil {
		return nil, err
	}
	if !has {
		common.Log.Debug("hmtx table absent")
		return nil, nil
	}

	numGlyphs := int(f.Maxp.numGlyphs)
	numberOfHMetrics := int(f.Hhea.numberOfHMetrics)
	if numberOfHMetrics > numGlyphs || (numberOfHMetrics == 0 && numGlyphs > 0) {
		common.Log.Debug("ERROR: numberOfHMetrics %d, numGlyphs %d", numberOfHMetrics, numGlyphs)
		return nil, errRangeCheck
	}

	t := &HmtxTable{Metrics: make([]LongHorMetric, 0, numGlyphs)}
	for i := 0; i < numberOfHMetrics; i++ {
		var lhm LongHorMetric
		err := r.read(&lhm.AdvanceWidth, &lhm.LSB)
		if err != nil {
			return nil, err
		}

		t.Metrics = append(t.Metrics, lhm)
	}

	var lsbs []int16
	err = r.readSlice(&lsbs, numGlyphs-numberOfHMetrics)
	if err != nil {
		return nil, err
	}
	for _, lsb := range lsbs {
		t.Metrics = append(t.Metrics, LongHorMetric{
			AdvanceWidth: t.Metrics[numberOfHMetrics-1].AdvanceWidth,
			LSB:          lsb,
		})
	}

	return t, nil
}

func (f *Font) writeHmtx(w *byteWriter) error {
	if f.Hmtx == nil {
		return errRequiredField
	}
	for _, m := range f.Hmtx.Metrics {
		err := w.write(m.AdvanceWidth, m.LSB)
		if err != nil {
			return err
		}
	}
	return nil
}
