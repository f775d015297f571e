/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package shuffle remaps the codepoints a font assigns to glyphs within a range onto decoy
// codepoints outside of it, and translates text accordingly.
package shuffle

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/truetype"
)

// Range is an inclusive codepoint range.
type Range struct {
	Start rune
	End   rune
}

// CJKRange is the CJK Unified Ideographs block.
var CJKRange = Range{Start: 0x4E00, End: 0x9FFF}

// Contains returns true if `c` lies within the range.
func (r Range) Contains(c rune) bool {
	return r.Start <= c && c <= r.End
}

// Size returns the number of codepoints in the range.
func (r Range) Size() int {
	return int(r.End-r.Start) + 1
}

func (r Range) String() string {
	return fmt.Sprintf("U+%04X-U+%04X", r.Start, r.End)
}

// Validate checks the bounds of the range.
func (r Range) Validate() error {
	if r.Start < 0 || r.End > maxCodepoint || r.Start > r.End {
		return fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	return nil
}

// ParseRange parses a range written as "start-end". Bounds are decimal, 0x prefixed hex or
// U+ prefixed hex, e.g. "19968-40959", "0x4E00-0x9FFF" or "U+4E00-U+9FFF".
func ParseRange(s string) (Range, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	var bounds [2]rune
	for i, part := range parts {
		part = strings.TrimSpace(part)
		base := 0
		if strings.HasPrefix(part, "U+") || strings.HasPrefix(part, "u+") {
			part = part[2:]
			base = 16
		}
		v, err := strconv.ParseInt(part, base, 32)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
		}
		bounds[i] = rune(v)
	}
	rng := Range{Start: bounds[0], End: bounds[1]}
	return rng, rng.Validate()
}

// Options controls Shuffle. The zero value drops non-Unicode cmap subtables.
type Options struct {
	// KeepNonUnicode carries cmap subtables of formats other than 4 and 12 through unchanged.
	KeepNonUnicode bool
}

// Shuffle returns a copy of `cmap` in which the codepoints mapped within `rng` are replaced by
// decoy codepoints outside of it, together with the original to decoy table. Decoys are drawn
// from 0..Start-1 and End+1..65534 in an order permuted by `rnd`. `cmap` is not modified.
func Shuffle(cmap *truetype.CmapTable, rng Range, rnd *rand.Rand, opts Options) (*truetype.CmapTable, RemapTable, error) {
	if err := rng.Validate(); err != nil {
		return nil, nil, err
	}
	if cmap == nil {
		return nil, nil, ErrNoCmap
	}

	pool := decoyPool(rng, rnd)

	remap := RemapTable{}
	for _, c := range inUse(cmap) {
		if !rng.Contains(c) {
			continue
		}
		if len(pool) == 0 {
			common.Log.Debug("shuffle %s: no decoy left for U+%04X (%d assigned)", rng, c, len(remap))
			return nil, nil, fmt.Errorf("%w: %s, %d codepoints assigned", ErrPoolExhausted, rng, len(remap))
		}
		remap[c] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	common.Log.Debug("shuffle %s: %d codepoints remapped", rng, len(remap))

	decoys := remap.Decoys()
	var subtables []*truetype.CmapSubtable
	for _, st := range cmap.Subtables {
		if !st.IsUnicode() {
			if opts.KeepNonUnicode {
				subtables = append(subtables, st)
			} else {
				common.Log.Debug("shuffle: dropping cmap subtable (%d,%d) format %d", st.PlatformID, st.EncodingID, st.Format)
			}
			continue
		}

		mapping := make(map[rune]truetype.GlyphIndex, len(st.Mapping))
		for c, gid := range st.Mapping {
			if gid == 0 {
				continue
			}
			if decoy, ok := remap[c]; ok {
				mapping[decoy] = gid
				continue
			}
			if decoys[c] {
				common.Log.Trace("shuffle: U+%04X taken by a decoy, dropped", c)
				continue
			}
			mapping[c] = gid
		}
		subtables = append(subtables, st.WithMapping(mapping))
	}

	return cmap.WithSubtables(subtables), remap, nil
}

// inUse returns the union of the codepoints mapped by the Unicode subtables of `cmap`, sorted.
func inUse(cmap *truetype.CmapTable) []rune {
	seen := map[rune]bool{}
	var runes []rune
	for _, st := range cmap.Unicode() {
		for c, gid := range st.Mapping {
			if gid == 0 {
				continue
			}
			if !seen[c] {
				seen[c] = true
				runes = append(runes, c)
			}
		}
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

// decoyPool returns the permuted candidates outside `rng`, truncated to the size of the range.
func decoyPool(rng Range, rnd *rand.Rand) []rune {
	capacity := maxCodepoint - rng.Size()
	if capacity < 0 {
		capacity = 0
	}
	pool := make([]rune, 0, capacity)
	add := func(from, to rune) {
		for c := from; c <= to; c++ {
			if c >= surrogateMin && c <= surrogateMax {
				continue
			}
			pool = append(pool, c)
		}
	}
	add(0, rng.Start-1)
	add(rng.End+1, maxCodepoint-1)

	rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n := rng.Size(); n < len(pool) {
		pool = pool[:n]
	}
	return pool
}
