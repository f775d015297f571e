/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package subset

import "errors"

// ErrMissingTable is returned when a table the subsetter rebuilds is absent. It is wrapped with
// the table tag.
var ErrMissingTable = errors.New("required table missing")

// requiredTables are the tables every subset is rebuilt from.
var requiredTables = []string{"head", "maxp", "hhea", "hmtx", "glyf", "loca", "cmap"}

// passThroughTables are the raw tables copied into a subset. They do not reference glyph IDs.
// Every other raw table (GSUB, GPOS, GDEF, kern, HVAR, ...) is dropped.
var passThroughTables = map[string]bool{
	"fvar": true,
	"avar": true,
	"cvt":  true,
	"fpgm": true,
	"prep": true,
	"gasp": true,
}

// familyPrefix prefixes generated family names.
const familyPrefix = "Shuffled-"
