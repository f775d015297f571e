/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package shuffle

import "strings"

// RemapTable maps original codepoints to their decoys.
type RemapTable map[rune]rune

// Inverse returns the decoy to original table.
func (t RemapTable) Inverse() RemapTable {
	inv := make(RemapTable, len(t))
	for orig, decoy := range t {
		inv[decoy] = orig
	}
	return inv
}

// Decoys returns the set of assigned decoy codepoints.
func (t RemapTable) Decoys() map[rune]bool {
	decoys := make(map[rune]bool, len(t))
	for _, decoy := range t {
		decoys[decoy] = true
	}
	return decoys
}

// RemapText replaces every rune of `text` found in `table` by its decoy. Other runes are kept.
func RemapText(text string, table RemapTable) string {
	return strings.Map(func(r rune) rune {
		if decoy, ok := table[r]; ok {
			return decoy
		}
		return r
	}, text)
}

// RestoreText reverses RemapText for text remapped with `table`.
func RestoreText(text string, table RemapTable) string {
	return RemapText(text, table.Inverse())
}
