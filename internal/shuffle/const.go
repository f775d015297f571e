/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package shuffle

import "errors"

var (
	// ErrInvalidRange is returned for ranges with Start > End or bounds outside 0..65535.
	ErrInvalidRange = errors.New("invalid codepoint range")

	// ErrPoolExhausted is returned when more in-range codepoints are in use than decoys are
	// available.
	ErrPoolExhausted = errors.New("decoy pool exhausted")

	// ErrNoCmap is returned when shuffling a font without a cmap table.
	ErrNoCmap = errors.New("cmap table missing")
)

// maxCodepoint is the upper bound of the codepoint space shuffling works in.
const maxCodepoint = 0xFFFF

// Surrogate code points cannot be represented in text and are never used as decoys.
const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)
