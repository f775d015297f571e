/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import "errors"

var (
	errTypeCheck     = errors.New("type check error")
	errRangeCheck    = errors.New("range check error")
	errRequiredField = errors.New("required field missing")
)

var (
	// ErrChecksum is returned by Validate when a table or whole-file checksum does not match.
	ErrChecksum = errors.New("checksum incorrect")

	// ErrUnsupportedFormat is returned for sfnt versions and table formats that cannot be loaded.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Table tags handled by the typed model.
const (
	tagHead = "head"
	tagMaxp = "maxp"
	tagHhea = "hhea"
	tagHmtx = "hmtx"
	tagLoca = "loca"
	tagGlyf = "glyf"
	tagCmap = "cmap"
	tagGvar = "gvar"
	tagName = "name"
	tagOS2  = "OS/2"
	tagPost = "post"
)
