/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package truetype supports loading and writing truetype fonts. The tables that codepoint
// shuffling and glyph subsetting depend on (head, maxp, hhea, hmtx, loca, glyf, cmap, gvar,
// name, OS/2, post) are parsed into typed structures; every other table is carried through
// as raw bytes. Writing recomputes table checksums and the head checksum adjustment.
package truetype
