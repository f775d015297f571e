/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package fontshuffle obscures the text rendered with a TrueType font. The codepoints a font
// assigns to the glyphs of a range (CJK Unified Ideographs by default) are moved to random
// decoy codepoints, the text is translated to the decoys and the font is optionally reduced to
// the glyphs the text needs. The text then only renders correctly with the returned font.
//
// Example:
//
//	res, err := fontshuffle.ObfuscateFile("NotoSansSC.ttf", "这是一段测试文本", fontshuffle.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Text)
//	css := res.FontFace("ShuffledFont")
package fontshuffle
