/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fontshuffle

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidoc/fontshuffle/internal/shuffle"
	"github.com/unidoc/fontshuffle/internal/truetype"
)

const testHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Custom Font Example</title>
</head>
<body>
    <h1 class="custom-font">这是一段<em>测试</em>文本</h1>
    <p>这是</p>
    <div class="custom-font"><script>var s = "文本";</script></div>
</body>
</html>
`

// printableSeed returns a seed whose decoys for the test font are all printable, so that they
// survive an HTML round trip unchanged.
func printableSeed(t *testing.T, font *truetype.Font) int64 {
	for seed := int64(1); seed < 1000; seed++ {
		_, remap, err := shuffle.Shuffle(font.Cmap, shuffle.CJKRange, rand.New(rand.NewSource(seed)), shuffle.Options{})
		require.NoError(t, err)
		printable := true
		for _, decoy := range remap {
			if !unicode.IsPrint(decoy) {
				printable = false
			}
		}
		if printable {
			return seed
		}
	}
	t.Fatal("no seed with printable decoys")
	return 0
}

func TestObfuscateHTML(t *testing.T) {
	font := loadTestFont(t)
	opts := seededOptions(printableSeed(t, font))

	out, res, err := ObfuscateHTML(font, testHTML, ".custom-font", opts)
	require.NoError(t, err)
	require.NotNil(t, res)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	h1 := doc.Find("h1.custom-font")
	assert.Equal(t, shuffle.RemapText("这是一段测试文本", res.Remap), h1.Text())
	assert.Equal(t, "这是一段测试文本", shuffle.RestoreText(h1.Text(), res.Remap))
	assert.Equal(t, shuffle.RemapText("测试", res.Remap), h1.Find("em").Text())

	// Unselected elements and scripts keep their text.
	assert.Equal(t, "这是", doc.Find("p").Text())
	assert.Equal(t, `var s = "文本";`, doc.Find("script").Text())

	style := doc.Find("head style").Text()
	assert.Contains(t, style, "@font-face")
	assert.Contains(t, style, "font-family: 'Test Family';")
	assert.Contains(t, style, "data:font/ttf;base64,"+res.Base64())
	assert.Contains(t, style, ".custom-font {")

	// The font is subset to the text of the selected elements.
	sub, err := ParseFont(res.Font)
	require.NoError(t, err)
	assert.Equal(t, 1+len([]rune("这是一段测试文本")), sub.NumGlyphs())
	assert.Equal(t, "Test Family", sub.GetNameByID(truetype.NameIDFamily))
}

func TestObfuscateHTMLGeneratedFamily(t *testing.T) {
	font := loadTestFont(t)
	opts := seededOptions(printableSeed(t, font))
	opts.FamilyName = ""

	out, res, err := ObfuscateHTML(font, testHTML, "h1", opts)
	require.NoError(t, err)

	sub, err := ParseFont(res.Font)
	require.NoError(t, err)
	family := sub.GetNameByID(truetype.NameIDFamily)
	assert.True(t, strings.HasPrefix(family, "Shuffled-"), family)
	assert.Contains(t, out, "font-family: '"+family+"';")
}

func TestObfuscateHTMLNoSelection(t *testing.T) {
	font := loadTestFont(t)
	_, _, err := ObfuscateHTML(font, testHTML, ".missing", seededOptions(1))
	assert.True(t, errors.Is(err, ErrNoSelection), "%v", err)
}
