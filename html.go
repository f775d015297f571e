/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fontshuffle

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/shuffle"
	"github.com/unidoc/fontshuffle/internal/subset"
	"github.com/unidoc/fontshuffle/internal/truetype"
)

// ObfuscateHTML obfuscates the text of the elements of `htmlDoc` matched by the CSS
// `selector`. The text of the matched elements is replaced by its decoys and a <style> element
// is appended to the head, embedding the obfuscated font with an @font-face rule and assigning
// it to `selector`. The font is subset to the text of all matched elements if `opts.Subset` is
// set. Returns the rewritten document.
func ObfuscateHTML(font *truetype.Font, htmlDoc, selector string, opts Options) (string, *Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return "", nil, err
	}

	sel := doc.Find(selector)
	if sel.Length() == 0 {
		common.Log.Debug("html: %q matches nothing", selector)
		return "", nil, fmt.Errorf("%w: %q", ErrNoSelection, selector)
	}

	var nodes []*html.Node
	seen := map[*html.Node]bool{}
	sel.Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			nodes = collectText(n, nodes, seen)
		}
	})
	var text strings.Builder
	for _, n := range nodes {
		text.WriteString(n.Data)
	}
	common.Log.Debug("html: %d elements, %d text nodes", sel.Length(), len(nodes))

	if opts.FamilyName == "" {
		opts.FamilyName = subset.NewFamilyName()
	}
	res, err := Obfuscate(font, text.String(), opts)
	if err != nil {
		return "", nil, err
	}

	for _, n := range nodes {
		n.Data = shuffle.RemapText(n.Data, res.Remap)
	}

	var style strings.Builder
	style.WriteString("<style>\n")
	style.WriteString(res.FontFace(opts.FamilyName))
	fmt.Fprintf(&style, "%s {\n  font-family: '%s';\n}\n", selector, opts.FamilyName)
	style.WriteString("</style>")
	doc.Find("head").AppendHtml(style.String())

	out, err := doc.Html()
	if err != nil {
		return "", nil, err
	}
	return out, res, nil
}

// collectText appends the text nodes below `n` to `nodes`, skipping script and style elements
// and nodes already in `seen`.
func collectText(n *html.Node, nodes []*html.Node, seen map[*html.Node]bool) []*html.Node {
	if seen[n] {
		return nodes
	}
	seen[n] = true
	switch n.Type {
	case html.TextNode:
		return append(nodes, n)
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return nodes
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = collectText(c, nodes, seen)
	}
	return nodes
}
