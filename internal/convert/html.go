// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// stripSelectors are removed before any text is read.
const stripSelectors = "script, style, noscript, iframe, svg, nav, header, footer, " +
	".ad, .ads, .advert, .advertisement, .sponsored, [class^='ad-'], [id^='ad-'], [id^='google_ads']"

// ContentSelectors are tried in order; the match with the most text wins.
var ContentSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".main-content",
	"#main-content",
	".notification",
	".instructions",
	".entry-content",
	".post-content",
	"[role='main']",
}

// HTMLConverter extracts readable text from HTML pages.
type HTMLConverter struct {
	// Selectors overrides ContentSelectors when non-empty.
	Selectors []string
}

// Convert parses data as HTML. The title falls back to the first <h1>, then
// to a title derived from the source path.
func (c *HTMLConverter) Convert(source string, data []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", source, err)
	}

	meta := types.ContentMetadata{
		Title:       clean(doc.Find("title").First().Text()),
		Description: metaContent(doc, "description"),
		Author:      metaContent(doc, "author"),
		Keywords:    splitKeywords(metaContent(doc, "keywords")),
	}

	if meta.Title == "" {
		meta.Title = clean(doc.Find("h1").First().Text())
	}
	doc.Find(stripSelectors).Remove()
	if meta.Title == "" {
		meta.Title = TitleFromSource(source)
	}

	return &Document{
		Text:     CleanText(blockText(c.contentBlock(doc))),
		Metadata: meta,
	}, nil
}

// contentBlock returns the largest block among the content selectors, or
// the body when none match.
func (c *HTMLConverter) contentBlock(doc *goquery.Document) *goquery.Selection {
	selectors := c.Selectors
	if len(selectors) == 0 {
		selectors = ContentSelectors
	}

	var best *goquery.Selection
	bestLen := 0
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if n := len(strings.TrimSpace(s.Text())); n > bestLen {
				best, bestLen = s, n
			}
		})
	}
	if best != nil {
		return best
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

func metaContent(doc *goquery.Document, name string) string {
	var v string
	doc.Find("meta").EachWithBreak(func(_ int, m *goquery.Selection) bool {
		n, _ := m.Attr("name")
		if n == "" {
			n, _ = m.Attr("property")
		}
		if strings.EqualFold(n, name) || strings.EqualFold(n, "og:"+name) {
			v, _ = m.Attr("content")
			return false
		}
		return true
	})
	return clean(v)
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// blockElements start a new line when rendered as text.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.Td: true, atom.Th: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Section: true,
	atom.Article: true, atom.Main: true, atom.Ul: true, atom.Ol: true,
	atom.Table: true, atom.Dt: true, atom.Dd: true, atom.Pre: true,
	atom.Blockquote: true, atom.Hr: true,
}

// blockText renders the selection's text with a line break at every block
// element boundary, unlike Selection.Text which runs blocks together.
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if blockElements[n.DataAtom] {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			b.WriteByte('\n')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}
