// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// ErrNoText is returned when a PDF parses but yields no text, which is
// typical of scanned notifications.
var ErrNoText = errors.New("no extractable text")

// PDFConverter extracts text page by page, one output line per text row.
type PDFConverter struct {
	// MaxPages limits the pages read (0 reads all).
	MaxPages int
}

// Convert parses data as a PDF. The parser panics on some malformed input;
// panics are returned as errors.
func (c *PDFConverter) Convert(source string, data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("parsing PDF from %s: %v", source, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF from %s: %w", source, err)
	}

	pages := r.NumPage()
	if c.MaxPages > 0 && pages > c.MaxPages {
		pages = c.MaxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		b.WriteString(pageText(page))
		b.WriteByte('\n')
	}

	text := CleanText(b.String())
	if text == "" {
		return nil, fmt.Errorf("%s: %w", source, ErrNoText)
	}

	meta := infoMetadata(r)
	if meta.Title == "" {
		meta.Title = TitleFromSource(source)
	}
	return &Document{Text: text, Metadata: meta}, nil
}

// pageText renders a page row by row, top to bottom. It falls back to the
// plain text stream when row grouping yields nothing.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })
		var b strings.Builder
		for _, row := range rows {
			words := append(pdf.TextHorizontal(nil), row.Content...)
			sort.SliceStable(words, func(i, j int) bool { return words[i].X < words[j].X })
			parts := make([]string, 0, len(words))
			for _, w := range words {
				parts = append(parts, w.S)
			}
			b.WriteString(strings.Join(parts, " "))
			b.WriteByte('\n')
		}
		if strings.TrimSpace(b.String()) != "" {
			return b.String()
		}
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// infoMetadata reads the document Info dictionary.
func infoMetadata(r *pdf.Reader) types.ContentMetadata {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return types.ContentMetadata{}
	}
	return types.ContentMetadata{
		Title:       clean(info.Key("Title").Text()),
		Author:      clean(info.Key("Author").Text()),
		Description: clean(info.Key("Subject").Text()),
		Keywords:    splitKeywords(info.Key("Keywords").Text()),
	}
}
