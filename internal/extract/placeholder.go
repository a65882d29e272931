// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/schema-engine/pkg/types"
)

const bankingPlaceholder = `Guidelines for scanning and upload of documents
Photograph: JPG/JPEG format, 20 KB to 50 KB, 200x230 pixels
Recent colour photograph on a light background
Signature: JPG/JPEG format, 10 KB to 20 KB, 140x60 pixels
Sign on white paper with black ink
Left thumb impression: JPG/JPEG format, 10 KB to 20 KB, 240x240 pixels, on white paper`

const sscPlaceholder = `Instructions for uploading photograph and signature
Photograph: JPEG format, 4 KB to 40 KB, 3.5x4.5 cm
Recent colour photograph on a light background
Signature: JPEG format, 1 KB to 12 KB, 4x2 cm
Signature in black ink on white paper`

const genericPlaceholder = `Document upload requirements
Photograph: JPG/JPEG/PNG format, 10 KB to 100 KB
Recent photograph with clear face visibility
Signature: JPG/JPEG/PNG format, 5 KB to 50 KB, on white background`

// PlaceholderText returns synthetic requirement text matching the kind of
// exam the URL suggests.
func PlaceholderText(url string) string {
	u := strings.ToLower(url)
	switch {
	case containsAny(u, "ibps", "sbi", "rbi", "bank"):
		return bankingPlaceholder
	case strings.Contains(u, "ssc"):
		return sscPlaceholder
	default:
		return genericPlaceholder
	}
}

// Placeholder returns placeholder content for url. Callers must not treat it
// as evidence that url was read.
func Placeholder(url string, st types.SourceType) types.ExtractedContent {
	return types.ExtractedContent{
		URL:         url,
		SourceType:  st,
		Text:        PlaceholderText(url),
		Metadata:    types.ContentMetadata{Title: "Standard document requirements"},
		Placeholder: true,
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
