// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/schema-engine/pkg/types"
)

func source(url string, st types.SourceType, score float64) types.SearchResult {
	return types.SearchResult{URL: url, SourceType: st, RelevanceScore: score}
}

func TestFilterSources(t *testing.T) {
	official := []string{"ibps.in"}
	results := []types.SearchResult{
		source("https://blog.example.com/a", types.SourceHTML, 0.9),
		source("https://ibps.in/b", types.SourceHTML, 0.4),
		source("https://blog.example.com/c.pdf", types.SourcePDF, 0.7),
		source("https://ibps.in/d.pdf", types.SourcePDF, 0.5),
		source("https://mirror.example.com/e.pdf", types.SourcePDF, 0.75),
	}

	tests := []struct {
		name string
		opts types.ExtractionOptions
		want []string
	}{
		{
			name: "official only keeps official hosts and scores above 0.7",
			opts: types.ExtractionOptions{OfficialSourcesOnly: true},
			want: []string{
				"https://blog.example.com/a",
				"https://mirror.example.com/e.pdf",
				"https://ibps.in/d.pdf",
				"https://ibps.in/b",
			},
		},
		{
			name: "prefer PDFs keeps HTML and input order within groups",
			opts: types.ExtractionOptions{PreferPDFs: true},
			want: []string{
				"https://blog.example.com/c.pdf",
				"https://ibps.in/d.pdf",
				"https://mirror.example.com/e.pdf",
				"https://blog.example.com/a",
				"https://ibps.in/b",
			},
		},
		{
			name: "without PDF preference orders by score",
			opts: types.ExtractionOptions{},
			want: []string{
				"https://blog.example.com/a",
				"https://mirror.example.com/e.pdf",
				"https://blog.example.com/c.pdf",
				"https://ibps.in/d.pdf",
				"https://ibps.in/b",
			},
		},
		{
			name: "truncates to max results",
			opts: types.ExtractionOptions{OfficialSourcesOnly: true, PreferPDFs: true, MaxSearchResults: 2},
			want: []string{
				"https://ibps.in/d.pdf",
				"https://mirror.example.com/e.pdf",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range FilterSources(results, official, tt.opts) {
				got = append(got, r.URL)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSourcesLeavesInputAlone(t *testing.T) {
	results := []types.SearchResult{
		source("https://x.example.com/a", types.SourceHTML, 0.2),
		source("https://x.example.com/b.pdf", types.SourcePDF, 0.9),
	}
	FilterSources(results, nil, types.ExtractionOptions{PreferPDFs: true})
	assert.Equal(t, "https://x.example.com/a", results[0].URL)
}
