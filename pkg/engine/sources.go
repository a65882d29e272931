// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"sort"

	"github.com/pdiddy/schema-engine/internal/search"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// FilterSources applies the per-call source options to ranked discovery
// results. With OfficialSourcesOnly, only results served by an official
// domain or scoring above 0.7 survive. With PreferPDFs, PDFs are moved
// ahead of HTML without disturbing the order inside each group; otherwise
// results are ordered by descending score alone. The input is not modified.
func FilterSources(results []types.SearchResult, officialDomains []string, opts types.ExtractionOptions) []types.SearchResult {
	out := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if opts.OfficialSourcesOnly &&
			!search.IsOfficialURL(r.URL, officialDomains) &&
			r.RelevanceScore <= officialScoreThreshold {
			continue
		}
		out = append(out, r)
	}

	if opts.PreferPDFs {
		sort.SliceStable(out, func(i, j int) bool {
			return isPDF(out[i]) && !isPDF(out[j])
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RelevanceScore > out[j].RelevanceScore
		})
	}

	if opts.MaxSearchResults > 0 && len(out) > opts.MaxSearchResults {
		out = out[:opts.MaxSearchResults]
	}
	return out
}

func isPDF(r types.SearchResult) bool {
	return r.SourceType == types.SourcePDF
}
