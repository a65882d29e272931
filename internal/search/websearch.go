// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// defaultSearchEndpoint is the DuckDuckGo HTML front end, which serves
// static result pages without JavaScript.
const defaultSearchEndpoint = "https://html.duckduckgo.com/html/"

const defaultMaxTerms = 3

// WebSearch scrapes result titles, snippets, and links from a general web
// search front end for each search term of the query.
type WebSearch struct {
	Fetcher *httputil.Fetcher

	// Endpoint is the search page URL; the term is sent as the q parameter.
	Endpoint string

	// MaxTerms caps the terms searched per query (default 3).
	MaxTerms int
}

// Name returns the strategy identifier.
func (s *WebSearch) Name() string { return "web_search" }

// Discover searches each term sequentially; search front ends rate limit
// aggressively, so terms are never fanned out.
func (s *WebSearch) Discover(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, []Failure) {
	tokens := examTokensFor(query)
	maxTerms := s.MaxTerms
	if maxTerms <= 0 {
		maxTerms = defaultMaxTerms
	}
	terms := query.SearchTerms
	if len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}

	var results []types.SearchResult
	var failures []Failure
	for _, term := range terms {
		if ctx.Err() != nil {
			failures = append(failures, Failure{Strategy: s.Name(), URL: s.searchURL(term), Err: ctx.Err().Error()})
			break
		}
		reqURL := s.searchURL(term)
		doc, base, err := fetchDocument(ctx, s.Fetcher, reqURL)
		if err != nil {
			failures = append(failures, Failure{Strategy: s.Name(), URL: reqURL, Err: err.Error()})
			continue
		}
		results = append(results, parseSearchResults(doc, base, tokens, s.Name())...)
	}
	return results, failures
}

func (s *WebSearch) searchURL(term string) string {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultSearchEndpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + url.Values{"q": {term}}.Encode()
}

// parseSearchResults reads DuckDuckGo-style result blocks.
func parseSearchResults(doc *goquery.Document, base *url.URL, tokens []string, strategy string) []types.SearchResult {
	var results []types.SearchResult
	doc.Find(".result").Each(func(_ int, r *goquery.Selection) {
		link := r.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		target := unwrapRedirect(ResolveURL(base, href))
		if target == "" {
			return
		}
		title := strings.Join(strings.Fields(link.Text()), " ")
		snippet := strings.Join(strings.Fields(r.Find(".result__snippet").Text()), " ")

		results = append(results, types.SearchResult{
			URL:            target,
			Title:          title,
			Snippet:        snippet,
			SourceType:     SourceTypeOf(target),
			RelevanceScore: Score(title+" "+snippet+" "+target, tokens),
			Strategy:       strategy,
		})
	})
	return results
}

// unwrapRedirect returns the destination of a search engine redirect link
// (/l/?uddg=...), or raw unchanged.
func unwrapRedirect(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if dest := u.Query().Get("uddg"); dest != "" {
		if du, err := url.Parse(dest); err == nil && (du.Scheme == "http" || du.Scheme == "https") {
			return du.String()
		}
		return ""
	}
	return raw
}
