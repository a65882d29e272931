// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/internal/plan"
	"github.com/pdiddy/schema-engine/pkg/types"
)

const htmlAccept = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"

// scanAnchors returns every anchor on doc whose text and URL score above
// MinAnchorScore for the exam.
func scanAnchors(doc *goquery.Document, base *url.URL, examTokens []string, strategy string) []types.SearchResult {
	var results []types.SearchResult
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := ResolveURL(base, href)
		if abs == "" {
			return
		}
		text := strings.Join(strings.Fields(a.Text()), " ")
		if text == "" {
			text, _ = a.Attr("title")
		}

		score := Score(text+" "+abs, examTokens)
		if score <= MinAnchorScore {
			return
		}
		results = append(results, types.SearchResult{
			URL:            abs,
			Title:          text,
			Snippet:        snippetAround(a),
			SourceType:     SourceTypeOf(abs),
			RelevanceScore: score,
			Strategy:       strategy,
		})
	})
	return results
}

// snippetAround returns the trimmed text of the anchor's parent element.
func snippetAround(a *goquery.Selection) string {
	return clip(strings.Join(strings.Fields(a.Parent().Text()), " "), maxSnippetBytes)
}

const maxSnippetBytes = 200

// clip cuts s to at most n bytes without splitting a UTF-8 sequence.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// fetchDocument fetches pageURL and parses it as HTML.
func fetchDocument(ctx context.Context, f *httputil.Fetcher, pageURL string) (*goquery.Document, *url.URL, error) {
	resp, err := f.Get(ctx, pageURL, htmlAccept)
	if err != nil {
		return nil, nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	base, err := url.Parse(resp.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing final URL %s: %w", resp.URL, err)
	}
	return doc, base, nil
}

// forEachLimit calls fn for i in [0, n) with at most limit calls in flight.
// It stops scheduling new calls once ctx is done.
func forEachLimit(ctx context.Context, limit, n int, fn func(i int)) {
	if limit <= 0 {
		limit = defaultConcurrency
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}

// collector gathers results and failures from concurrent fetches.
type collector struct {
	mu       sync.Mutex
	results  []types.SearchResult
	failures []Failure
}

func (c *collector) add(results ...types.SearchResult) {
	c.mu.Lock()
	c.results = append(c.results, results...)
	c.mu.Unlock()
}

func (c *collector) fail(strategy, u string, err error) {
	c.mu.Lock()
	c.failures = append(c.failures, Failure{Strategy: strategy, URL: u, Err: err.Error()})
	c.mu.Unlock()
}

func examTokensFor(q types.SearchQuery) []string {
	if q.ExamNameNormalized == plan.PlaceholderExam {
		return nil
	}
	return plan.ExamTokens(q.ExamNameNormalized)
}
