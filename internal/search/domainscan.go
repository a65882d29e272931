// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"

	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// DomainScan fetches the home page of each official domain in the query's
// hints and keeps the anchors that mention the exam.
type DomainScan struct {
	Fetcher     *httputil.Fetcher
	Concurrency int
}

// Name returns the strategy identifier.
func (s *DomainScan) Name() string { return "domain_scan" }

// ExamScoped reports that results do not depend on search terms.
func (s *DomainScan) ExamScoped() bool { return true }

// Discover scans every domain root concurrently.
func (s *DomainScan) Discover(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, []Failure) {
	tokens := examTokensFor(query)
	var c collector

	forEachLimit(ctx, s.Concurrency, len(query.DomainHints), func(i int) {
		root := BaseURL(query.DomainHints[i]) + "/"
		doc, base, err := fetchDocument(ctx, s.Fetcher, root)
		if err != nil {
			c.fail(s.Name(), root, err)
			return
		}
		c.add(scanAnchors(doc, base, tokens, s.Name())...)
	})

	return c.results, c.failures
}
