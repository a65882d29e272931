// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"strings"

	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// ProbePaths are the sub-paths where official portals usually list
// notifications and candidate instructions.
var ProbePaths = []string{
	"/notifications",
	"/recruitment",
	"/apply-online",
	"/instructions",
	"/download",
	"/forms",
}

// PathProbe requests ProbePaths on every official domain. A page that
// exists becomes a result itself, and its relevant anchors are kept too.
type PathProbe struct {
	Fetcher     *httputil.Fetcher
	Concurrency int

	// Paths overrides ProbePaths when non-empty.
	Paths []string
}

// Name returns the strategy identifier.
func (s *PathProbe) Name() string { return "path_probe" }

// ExamScoped reports that results do not depend on search terms.
func (s *PathProbe) ExamScoped() bool { return true }

// Discover probes every domain × path pair concurrently.
func (s *PathProbe) Discover(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, []Failure) {
	paths := s.Paths
	if len(paths) == 0 {
		paths = ProbePaths
	}
	tokens := examTokensFor(query)

	var targets []string
	for _, d := range query.DomainHints {
		for _, p := range paths {
			targets = append(targets, BaseURL(d)+p)
		}
	}

	var c collector
	forEachLimit(ctx, s.Concurrency, len(targets), func(i int) {
		target := targets[i]
		doc, base, err := fetchDocument(ctx, s.Fetcher, target)
		if err != nil {
			c.fail(s.Name(), target, err)
			return
		}

		title := strings.TrimSpace(doc.Find("title").First().Text())
		pageText := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
		snippet := clip(pageText, maxSnippetBytes)

		c.add(types.SearchResult{
			URL:            base.String(),
			Title:          title,
			Snippet:        snippet,
			SourceType:     SourceTypeOf(base.String()),
			RelevanceScore: Score(title+" "+base.String()+" "+snippet, tokens),
			Strategy:       s.Name(),
		})
		c.add(scanAnchors(doc, base, tokens, s.Name())...)
	})

	return c.results, c.failures
}
