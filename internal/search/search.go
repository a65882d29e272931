// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search discovers candidate source URLs for an exam and returns
// unified, deduplicated, ranked results.
//
// Three strategies run concurrently per query: scanning official domain home
// pages for relevant anchors, scraping a general web search front end, and
// probing well-known sub-paths on official domains. Individual fetch
// failures are recorded and logged but never fail the search.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/schema-engine/internal/plan"
	"github.com/pdiddy/schema-engine/pkg/types"
)

const defaultConcurrency = 8

// Strategy discovers candidate URLs for a single query. Each strategy
// (domain scan, web search, path probe) implements this interface.
type Strategy interface {
	Name() string
	Discover(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, []Failure)
}

// ExamScoped is implemented by strategies whose results depend only on the
// exam and its domains, not on the query's search terms. DiscoverAll runs
// them once per exam instead of once per query.
type ExamScoped interface {
	ExamScoped() bool
}

// Failure records one failed fetch. Failures are reported, never returned
// as errors.
type Failure struct {
	Strategy string `json:"strategy" yaml:"strategy"`
	URL      string `json:"url" yaml:"url"`
	Err      string `json:"error" yaml:"error"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Strategy, f.URL, f.Err)
}

// Output holds the ranked results and the discovery report.
type Output struct {
	Results     []types.SearchResult
	DupsRemoved int
	Failures    []Failure
}

// Discoverer runs strategies concurrently and merges their results.
type Discoverer struct {
	Strategies []Strategy

	// Concurrency bounds the number of strategy invocations in flight
	// (default 8).
	Concurrency int

	Logger *zap.Logger
}

// Discover runs every strategy against query and returns ranked results
// truncated to maxResults (no limit when maxResults <= 0).
func (d *Discoverer) Discover(ctx context.Context, query types.SearchQuery, maxResults int) Output {
	jobs := make([]job, 0, len(d.Strategies))
	for _, s := range d.Strategies {
		jobs = append(jobs, job{strategy: s, query: query})
	}
	return d.run(ctx, jobs, query.ExamNameNormalized, maxResults)
}

// DiscoverAll plans queries for examName, runs every strategy, and returns
// the merged ranking. Exam-scoped strategies run once against the first
// query; the others run against every query.
func (d *Discoverer) DiscoverAll(ctx context.Context, planner *plan.Planner, examName string, maxResults int) Output {
	if planner == nil {
		planner = &plan.Planner{}
	}
	queries := planner.Plan(examName)
	if len(queries) == 0 {
		return Output{}
	}

	var jobs []job
	for _, s := range d.Strategies {
		if es, ok := s.(ExamScoped); ok && es.ExamScoped() {
			jobs = append(jobs, job{strategy: s, query: queries[0]})
			continue
		}
		for _, q := range queries {
			jobs = append(jobs, job{strategy: s, query: q})
		}
	}
	return d.run(ctx, jobs, queries[0].ExamNameNormalized, maxResults)
}

type job struct {
	strategy Strategy
	query    types.SearchQuery
}

type jobResult struct {
	results  []types.SearchResult
	failures []Failure
	name     string
}

func (d *Discoverer) run(ctx context.Context, jobs []job, exam string, maxResults int) Output {
	log := d.logger()
	if len(jobs) == 0 {
		log.Warn("no discovery strategies configured")
		return Output{}
	}

	ch := make(chan jobResult, len(jobs))
	sem := make(chan struct{}, d.concurrency())
	var wg sync.WaitGroup

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				ch <- jobResult{name: j.strategy.Name(), failures: []Failure{{
					Strategy: j.strategy.Name(), Err: ctx.Err().Error(),
				}}}
				return
			}
			defer func() { <-sem }()
			results, failures := j.strategy.Discover(ctx, j.query)
			ch <- jobResult{results: results, failures: failures, name: j.strategy.Name()}
		}(j)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.SearchResult
	var failures []Failure
	for jr := range ch {
		for _, f := range jr.failures {
			log.Debug("discovery fetch failed",
				zap.String("strategy", f.Strategy),
				zap.String("url", f.URL),
				zap.String("error", f.Err))
		}
		failures = append(failures, jr.failures...)
		all = append(all, jr.results...)
	}

	deduped, removed := Deduplicate(all)
	Rank(deduped)

	if maxResults > 0 && len(deduped) > maxResults {
		deduped = deduped[:maxResults]
	}

	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].String() < failures[j].String()
	})

	log.Info("discovery finished",
		zap.String("exam", exam),
		zap.Int("candidates", len(all)),
		zap.Int("results", len(deduped)),
		zap.Int("duplicates", removed),
		zap.Int("failures", len(failures)))

	return Output{
		Results:     deduped,
		DupsRemoved: removed,
		Failures:    failures,
	}
}

func (d *Discoverer) concurrency() int {
	if d.Concurrency > 0 {
		return d.Concurrency
	}
	return defaultConcurrency
}

func (d *Discoverer) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

// Deduplicate merges results that share a normalized URL. The merged entry
// keeps the higher score and fills empty fields from the duplicate.
func Deduplicate(results []types.SearchResult) ([]types.SearchResult, int) {
	seen := make(map[string]int) // normalized URL → index in deduped
	var deduped []types.SearchResult
	removed := 0

	for _, r := range results {
		key := NormalizeURL(r.URL)
		if key == "" {
			continue
		}
		if idx, ok := seen[key]; ok {
			mergeInto(&deduped[idx], r)
			removed++
			continue
		}
		seen[key] = len(deduped)
		deduped = append(deduped, r)
	}
	return deduped, removed
}

// mergeInto fills empty fields of dst from src and keeps the higher score.
func mergeInto(dst *types.SearchResult, src types.SearchResult) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if dst.Snippet == "" && src.Snippet != "" {
		dst.Snippet = src.Snippet
	}
	if src.RelevanceScore > dst.RelevanceScore {
		dst.RelevanceScore = src.RelevanceScore
	}
	if src.Strategy != "" && !containsToken(dst.Strategy, src.Strategy) {
		if dst.Strategy == "" {
			dst.Strategy = src.Strategy
		} else {
			dst.Strategy = dst.Strategy + "," + src.Strategy
		}
	}
}

func containsToken(list, tok string) bool {
	for _, s := range strings.Split(list, ",") {
		if s == tok {
			return true
		}
	}
	return false
}

// Rank sorts results in place: PDFs before HTML, then descending relevance,
// then URL so the order never depends on input order.
func Rank(results []types.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if pa, pb := a.SourceType == types.SourcePDF, b.SourceType == types.SourcePDF; pa != pb {
			return pa
		}
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		return NormalizeURL(a.URL) < NormalizeURL(b.URL)
	})
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-4s  %-6s  %-70s  %s\n",
		"Rank", "Type", "Score", "URL", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range out.Results {
		fmt.Fprintf(w, "%-4d  %-4s  %-6.2f  %-70s  %s\n",
			i+1, r.SourceType, r.RelevanceScore, truncate(r.URL, 70), truncate(r.Title, 40))
	}

	fmt.Fprintf(w, "\n%d results", len(out.Results))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	if len(out.Failures) > 0 {
		fmt.Fprintf(w, ", %d fetches failed", len(out.Failures))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
