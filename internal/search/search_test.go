// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/schema-engine/internal/plan"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// --- mock strategy ---

type mockStrategy struct {
	name       string
	results    []types.SearchResult
	failures   []Failure
	examScoped bool
	calls      int32
}

func (m *mockStrategy) Name() string { return m.name }

func (m *mockStrategy) ExamScoped() bool { return m.examScoped }

func (m *mockStrategy) Discover(_ context.Context, _ types.SearchQuery) ([]types.SearchResult, []Failure) {
	atomic.AddInt32(&m.calls, 1)
	return m.results, m.failures
}

func html(url string, score float64) types.SearchResult {
	return types.SearchResult{URL: url, SourceType: types.SourceHTML, RelevanceScore: score}
}

func pdf(url string, score float64) types.SearchResult {
	return types.SearchResult{URL: url, SourceType: types.SourcePDF, RelevanceScore: score}
}

// --- Deduplication ---

func TestDeduplicateByNormalizedURL(t *testing.T) {
	results := []types.SearchResult{
		{URL: "https://IBPS.in/Notice.pdf", Title: "", RelevanceScore: 0.5, Strategy: "domain_scan"},
		{URL: "https://ibps.in/notice.pdf#page=2", Title: "Notice", RelevanceScore: 0.9, Strategy: "web_search"},
		{URL: "https://ibps.in/other/", RelevanceScore: 0.4},
		{URL: "https://ibps.in/other", RelevanceScore: 0.2},
	}

	deduped, removed := Deduplicate(results)
	assert.Equal(t, 2, removed)
	require.Len(t, deduped, 2)

	assert.Equal(t, 0.9, deduped[0].RelevanceScore)
	assert.Equal(t, "Notice", deduped[0].Title)
	assert.Equal(t, "domain_scan,web_search", deduped[0].Strategy)
	assert.Equal(t, 0.4, deduped[1].RelevanceScore)
}

func TestDeduplicateDropsUnparseable(t *testing.T) {
	deduped, removed := Deduplicate([]types.SearchResult{{URL: "not a url"}, {URL: ""}})
	assert.Empty(t, deduped)
	assert.Zero(t, removed)
}

// --- Ranking ---

func TestRankPDFsFirstThenScore(t *testing.T) {
	results := []types.SearchResult{
		html("https://a.in/1", 0.9),
		pdf("https://a.in/2.pdf", 0.4),
		html("https://a.in/3", 0.5),
		pdf("https://a.in/4.pdf", 0.8),
	}
	Rank(results)

	var urls []string
	for _, r := range results {
		urls = append(urls, r.URL)
	}
	assert.Equal(t, []string{
		"https://a.in/4.pdf", "https://a.in/2.pdf", "https://a.in/1", "https://a.in/3",
	}, urls)
}

func TestRankDeterministic(t *testing.T) {
	base := []types.SearchResult{
		html("https://a.in/x", 0.5),
		html("https://a.in/y", 0.5),
		pdf("https://a.in/z.pdf", 0.5),
		pdf("https://a.in/w.pdf", 0.5),
		html("https://a.in/v", 0.7),
	}
	want := append([]types.SearchResult(nil), base...)
	Rank(want)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]types.SearchResult(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		Rank(shuffled)
		assert.Equal(t, want, shuffled)
	}
}

// --- Discoverer ---

func TestDiscoverMergesStrategies(t *testing.T) {
	d := &Discoverer{Strategies: []Strategy{
		&mockStrategy{name: "a", results: []types.SearchResult{html("https://x.in/a", 0.6), pdf("https://x.in/b.pdf", 0.4)}},
		&mockStrategy{name: "b", results: []types.SearchResult{html("https://x.in/a", 0.9)}},
	}}

	out := d.Discover(context.Background(), types.SearchQuery{ExamNameNormalized: "ssc cgl"}, 10)
	require.Len(t, out.Results, 2)
	assert.Equal(t, 1, out.DupsRemoved)
	assert.Equal(t, "https://x.in/b.pdf", out.Results[0].URL)
	assert.Equal(t, 0.9, out.Results[1].RelevanceScore)
}

func TestDiscoverTruncates(t *testing.T) {
	var many []types.SearchResult
	for i := 0; i < 15; i++ {
		many = append(many, html("https://x.in/"+strings.Repeat("p", i+1), float64(i)/20))
	}
	d := &Discoverer{Strategies: []Strategy{&mockStrategy{name: "a", results: many}}}

	out := d.Discover(context.Background(), types.SearchQuery{}, 10)
	assert.Len(t, out.Results, 10)
}

func TestDiscoverFailuresNeverFail(t *testing.T) {
	d := &Discoverer{Strategies: []Strategy{
		&mockStrategy{name: "broken", failures: []Failure{{Strategy: "broken", URL: "https://x.in", Err: "HTTP 500"}}},
	}}

	out := d.Discover(context.Background(), types.SearchQuery{}, 10)
	assert.Empty(t, out.Results)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "broken: https://x.in: HTTP 500", out.Failures[0].String())
}

func TestDiscoverNoStrategies(t *testing.T) {
	out := (&Discoverer{}).Discover(context.Background(), types.SearchQuery{}, 10)
	assert.Empty(t, out.Results)
}

func TestDiscoverAllRunsExamScopedOnce(t *testing.T) {
	scoped := &mockStrategy{name: "scoped", examScoped: true}
	perQuery := &mockStrategy{name: "per_query"}
	d := &Discoverer{Strategies: []Strategy{scoped, perQuery}}

	planner := &plan.Planner{Now: func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }}
	d.DiscoverAll(context.Background(), planner, "IBPS Clerk", 10)

	assert.Equal(t, int32(1), atomic.LoadInt32(&scoped.calls))
	assert.Equal(t, int32(len(planner.Plan("IBPS Clerk"))), atomic.LoadInt32(&perQuery.calls))
}

func TestDiscoverCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &Discoverer{Concurrency: 1, Strategies: []Strategy{
		&mockStrategy{name: "a"}, &mockStrategy{name: "b"}, &mockStrategy{name: "c"},
	}}
	out := d.Discover(ctx, types.SearchQuery{}, 10)
	assert.Empty(t, out.Results)
}

// --- Output formatting ---

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Output{
		Results:     []types.SearchResult{pdf("https://ibps.in/notice.pdf", 0.85)},
		DupsRemoved: 2,
	}, &buf)
	out := buf.String()
	assert.Contains(t, out, "https://ibps.in/notice.pdf")
	assert.Contains(t, out, "0.85")
	assert.Contains(t, out, "1 results (2 duplicates removed)")

	buf.Reset()
	FormatTable(Output{}, &buf)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(Output{Results: []types.SearchResult{pdf("https://ibps.in/n.pdf", 0.5)}}, &buf))

	var decoded []types.SearchResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, types.SourcePDF, decoded[0].SourceType)
}
