package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/schema-engine/internal/assemble"
	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/internal/search"
	"github.com/pdiddy/schema-engine/pkg/types"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func fastRetries(t *testing.T) {
	t.Helper()
	prev := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = prev })
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// offline fails every request without touching the network.
var offline = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
	return nil, errors.New("network unreachable")
})}

func page(title, body string) string {
	return fmt.Sprintf("<html><head><title>%s</title></head><body><main>%s</main></body></html>", title, body)
}

// newPortal serves a home page linking to /clerk-notice.html, whose body is
// notice.
func newPortal(t *testing.T, notice http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("IBPS", `<a href="/clerk-notice.html">IBPS Clerk 2025 document upload instructions</a>`))
	})
	mux.HandleFunc("/clerk-notice.html", notice)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func serve(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("IBPS Clerk 2025", "<p>"+text+"</p>"))
	}
}

func testConfig(ts *httptest.Server) types.EngineConfig {
	cfg := types.DefaultEngineConfig()
	cfg.Discovery.OfficialDomains = []string{ts.URL}
	cfg.Discovery.DisableWebSearch = true
	cfg.Discovery.ProbePaths = []string{"/notifications"}
	cfg.Extraction.BatchDelay = 0
	cfg.Extraction.MaxRetries = 1
	return cfg
}

func testEngine(ts *httptest.Server) *Engine {
	return New(
		WithConfig(testConfig(ts)),
		WithHTTPClient(ts.Client()),
		WithUserAgents(httputil.StaticUserAgent("test/0.1")),
		WithClock(func() time.Time { return testNow }),
	)
}

func TestGenerateFromHTMLNotice(t *testing.T) {
	ts := newPortal(t, serve("Photo: JPEG format, max 50KB, passport size (35x45mm), mandatory"))

	schema, report := testEngine(ts).GenerateWithReport(context.Background(), "IBPS Clerk 2025", types.DefaultExtractionOptions())

	require.Equal(t, StateValidated, report.State, report.FallbackReason)
	assert.False(t, schema.IsFallback())
	assert.Equal(t, "IBPS Clerk 2025", schema.Exam)
	assert.Equal(t, ts.URL+"/clerk-notice.html", schema.ExtractedFrom)
	assert.True(t, testNow.Equal(schema.ExtractedAt))

	photo, ok := schema.Document(types.DocPhotograph)
	require.True(t, ok)
	assert.Equal(t, []string{"JPEG"}, photo.Requirements.Format)
	require.NotNil(t, photo.Requirements.SizeKB)
	assert.Equal(t, 50.0, *photo.Requirements.SizeKB.Max)
	assert.Equal(t, "35x45 mm", photo.Requirements.Dimensions)

	_, ok = schema.Document(types.DocSignature)
	assert.True(t, ok)

	assert.Equal(t, 1, report.Sources)
	assert.Equal(t, 1, report.Contents)
	assert.Zero(t, report.Placeholders)
	assert.True(t, assemble.Validate(schema).IsValid)
}

func TestBankingExamOffline(t *testing.T) {
	e := New(WithHTTPClient(offline), WithClock(func() time.Time { return testNow }))

	schema, report := e.GenerateWithReport(context.Background(), "IBPS PO 2025", types.DefaultExtractionOptions())

	assert.True(t, schema.IsFallback())
	assert.Equal(t, types.FallbackSource, schema.ExtractedFrom)
	assert.Equal(t, StateFallback, report.State)
	assert.Equal(t, StateDiscovering, report.FallbackFrom)
	assert.NotEmpty(t, report.DiscoveryFailures)

	for _, docType := range []string{types.DocPhotograph, types.DocSignature, types.DocThumbImpression} {
		_, ok := schema.Document(docType)
		assert.True(t, ok, docType)
	}
}

func TestAlwaysReturnsValidSchema(t *testing.T) {
	e := New(WithHTTPClient(offline), WithClock(func() time.Time { return testNow }))

	for _, name := range []string{"", "   ", "!!!", "zzqx unknown exam 9999", "SSC CGL", "RRB NTPC", "UPSC CSE", "NEET UG"} {
		t.Run(name, func(t *testing.T) {
			schema := e.GenerateExamSchema(context.Background(), name, types.ExtractionOptions{})
			res := assemble.Validate(schema)
			assert.True(t, res.IsValid, res.Errors)
			assert.NotEmpty(t, schema.Exam)

			_, photo := schema.Document(types.DocPhotograph)
			_, sig := schema.Document(types.DocSignature)
			assert.True(t, photo && sig)
		})
	}
}

func TestCancelledContextFallsBack(t *testing.T) {
	ts := newPortal(t, serve("Photo: JPEG format, max 50KB"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	schema, report := testEngine(ts).GenerateWithReport(ctx, "IBPS Clerk", types.DefaultExtractionOptions())

	assert.True(t, schema.IsFallback())
	assert.Equal(t, StatePlanning, report.FallbackFrom)
	assert.True(t, assemble.Validate(schema).IsValid)
}

func TestPlaceholderContentFallsBack(t *testing.T) {
	fastRetries(t)
	var hits atomic.Int32
	ts := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	schema, report := testEngine(ts).GenerateWithReport(context.Background(), "IBPS Clerk", types.DefaultExtractionOptions())

	assert.True(t, schema.IsFallback())
	assert.Equal(t, StateExtracting, report.FallbackFrom)
	assert.Equal(t, 1, report.Placeholders)
	assert.Zero(t, report.Contents)
	// One attempt plus one retry.
	assert.Equal(t, int32(2), hits.Load())

	require.Len(t, report.ExtractionFailures, 1)
	failure := report.ExtractionFailures[0]
	assert.Equal(t, ts.URL+"/clerk-notice.html", failure.URL)
	assert.True(t, failure.Placeholder)
	assert.Contains(t, failure.Err, "503")
}

func TestZeroRetriesMakesOneAttempt(t *testing.T) {
	fastRetries(t)
	var hits atomic.Int32
	ts := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	cfg := testConfig(ts)
	cfg.Extraction.MaxRetries = 0
	e := New(
		WithConfig(cfg),
		WithHTTPClient(ts.Client()),
		WithUserAgents(httputil.StaticUserAgent("test/0.1")),
	)

	_, report := e.GenerateWithReport(context.Background(), "IBPS Clerk", types.DefaultExtractionOptions())

	assert.Equal(t, StateExtracting, report.FallbackFrom)
	assert.Equal(t, int32(1), hits.Load())
}

func TestNoRequirementsFallsBack(t *testing.T) {
	ts := newPortal(t, serve("Welcome to the IBPS portal. Results will be announced soon."))

	schema, report := testEngine(ts).GenerateWithReport(context.Background(), "IBPS Clerk", types.DefaultExtractionOptions())

	assert.True(t, schema.IsFallback())
	assert.Equal(t, StateInferring, report.FallbackFrom)
}

func TestInvalidAssemblyFallsBack(t *testing.T) {
	ts := newPortal(t, serve("Photograph size: 100 to 20 KB"))

	schema, report := testEngine(ts).GenerateWithReport(context.Background(), "IBPS Clerk", types.DefaultExtractionOptions())

	assert.True(t, schema.IsFallback())
	assert.Equal(t, StateAssembling, report.FallbackFrom)
	require.NotEmpty(t, report.ValidationErrors)
	assert.Contains(t, report.ValidationErrors[0], "exceeds max")
}

func TestNoStrategiesFallsBack(t *testing.T) {
	e := New(WithStrategies(func(*httputil.Fetcher) []search.Strategy { return nil }))

	schema, report := e.GenerateWithReport(context.Background(), "SSC CHSL", types.DefaultExtractionOptions())

	assert.True(t, schema.IsFallback())
	assert.Equal(t, "no sources discovered", report.FallbackReason)
	assert.Equal(t, "SSC CHSL", schema.Exam)
}

func TestExtractRunsInBatches(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		peak = max(peak, inFlight)
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		fmt.Fprint(w, page(r.URL.Path, "<p>"+r.URL.Path+" photograph JPEG</p>"))
	}))
	defer ts.Close()

	e := testEngine(ts)
	r := &run{e: e, opts: types.DefaultExtractionOptions(), log: e.logger, report: &Report{}}

	var sources []types.SearchResult
	for i := range 5 {
		sources = append(sources, types.SearchResult{URL: fmt.Sprintf("%s/doc%d", ts.URL, i), SourceType: types.SourceHTML})
	}

	contents := r.extract(context.Background(), sources)
	require.Len(t, contents, 5)
	for i, c := range contents {
		assert.Equal(t, sources[i].URL, c.URL)
		assert.Contains(t, c.Text, fmt.Sprintf("/doc%d", i))
	}
	assert.LessOrEqual(t, peak, defaultBatchSize)
}

func TestSleepCtx(t *testing.T) {
	assert.True(t, sleepCtx(context.Background(), 0))
	assert.True(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepCtx(ctx, time.Hour))
	assert.False(t, sleepCtx(ctx, 0))
}

func TestUsable(t *testing.T) {
	got := Usable([]types.ExtractedContent{
		{URL: "a", Text: "photograph"},
		{URL: "b", Text: "  \n "},
		{URL: "c", Text: "photograph", Placeholder: true},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].URL)
}

func TestReportFormat(t *testing.T) {
	r := &Report{
		Exam:           "SSC CGL",
		State:          StateFallback,
		FallbackFrom:   StateDiscovering,
		FallbackReason: "no sources discovered",
		Queries:        2,
	}
	var buf bytes.Buffer
	r.Format(&buf)
	assert.Contains(t, buf.String(), "State:        fallback")
	assert.Contains(t, buf.String(), "no sources discovered (at discovering)")
}

func TestReportFormatListsExtractionFailures(t *testing.T) {
	r := &Report{
		Exam:  "IBPS PO",
		State: StateFallback,
		ExtractionFailures: []ExtractionFailure{
			{URL: "https://ibps.in/po.pdf", Placeholder: true, Err: "HTTP 503"},
		},
	}
	var buf bytes.Buffer
	r.Format(&buf)
	assert.Contains(t, buf.String(), "  failed: https://ibps.in/po.pdf (HTTP 503)")
}
