// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs the schema extraction pipeline end to end: query
// planning, web discovery, content extraction, requirement inference, and
// schema assembly. GenerateExamSchema never fails. Whenever a stage produces
// too little signal, or the context is cancelled, it returns the rule-based
// fallback schema for the exam's category instead.
package engine

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/schema-engine/internal/assemble"
	"github.com/pdiddy/schema-engine/internal/fallback"
	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/internal/infer"
	"github.com/pdiddy/schema-engine/internal/plan"
	"github.com/pdiddy/schema-engine/internal/search"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// officialScoreThreshold admits non-official results that score above it
// when only official sources are wanted.
const officialScoreThreshold = 0.7

const defaultDiscoveryTimeout = 15 * time.Second

// Engine runs the pipeline. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	cfg        types.EngineConfig
	logger     *zap.Logger
	client     *http.Client
	userAgents httputil.UserAgentProvider
	now        func() time.Time
	strategies func(f *httputil.Fetcher) []search.Strategy
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the stage configuration. Unset batch and timeout
// fields fall back to their defaults.
func WithConfig(cfg types.EngineConfig) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithLogger sets the logger for every stage.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithHTTPClient sets the client used for discovery and extraction.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

// WithUserAgents sets the User-Agent source for every request.
func WithUserAgents(p httputil.UserAgentProvider) Option {
	return func(e *Engine) { e.userAgents = p }
}

// WithClock sets the time source for query years and schema timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStrategies replaces the default discovery strategies. build receives
// the discovery fetcher configured for the current call.
func WithStrategies(build func(f *httputil.Fetcher) []search.Strategy) Option {
	return func(e *Engine) { e.strategies = build }
}

// New returns an Engine using DefaultEngineConfig unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{cfg: types.DefaultEngineConfig()}
	for _, o := range opts {
		o(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.client == nil {
		e.client = &http.Client{}
	}
	if e.userAgents == nil {
		if ua := e.cfg.Discovery.UserAgent; ua != "" {
			e.userAgents = httputil.StaticUserAgent(ua)
		} else {
			e.userAgents = httputil.NewRotatingUserAgents()
		}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// GenerateExamSchema returns a validated schema for examName. It never
// fails; degraded runs return the fallback schema, recognizable by
// ExtractedFrom == types.FallbackSource.
func (e *Engine) GenerateExamSchema(ctx context.Context, examName string, opts types.ExtractionOptions) types.ExamSchema {
	schema, _ := e.GenerateWithReport(ctx, examName, opts)
	return schema
}

// GenerateWithReport is GenerateExamSchema plus a Report describing how far
// the pipeline got.
func (e *Engine) GenerateWithReport(ctx context.Context, examName string, opts types.ExtractionOptions) (types.ExamSchema, *Report) {
	opts = opts.WithDefaults()
	start := e.now()
	r := &run{
		e:      e,
		opts:   opts,
		exam:   examName,
		log:    e.logger.With(zap.String("exam", examName)),
		report: &Report{Exam: examName},
	}

	schema := r.execute(ctx)
	r.report.Duration = e.now().Sub(start)
	return schema, r.report
}

type run struct {
	e      *Engine
	opts   types.ExtractionOptions
	exam   string
	log    *zap.Logger
	report *Report
}

func (r *run) execute(ctx context.Context) types.ExamSchema {
	planner := &plan.Planner{Now: r.e.now, Domains: r.e.cfg.Discovery.OfficialDomains}

	r.enter(StatePlanning)
	r.report.Queries = len(planner.Plan(r.exam))
	if ctx.Err() != nil {
		return r.fallback("cancelled during planning")
	}

	r.enter(StateDiscovering)
	discovered := r.discover(ctx, planner)
	if ctx.Err() != nil {
		return r.fallback("cancelled during discovery")
	}
	if len(discovered) == 0 {
		return r.fallback("no sources discovered")
	}

	sources := FilterSources(discovered, r.officialDomains(planner), r.opts)
	r.report.Sources = len(sources)
	if len(sources) == 0 {
		return r.fallback("no sources passed filtering")
	}

	r.enter(StateExtracting)
	contents := r.extract(ctx, sources)
	if ctx.Err() != nil {
		return r.fallback("cancelled during extraction")
	}
	usable := Usable(contents)
	r.report.Contents = len(usable)
	r.report.Placeholders = countPlaceholders(contents)
	if len(usable) == 0 {
		return r.fallback("no usable content extracted")
	}

	r.enter(StateInferring)
	reqs := infer.Infer(usable)
	r.report.Requirements = len(reqs)
	if len(reqs) == 0 {
		return r.fallback("no document requirements inferred")
	}

	r.enter(StateAssembling)
	asm := &assemble.Assembler{Now: r.e.now}
	schema := asm.Assemble(r.exam, reqs, usable)

	result := assemble.Validate(schema)
	if !result.IsValid {
		r.report.ValidationErrors = result.Errors
		return r.fallback("assembled schema failed validation")
	}
	if ctx.Err() != nil {
		return r.fallback("cancelled during assembly")
	}

	r.enter(StateValidated)
	r.log.Info("schema generated",
		zap.String("extracted_from", schema.ExtractedFrom),
		zap.Int("documents", len(schema.Documents)))
	return schema
}

func (r *run) enter(s State) {
	r.report.State = s
	r.log.Debug("pipeline state", zap.String("state", string(s)))
}

func (r *run) fallback(reason string) types.ExamSchema {
	r.report.FallbackFrom = r.report.State
	r.report.FallbackReason = reason
	r.enter(StateFallback)

	category := fallback.Classify(r.exam)
	r.log.Warn("using fallback schema",
		zap.String("reason", reason),
		zap.String("stage", string(r.report.FallbackFrom)),
		zap.String("category", string(category)))
	return fallback.SchemaFor(category, r.exam, r.e.now())
}

func (r *run) discover(ctx context.Context, planner *plan.Planner) []types.SearchResult {
	timeout := r.e.cfg.Discovery.Timeout
	if timeout <= 0 {
		timeout = defaultDiscoveryTimeout
	}
	if r.opts.Timeout < timeout {
		timeout = r.opts.Timeout
	}

	f := r.e.fetcher(r.e.cfg.Discovery.HTTPConfig, timeout, 0)
	d := &search.Discoverer{
		Strategies:  r.e.buildStrategies(f),
		Concurrency: r.e.cfg.Discovery.Concurrency,
		Logger:      r.log,
	}

	out := d.DiscoverAll(ctx, planner, r.exam, r.opts.MaxSearchResults)
	r.report.Candidates = len(out.Results)
	r.report.DiscoveryFailures = out.Failures
	return out.Results
}

func (r *run) officialDomains(planner *plan.Planner) []string {
	if len(planner.Domains) > 0 {
		return planner.Domains
	}
	return plan.OfficialDomains
}

func (e *Engine) buildStrategies(f *httputil.Fetcher) []search.Strategy {
	if e.strategies != nil {
		return e.strategies(f)
	}
	dc := e.cfg.Discovery
	strategies := []search.Strategy{
		&search.DomainScan{Fetcher: f, Concurrency: dc.Concurrency},
		&search.PathProbe{Fetcher: f, Concurrency: dc.Concurrency, Paths: dc.ProbePaths},
	}
	if !dc.DisableWebSearch {
		strategies = append(strategies, &search.WebSearch{Fetcher: f, Endpoint: dc.SearchEndpoint})
	}
	return strategies
}

func (e *Engine) fetcher(hc types.HTTPConfig, timeout time.Duration, maxBody int64) *httputil.Fetcher {
	return &httputil.Fetcher{
		Client:       e.client,
		UserAgents:   e.userAgents,
		ContactEmail: hc.ContactEmail,
		Timeout:      timeout,
		MaxBodyBytes: maxBody,
	}
}

// Usable drops placeholder content and content without text. Placeholder
// text is synthetic and must not drive inference or provenance.
func Usable(contents []types.ExtractedContent) []types.ExtractedContent {
	var out []types.ExtractedContent
	for _, c := range contents {
		if c.Placeholder || strings.TrimSpace(c.Text) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func countPlaceholders(contents []types.ExtractedContent) int {
	n := 0
	for _, c := range contents {
		if c.Placeholder {
			n++
		}
	}
	return n
}
