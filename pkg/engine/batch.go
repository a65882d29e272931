// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/schema-engine/internal/extract"
	"github.com/pdiddy/schema-engine/pkg/types"
)

const defaultBatchSize = 3

// extract fetches sources in fixed-size batches. Sources within a batch run
// concurrently; batches run one after another with BatchDelay between them.
// Results keep the order of sources; sources that failed are recorded in
// the report.
func (r *run) extract(ctx context.Context, sources []types.SearchResult) []types.ExtractedContent {
	ec := r.e.cfg.Extraction
	batchSize := ec.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	ex := &extract.Extractor{
		Fetcher: r.e.fetcher(ec.HTTPConfig, r.opts.Timeout, ec.MaxBodyBytes),
		Logger:  r.log,
	}

	contents := make([]types.ExtractedContent, len(sources))
	errs := make([]error, len(sources))
	for start := 0; start < len(sources); start += batchSize {
		if start > 0 && !sleepCtx(ctx, ec.BatchDelay) {
			break
		}
		end := min(start+batchSize, len(sources))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				src := sources[i]
				contents[i], errs[i] = ex.TryExtract(ctx, src.URL, src.SourceType, ec.MaxRetries)
			}(i)
		}
		wg.Wait()

		r.log.Debug("extraction batch finished",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", len(sources)))
	}

	for i, err := range errs {
		if err != nil {
			r.report.ExtractionFailures = append(r.report.ExtractionFailures, ExtractionFailure{
				URL:         sources[i].URL,
				Placeholder: contents[i].Placeholder,
				Err:         err.Error(),
			})
		}
	}
	return contents
}

// sleepCtx waits for d or until ctx is done. It reports whether the full
// wait elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
