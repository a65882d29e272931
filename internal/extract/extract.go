// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract fetches candidate URLs and converts them into text for
// requirement inference. Extraction never fails outright: when a source
// cannot be fetched or parsed, ExtractWithRetry returns synthetic
// placeholder text flagged with Placeholder.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/schema-engine/internal/convert"
	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// DefaultMaxRetries is the retry count used when a negative count is given.
const DefaultMaxRetries = 3

const (
	pdfAccept  = "application/pdf,*/*;q=0.8"
	htmlAccept = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
)

// Extractor fetches and converts sources.
type Extractor struct {
	Fetcher *httputil.Fetcher

	// PDF and HTML default to convert.PDFConverter and convert.HTMLConverter.
	PDF  convert.Converter
	HTML convert.Converter

	Logger *zap.Logger
}

// Extract fetches url once and converts it. A response whose body is a PDF
// is converted as PDF even when st says HTML. Conversion failures wrap
// httputil.ErrPermanent so retries skip them.
func (e *Extractor) Extract(ctx context.Context, url string, st types.SourceType) (types.ExtractedContent, error) {
	accept := htmlAccept
	if st == types.SourcePDF {
		accept = pdfAccept
	}

	resp, err := e.Fetcher.Get(ctx, url, accept)
	if err != nil {
		return types.ExtractedContent{}, err
	}

	actual := st
	if isPDF(resp) {
		actual = types.SourcePDF
	}

	doc, err := e.converter(actual).Convert(resp.URL, resp.Body)
	if err != nil {
		return types.ExtractedContent{}, fmt.Errorf("converting %s: %w: %w", url, httputil.ErrPermanent, err)
	}

	return types.ExtractedContent{
		URL:        url,
		SourceType: actual,
		Text:       doc.Text,
		Metadata:   doc.Metadata,
	}, nil
}

// ExtractWithRetry calls Extract up to maxRetries additional times with
// exponential backoff. When every attempt fails it returns placeholder
// content for url. A cancelled context yields content with empty text.
// Zero maxRetries means a single attempt; a negative value selects
// DefaultMaxRetries.
func (e *Extractor) ExtractWithRetry(ctx context.Context, url string, st types.SourceType, maxRetries int) types.ExtractedContent {
	c, _ := e.TryExtract(ctx, url, st, maxRetries)
	return c
}

// TryExtract behaves like ExtractWithRetry and also returns the error of the
// last failed attempt, so callers can report why a source degraded to
// placeholder or empty content.
func (e *Extractor) TryExtract(ctx context.Context, url string, st types.SourceType, maxRetries int) (types.ExtractedContent, error) {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	log := e.logger().With(zap.String("url", url), zap.String("source_type", string(st)))

	var content types.ExtractedContent
	err := httputil.Retry(ctx, maxRetries, func(attempt int) error {
		c, err := e.Extract(ctx, url, st)
		if err != nil {
			log.Debug("extraction attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
			return err
		}
		content = c
		return nil
	})

	switch {
	case err == nil:
		log.Debug("extracted content", zap.Int("chars", len(content.Text)))
		return content, nil
	case ctx.Err() != nil:
		log.Debug("extraction cancelled")
		return types.ExtractedContent{URL: url, SourceType: st}, err
	default:
		log.Warn("extraction failed, using placeholder text", zap.Error(err))
		return Placeholder(url, st), err
	}
}

func (e *Extractor) converter(st types.SourceType) convert.Converter {
	if st == types.SourcePDF {
		if e.PDF != nil {
			return e.PDF
		}
		return &convert.PDFConverter{}
	}
	if e.HTML != nil {
		return e.HTML
	}
	return &convert.HTMLConverter{}
}

func (e *Extractor) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

func isPDF(resp *httputil.Response) bool {
	if strings.Contains(strings.ToLower(resp.ContentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimLeft(resp.Body, " \t\r\n"), []byte("%PDF-"))
}
