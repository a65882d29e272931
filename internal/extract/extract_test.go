// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/schema-engine/internal/convert"
	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

type stubConverter struct {
	text  string
	err   error
	calls int32
}

func (s *stubConverter) Convert(_ string, _ []byte) (*convert.Document, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &convert.Document{Text: s.text, Metadata: types.ContentMetadata{Title: "stub"}}, nil
}

func newExtractor(ts *httptest.Server) *Extractor {
	return &Extractor{Fetcher: &httputil.Fetcher{
		Client:     ts.Client(),
		UserAgents: httputil.StaticUserAgent("test/0.1"),
		Timeout:    2 * time.Second,
	}}
}

func TestExtractHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<title>Notice</title><main><p>Photo: JPEG format, max 50KB, passport size (35x45mm), mandatory</p></main>`)
	}))
	defer ts.Close()

	c, err := newExtractor(ts).Extract(context.Background(), ts.URL+"/notice", types.SourceHTML)
	require.NoError(t, err)
	assert.Equal(t, ts.URL+"/notice", c.URL)
	assert.Equal(t, types.SourceHTML, c.SourceType)
	assert.Equal(t, "Photo: JPEG format, max 50KB, passport size (35x45mm), mandatory", c.Text)
	assert.Equal(t, "Notice", c.Metadata.Title)
	assert.False(t, c.Placeholder)
}

func TestExtractSniffsPDFBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4\n..."))
	}))
	defer ts.Close()

	pdf := &stubConverter{text: "pdf text"}
	html := &stubConverter{text: "html text"}
	e := newExtractor(ts)
	e.PDF, e.HTML = pdf, html

	c, err := e.Extract(context.Background(), ts.URL+"/download?id=7", types.SourceHTML)
	require.NoError(t, err)
	assert.Equal(t, types.SourcePDF, c.SourceType)
	assert.Equal(t, "pdf text", c.Text)
	assert.Equal(t, int32(0), atomic.LoadInt32(&html.calls))
}

func TestExtractConversionErrorIsPermanent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data")
	}))
	defer ts.Close()

	e := newExtractor(ts)
	e.HTML = &stubConverter{err: errors.New("bad markup")}

	_, err := e.Extract(context.Background(), ts.URL, types.SourceHTML)
	require.Error(t, err)
	assert.ErrorIs(t, err, httputil.ErrPermanent)
	assert.False(t, httputil.IsTransient(err))
}

func TestExtractWithRetryRecovers(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "<p>Signature: 10 KB to 20 KB</p>")
	}))
	defer ts.Close()

	c := newExtractor(ts).ExtractWithRetry(context.Background(), ts.URL, types.SourceHTML, 3)
	assert.False(t, c.Placeholder)
	assert.Equal(t, "Signature: 10 KB to 20 KB", c.Text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestExtractWithRetryFallsBackToPlaceholder(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		maxRetry int
		wantHits int32
	}{
		{"server errors exhaust retries", http.StatusInternalServerError, 2, 3},
		{"not found is not retried", http.StatusNotFound, 3, 1},
		{"rate limit is retried", http.StatusTooManyRequests, 1, 2},
		{"zero retries makes one attempt", http.StatusInternalServerError, 0, 1},
		{"negative retries use the default", http.StatusInternalServerError, -1, DefaultMaxRetries + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			url := ts.URL + "/ibps/notice.pdf"
			c := newExtractor(ts).ExtractWithRetry(context.Background(), url, types.SourcePDF, tt.maxRetry)

			assert.True(t, c.Placeholder)
			assert.Equal(t, url, c.URL)
			assert.Equal(t, bankingPlaceholder, c.Text)
			assert.Equal(t, tt.wantHits, atomic.LoadInt32(&hits))
		})
	}
}

func TestTryExtractReturnsLastError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := newExtractor(ts).TryExtract(context.Background(), ts.URL+"/notice", types.SourceHTML, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.True(t, c.Placeholder)

	var fe *httputil.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
}

func TestExtractWithRetryParseFailureNotRetried(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("%PDF-1.4 truncated"))
	}))
	defer ts.Close()

	c := newExtractor(ts).ExtractWithRetry(context.Background(), ts.URL+"/ssc/cgl.pdf", types.SourcePDF, 3)
	assert.True(t, c.Placeholder)
	assert.Equal(t, sscPlaceholder, c.Text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestExtractWithRetryCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<p>x</p>")
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newExtractor(ts).ExtractWithRetry(ctx, ts.URL, types.SourceHTML, 3)
	assert.False(t, c.Placeholder)
	assert.Empty(t, c.Text)
}

func TestPlaceholderText(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://ibps.in/notice.pdf", bankingPlaceholder},
		{"https://sbi.co.in/careers", bankingPlaceholder},
		{"https://www.rbi.org.in/x", bankingPlaceholder},
		{"https://ssc.gov.in/cgl.pdf", sscPlaceholder},
		{"https://upsc.gov.in/notice.pdf", genericPlaceholder},
		{"", genericPlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, PlaceholderText(tt.url))
		})
	}

	p := Placeholder("https://ibps.in/x.pdf", types.SourcePDF)
	assert.True(t, p.Placeholder)
	assert.Equal(t, types.SourcePDF, p.SourceType)
}
