// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/pkg/types"
)

func newSourceServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/Clerk_Notice.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4 fake"))
		case "/notice":
			// PDF body behind an extensionless URL.
			w.Write([]byte("%PDF-1.7 fake"))
		case "/instructions.html":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body>Photograph: JPEG</body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testFetcher(ts *httptest.Server) *httputil.Fetcher {
	return &httputil.Fetcher{Client: ts.Client(), UserAgents: httputil.StaticUserAgent("test/0.1"), Timeout: 2 * time.Second}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://ibps.in/docs/Clerk_2025.pdf", "ibps-in-docs-clerk-2025"},
		{"https://ssc.gov.in/", "ssc-gov-in"},
		{"https://ssc.gov.in/notice?id=4", "ssc-gov-in-notice"},
		{"::bad", "source"},
		{"https://x.in/" + strings.Repeat("a", 200), "x-in-" + strings.Repeat("a", maxSlugLen-5)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.url), tt.url)
	}
}

func TestDownload(t *testing.T) {
	ts := newSourceServer(t)
	dir := t.TempDir()
	src := types.SearchResult{URL: ts.URL + "/docs/Clerk_Notice.pdf", Title: "Clerk notice", RelevanceScore: 0.8, Strategy: "domain_scan"}

	var buf bytes.Buffer
	path, skipped, err := Download(context.Background(), testFetcher(ts), src, dir, &buf)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, ".pdf", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	sidecar, err := os.ReadFile(strings.TrimSuffix(path, ".pdf") + ".yaml")
	require.NoError(t, err)
	var rec Record
	require.NoError(t, yaml.Unmarshal(sidecar, &rec))
	assert.Equal(t, src.URL, rec.URL)
	assert.Equal(t, "Clerk notice", rec.Title)
	assert.Equal(t, 0.8, rec.Score)

	// Second download is skipped.
	_, skipped, err = Download(context.Background(), testFetcher(ts), src, dir, &buf)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Contains(t, buf.String(), "already exists")
}

func TestDownloadSniffsPDF(t *testing.T) {
	ts := newSourceServer(t)
	path, _, err := Download(context.Background(), testFetcher(ts), types.SearchResult{URL: ts.URL + "/notice"}, t.TempDir(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, ".pdf", filepath.Ext(path))
}

func TestDownloadBatch(t *testing.T) {
	ts := newSourceServer(t)
	dir := t.TempDir()
	sources := []types.SearchResult{
		{URL: ts.URL + "/docs/Clerk_Notice.pdf"},
		{URL: ts.URL + "/instructions.html"},
		{URL: ts.URL + "/missing.pdf"},
	}

	var buf bytes.Buffer
	result := DownloadBatch(context.Background(), testFetcher(ts), sources, dir, 0, &buf)

	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	require.Len(t, result.Paths, 2)
	assert.Equal(t, ".html", filepath.Ext(result.Paths[1]))
	assert.Contains(t, buf.String(), "Batch summary: 2 downloaded, 0 skipped, 1 failed (total: 3)")

	// No temp files are left behind.
	leftovers, err := filepath.Glob(filepath.Join(dir, ".acquire-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDownloadBatchCancelled(t *testing.T) {
	ts := newSourceServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := DownloadBatch(ctx, testFetcher(ts), []types.SearchResult{{URL: ts.URL + "/notice"}}, t.TempDir(), 0, &bytes.Buffer{})
	assert.Zero(t, result.Total())
}
