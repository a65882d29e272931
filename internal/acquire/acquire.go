// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads discovered source documents to disk so they can
// be converted and inspected offline. Each document is written next to a
// YAML sidecar recording where it came from.
package acquire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/pkg/types"
)

const maxSlugLen = 80

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int

	// Paths lists the document files on disk, downloaded or skipped.
	Paths []string
}

// Total returns the total number of sources processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any download failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Record is the sidecar written next to each downloaded document.
type Record struct {
	URL          string    `yaml:"url"`
	Title        string    `yaml:"title,omitempty"`
	ContentType  string    `yaml:"content_type,omitempty"`
	Score        float64   `yaml:"relevance_score"`
	Strategy     string    `yaml:"strategy,omitempty"`
	DownloadedAt time.Time `yaml:"downloaded_at"`
}

// Slug derives a file name stem from a URL's host and path, e.g.
// "https://ibps.in/docs/Clerk_2025.pdf" → "ibps-in-docs-clerk-2025".
func Slug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "source"
	}
	p := strings.TrimSuffix(u.Path, filepath.Ext(u.Path))

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(u.Hostname() + "/" + p) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return "source"
	}
	return slug
}

// Download fetches one source into dir. The extension follows the response
// body, not the URL. A source whose file already exists is skipped.
func Download(ctx context.Context, f *httputil.Fetcher, src types.SearchResult, dir string, w io.Writer) (path string, skipped bool, err error) {
	slug := Slug(src.URL)

	for _, ext := range []string{".pdf", ".html"} {
		existing := filepath.Join(dir, slug+ext)
		if _, err := os.Stat(existing); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", slug)
			return existing, true, nil
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", slug)
	resp, err := f.Get(ctx, src.URL, "application/pdf,text/html;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", slug, err)
	}

	ext := ".html"
	if strings.Contains(strings.ToLower(resp.ContentType), "application/pdf") ||
		bytes.HasPrefix(resp.Body, []byte("%PDF-")) {
		ext = ".pdf"
	}
	path = filepath.Join(dir, slug+ext)

	if err := writeAtomic(path, resp.Body); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", slug, err)
	}

	rec := Record{
		URL:          src.URL,
		Title:        src.Title,
		ContentType:  resp.ContentType,
		Score:        src.RelevanceScore,
		Strategy:     src.Strategy,
		DownloadedAt: time.Now().UTC(),
	}
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return "", false, fmt.Errorf("marshaling record for %s: %w", slug, err)
	}
	if err := os.WriteFile(filepath.Join(dir, slug+".yaml"), data, 0o644); err != nil {
		return "", false, fmt.Errorf("writing record for %s: %w", slug, err)
	}
	return path, false, nil
}

// DownloadBatch downloads each source in order, printing per-source status
// and a summary to w. It continues after individual failures and waits
// delay between consecutive downloads.
func DownloadBatch(ctx context.Context, f *httputil.Fetcher, sources []types.SearchResult, dir string, delay time.Duration, w io.Writer) BatchResult {
	var result BatchResult
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}

		path, skipped, err := Download(ctx, f, src, dir, w)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", src.URL, err)
			result.Failed++
			continue
		case skipped:
			result.Skipped++
		default:
			result.Downloaded++
		}
		result.Paths = append(result.Paths, path)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// writeAtomic writes data to a temp file in path's directory and renames it
// into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
