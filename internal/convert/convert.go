// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns fetched PDF and HTML bytes into plain text plus
// document metadata. Line structure is preserved so downstream inference can
// reason about neighbouring lines.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// Document is the result of converting one source.
type Document struct {
	Text     string
	Metadata types.ContentMetadata
}

// Converter transforms raw document bytes into text. source is the URL or
// path the bytes came from; converters use it to derive fallback titles.
type Converter interface {
	Convert(source string, data []byte) (*Document, error)
}

// ForSourceType returns the converter for st.
func ForSourceType(st types.SourceType) Converter {
	if st == types.SourcePDF {
		return &PDFConverter{}
	}
	return &HTMLConverter{}
}

// SourceTypeOfPath classifies a local file by extension.
func SourceTypeOfPath(path string) types.SourceType {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return types.SourcePDF
	}
	return types.SourceHTML
}

// ConvertFile reads a local PDF or HTML file and converts it.
func ConvertFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ForSourceType(SourceTypeOfPath(path)).Convert(path, data)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

type fileStatus int

const (
	statusConverted fileStatus = iota
	statusSkipped
	statusFailed
)

// ConvertBatch converts each file in paths and writes <name>.txt into
// outDir, printing per-file status to w. Files whose output already exists
// are skipped.
func ConvertBatch(paths []string, outDir string, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		switch convertOne(p, outDir, w) {
		case statusConverted:
			result.Converted++
		case statusSkipped:
			result.Skipped++
		case statusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

func convertOne(path, outDir string, w io.Writer) fileStatus {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outDir, base+".txt")

	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
		return statusSkipped
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return statusFailed
	}

	doc, err := ConvertFile(path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return statusFailed
	}
	if err := os.WriteFile(outPath, []byte(addFrontmatter(path, doc)), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return statusFailed
	}

	fmt.Fprintf(w, "converted: %s\n", base)
	return statusConverted
}

// addFrontmatter prepends YAML frontmatter to the converted text.
func addFrontmatter(source string, doc *Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "source: %q\n", source)
	if doc.Metadata.Title != "" {
		fmt.Fprintf(&b, "title: %q\n", doc.Metadata.Title)
	}
	fmt.Fprintf(&b, "converted_at: %q\n", time.Now().UTC().Format(time.RFC3339))
	b.WriteString("---\n\n")
	b.WriteString(doc.Text)
	b.WriteString("\n")
	return b.String()
}
