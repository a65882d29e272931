// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the schema-engine pipeline:
// search queries and candidate URLs (discovery), extracted page text
// (extraction), document requirements and exam schemas (inference and
// assembly), and the per-stage configuration.
package types

// SourceType identifies how a candidate URL is parsed.
type SourceType string

const (
	SourcePDF  SourceType = "pdf"
	SourceHTML SourceType = "html"
)

// SearchQuery is one planned discovery query for an exam. It is built by the
// planner and consumed once by the discovery layer.
type SearchQuery struct {
	// ExamNameNormalized is the lowercased, whitespace-collapsed exam name.
	ExamNameNormalized string `json:"exam_name_normalized" yaml:"exam_name_normalized"`

	// SearchTerms are the free-text queries sent to general search.
	SearchTerms []string `json:"search_terms" yaml:"search_terms"`

	// FileTypeHints lists the preferred document types (e.g. "pdf", "html").
	FileTypeHints []string `json:"file_type_hints" yaml:"file_type_hints"`

	// DomainHints lists the official domains scanned and probed directly.
	DomainHints []string `json:"domain_hints" yaml:"domain_hints"`
}

// SearchResult is a candidate source URL returned by discovery.
type SearchResult struct {
	// URL is the absolute URL of the candidate page or document.
	URL string `json:"url" yaml:"url"`

	// Title is the anchor text, result title, or page title.
	Title string `json:"title" yaml:"title"`

	// Snippet is a short text excerpt around the match, when available.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// SourceType is pdf when the URL path ends in .pdf, html otherwise.
	SourceType SourceType `json:"source_type" yaml:"source_type"`

	// RelevanceScore is a value between 0.0 and 1.0.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// Strategy names the discovery strategy (or strategies, comma-separated)
	// that produced this result.
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// ContentMetadata holds document-level metadata captured during extraction.
type ContentMetadata struct {
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// ExtractedContent is the plain text extracted from one candidate URL.
// Text is empty (never nil) when nothing could be extracted.
type ExtractedContent struct {
	URL        string          `json:"url" yaml:"url"`
	SourceType SourceType      `json:"source_type" yaml:"source_type"`
	Text       string          `json:"text" yaml:"text"`
	Metadata   ContentMetadata `json:"metadata" yaml:"metadata"`

	// Placeholder is true when Text is synthetic fallback text rather than
	// text read from the source. Placeholder content carries no source signal.
	Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}
