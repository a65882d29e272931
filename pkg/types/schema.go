// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"context"
	"errors"
	"time"
)

// FallbackSource is the ExtractedFrom value of every schema produced by the
// rule-based fallback. It is the only caller-visible signal of degraded
// operation.
const FallbackSource = "Fallback - Standard Requirements"

// Normalized document type tokens.
const (
	DocPhotograph      = "photograph"
	DocSignature       = "signature"
	DocThumbImpression = "thumb_impression"
	DocIDProof         = "id_proof"
	DocCertificate     = "certificate"
	DocMarksheet       = "marksheet"
)

// ColorRequirement states whether a document must be in color.
type ColorRequirement string

const (
	ColorColor      ColorRequirement = "color"
	ColorBlackWhite ColorRequirement = "black-white"
	ColorAny        ColorRequirement = "any"
)

// SizeRange is a file size bound. A nil bound is absent.
type SizeRange struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Range returns a SizeRange with both bounds set.
func Range(min, max float64) *SizeRange {
	return &SizeRange{Min: &min, Max: &max}
}

// UpTo returns a SizeRange with only the upper bound set.
func UpTo(max float64) *SizeRange {
	return &SizeRange{Max: &max}
}

// AtLeast returns a SizeRange with only the lower bound set.
func AtLeast(min float64) *SizeRange {
	return &SizeRange{Min: &min}
}

// IsEmpty reports whether neither bound is set.
func (r *SizeRange) IsEmpty() bool {
	return r == nil || (r.Min == nil && r.Max == nil)
}

// Clone returns a deep copy of r.
func (r *SizeRange) Clone() *SizeRange {
	if r == nil {
		return nil
	}
	out := &SizeRange{}
	if r.Min != nil {
		v := *r.Min
		out.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		out.Max = &v
	}
	return out
}

// Requirements holds the upload constraints for one document type. Every
// field is optional; zero values are omitted from JSON.
type Requirements struct {
	Format     []string         `json:"format,omitempty" yaml:"format,omitempty"`
	SizeKB     *SizeRange       `json:"size_kb,omitempty" yaml:"size_kb,omitempty"`
	SizeMB     *SizeRange       `json:"size_mb,omitempty" yaml:"size_mb,omitempty"`
	Dimensions string           `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Color      ColorRequirement `json:"color,omitempty" yaml:"color,omitempty"`
	Background string           `json:"background,omitempty" yaml:"background,omitempty"`
	Notes      []string         `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Clone returns a deep copy of r.
func (r Requirements) Clone() Requirements {
	out := r
	out.Format = append([]string(nil), r.Format...)
	out.Notes = append([]string(nil), r.Notes...)
	out.SizeKB = r.SizeKB.Clone()
	out.SizeMB = r.SizeMB.Clone()
	return out
}

// DocumentRequirement is the upload specification for one document type.
type DocumentRequirement struct {
	// Type is a normalized lowercase token such as "photograph".
	Type         string       `json:"type" yaml:"type"`
	Requirements Requirements `json:"requirements" yaml:"requirements"`
}

// ExamSchema is the externally visible result of the pipeline.
type ExamSchema struct {
	// Exam is the human-readable exam name with known acronyms upper-cased.
	Exam string `json:"exam" yaml:"exam"`

	// Documents holds at most one requirement per document type.
	Documents []DocumentRequirement `json:"documents" yaml:"documents"`

	// ExtractedFrom is the best source URL, or FallbackSource.
	ExtractedFrom string `json:"extractedFrom" yaml:"extracted_from"`

	// ExtractedAt is when the schema was assembled.
	ExtractedAt time.Time `json:"extractedAt" yaml:"extracted_at"`
}

// IsFallback reports whether the schema came from the rule-based fallback.
func (s ExamSchema) IsFallback() bool {
	return s.ExtractedFrom == FallbackSource
}

// Document returns the requirement for docType, if present.
func (s ExamSchema) Document(docType string) (DocumentRequirement, bool) {
	for _, d := range s.Documents {
		if d.Type == docType {
			return d, true
		}
	}
	return DocumentRequirement{}, false
}

// ErrSchemaNotFound is returned by SchemaStore.Load when no schema is stored
// for the exam ID.
var ErrSchemaNotFound = errors.New("schema not found")

// SchemaStore persists exam schemas. The pipeline never depends on it; the
// CLI and HTTP server use it to cache results.
type SchemaStore interface {
	Save(ctx context.Context, examID string, schema ExamSchema) error
	Load(ctx context.Context, examID string) (*ExamSchema, error)
}

// ExtractionOptions configures one pipeline invocation. It is read-only once
// the invocation starts.
type ExtractionOptions struct {
	// MaxSearchResults caps the ranked candidate list (default 10).
	MaxSearchResults int `json:"maxSearchResults" yaml:"max_search_results"`

	// Timeout bounds each content extraction request (default 60s). Discovery
	// requests use the shorter of this and the discovery timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// OfficialSourcesOnly keeps only official-domain results or results
	// scoring above 0.7 (default true).
	OfficialSourcesOnly bool `json:"officialSourcesOnly" yaml:"official_sources_only"`

	// PreferPDFs stable-sorts PDF results ahead of HTML (default true).
	PreferPDFs bool `json:"preferPdfs" yaml:"prefer_pdfs"`
}

const (
	DefaultMaxSearchResults = 10
	DefaultTimeout          = 60 * time.Second
)

// DefaultExtractionOptions returns the documented defaults.
func DefaultExtractionOptions() ExtractionOptions {
	return ExtractionOptions{
		MaxSearchResults:    DefaultMaxSearchResults,
		Timeout:             DefaultTimeout,
		OfficialSourcesOnly: true,
		PreferPDFs:          true,
	}
}

// WithDefaults fills unset numeric fields with their defaults.
func (o ExtractionOptions) WithDefaults() ExtractionOptions {
	if o.MaxSearchResults <= 0 {
		o.MaxSearchResults = DefaultMaxSearchResults
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
