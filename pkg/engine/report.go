// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/schema-engine/internal/search"
)

// State is a pipeline stage.
type State string

const (
	StatePlanning    State = "planning"
	StateDiscovering State = "discovering"
	StateExtracting  State = "extracting"
	StateInferring   State = "inferring"
	StateAssembling  State = "assembling"
	StateValidated   State = "validated"
	StateFallback    State = "fallback"
)

// Report describes one pipeline run.
type Report struct {
	Exam string `json:"exam" yaml:"exam"`

	// State is the terminal state: validated or fallback.
	State State `json:"state" yaml:"state"`

	// FallbackFrom is the stage that gave up, when State is fallback.
	FallbackFrom   State  `json:"fallback_from,omitempty" yaml:"fallback_from,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`

	Queries      int `json:"queries" yaml:"queries"`
	Candidates   int `json:"candidates" yaml:"candidates"`
	Sources      int `json:"sources" yaml:"sources"`
	Contents     int `json:"contents" yaml:"contents"`
	Placeholders int `json:"placeholders" yaml:"placeholders"`
	Requirements int `json:"requirements" yaml:"requirements"`

	DiscoveryFailures  []search.Failure    `json:"discovery_failures,omitempty" yaml:"discovery_failures,omitempty"`
	ExtractionFailures []ExtractionFailure `json:"extraction_failures,omitempty" yaml:"extraction_failures,omitempty"`
	ValidationErrors   []string            `json:"validation_errors,omitempty" yaml:"validation_errors,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// ExtractionFailure records a source whose every extraction attempt failed.
type ExtractionFailure struct {
	URL string `json:"url" yaml:"url"`

	// Placeholder is set when synthetic text stood in for the source.
	Placeholder bool   `json:"placeholder" yaml:"placeholder"`
	Err         string `json:"error" yaml:"error"`
}

// IsFallback reports whether the run ended in the fallback state.
func (r *Report) IsFallback() bool {
	return r.State == StateFallback
}

// Format writes a human-readable summary to w.
func (r *Report) Format(w io.Writer) {
	fmt.Fprintf(w, "Exam:         %s\n", r.Exam)
	fmt.Fprintf(w, "State:        %s\n", r.State)
	if r.IsFallback() {
		fmt.Fprintf(w, "Fallback:     %s (at %s)\n", r.FallbackReason, r.FallbackFrom)
	}
	fmt.Fprintf(w, "Queries:      %d\n", r.Queries)
	fmt.Fprintf(w, "Candidates:   %d (%d fetch failures)\n", r.Candidates, len(r.DiscoveryFailures))
	fmt.Fprintf(w, "Sources:      %d\n", r.Sources)
	fmt.Fprintf(w, "Contents:     %d usable, %d placeholder\n", r.Contents, r.Placeholders)
	for _, f := range r.ExtractionFailures {
		fmt.Fprintf(w, "  failed: %s (%s)\n", f.URL, f.Err)
	}
	fmt.Fprintf(w, "Requirements: %d\n", r.Requirements)
	for _, e := range r.ValidationErrors {
		fmt.Fprintf(w, "  invalid: %s\n", e)
	}
	fmt.Fprintf(w, "Duration:     %s\n", r.Duration.Round(time.Millisecond))
}
