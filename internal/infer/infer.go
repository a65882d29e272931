// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package infer turns extracted page text into document requirements.
//
// Each line that names a document type becomes a DocumentPattern carrying
// the surrounding lines and a confidence score. Patterns are grouped by type
// across all sources; the most confident pattern above MinConfidence
// supplies the requirement fields and lower-ranked patterns of the same type
// fill whatever it left empty. The package does no I/O and is deterministic.
package infer

import (
	"sort"
	"strings"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// Infer analyzes contents and returns at most one requirement per document
// type, in the canonical type order. Contents with empty text are ignored.
func Infer(contents []types.ExtractedContent) []types.DocumentRequirement {
	groups := map[string][]DocumentPattern{}
	for _, c := range contents {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		for _, p := range DetectPatterns(c.Text) {
			groups[p.DocumentType] = append(groups[p.DocumentType], p)
		}
	}

	var out []types.DocumentRequirement
	for _, v := range documentTypes {
		patterns := retained(groups[v.docType])
		if len(patterns) == 0 {
			continue
		}
		out = append(out, types.DocumentRequirement{
			Type:         v.docType,
			Requirements: merge(patterns),
		})
	}
	return out
}

// retained drops patterns at or below MinConfidence and orders the rest by
// descending confidence. Equal scores keep detection order.
func retained(patterns []DocumentPattern) []DocumentPattern {
	var kept []DocumentPattern
	for _, p := range patterns {
		if p.Confidence > MinConfidence {
			kept = append(kept, p)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})
	return kept
}

// merge analyzes the best pattern's context and fills empty fields from
// the following patterns. Notes are unioned.
func merge(patterns []DocumentPattern) types.Requirements {
	req := Analyze(strings.Join(patterns[0].SourceSnippets, "\n"))
	for _, p := range patterns[1:] {
		next := Analyze(strings.Join(p.SourceSnippets, "\n"))
		if len(req.Format) == 0 {
			req.Format = next.Format
		}
		if req.SizeKB.IsEmpty() {
			req.SizeKB = next.SizeKB
		}
		if req.Dimensions == "" || (req.Dimensions == "Passport size" && next.Dimensions != "") {
			req.Dimensions = next.Dimensions
		}
		if req.Color == "" {
			req.Color = next.Color
		}
		if req.Background == "" {
			req.Background = next.Background
		}
		req.Notes = unionNotes(req.Notes, next.Notes)
	}
	return req
}

func unionNotes(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, n := range a {
		seen[n] = true
	}
	for _, n := range b {
		if !seen[n] {
			seen[n] = true
			a = append(a, n)
		}
	}
	return a
}
