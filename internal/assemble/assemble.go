// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble merges inferred requirements into a final ExamSchema and
// validates schemas.
//
// Assembly normalizes format tokens, converts and clamps sizes, fills type
// defaults, guarantees photograph and signature entries, and orders
// documents by a fixed priority. Validation reports problems as strings and
// never panics.
package assemble

import (
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// Assembler builds schemas. The zero value stamps schemas with the current
// UTC time.
type Assembler struct {
	Now func() time.Time
}

// Assemble builds a schema with the default Assembler.
func Assemble(examName string, reqs []types.DocumentRequirement, contents []types.ExtractedContent) types.ExamSchema {
	return (&Assembler{}).Assemble(examName, reqs, contents)
}

// Assemble normalizes reqs into a schema for examName. contents supply the
// provenance URL; placeholder and empty contents are never used for it.
func (a *Assembler) Assemble(examName string, reqs []types.DocumentRequirement, contents []types.ExtractedContent) types.ExamSchema {
	docs := dedupe(reqs)
	for _, required := range []string{types.DocPhotograph, types.DocSignature} {
		if !hasType(docs, required) {
			docs = append(docs, types.DocumentRequirement{Type: required, Requirements: StandardRequirement(required)})
		}
	}
	for i := range docs {
		docs[i] = Enhance(docs[i])
	}
	Order(docs)

	return types.ExamSchema{
		Exam:          NormalizeExamName(examName),
		Documents:     docs,
		ExtractedFrom: ExtractedFrom(contents),
		ExtractedAt:   a.now(),
	}
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

// Enhance normalizes one requirement: canonical formats, sizes in KB within
// limits, type defaults for missing formats and notes, and dimension units.
func Enhance(d types.DocumentRequirement) types.DocumentRequirement {
	r := ConvertSizeUnits(d.Requirements.Clone())
	r.Format = NormalizeFormats(r.Format)
	if len(r.Format) == 0 {
		r.Format = defaultFormats(d.Type)
	}
	if len(r.Notes) == 0 {
		r.Notes = defaultNotes(d.Type)
	}
	r.SizeKB = ClampSize(r.SizeKB)
	r.Dimensions = NormalizeDimensions(r.Dimensions)
	r.Background = strings.ToLower(strings.TrimSpace(r.Background))
	return types.DocumentRequirement{Type: d.Type, Requirements: r}
}

// dedupe normalizes types, drops untyped entries, and merges entries that
// share a type: the first keeps its fields and later ones fill gaps.
func dedupe(reqs []types.DocumentRequirement) []types.DocumentRequirement {
	var out []types.DocumentRequirement
	index := map[string]int{}
	for _, r := range reqs {
		t := NormalizeType(r.Type)
		if t == "" {
			continue
		}
		if i, ok := index[t]; ok {
			out[i].Requirements = fillGaps(out[i].Requirements, r.Requirements)
			continue
		}
		index[t] = len(out)
		out = append(out, types.DocumentRequirement{Type: t, Requirements: r.Requirements.Clone()})
	}
	return out
}

func fillGaps(dst, src types.Requirements) types.Requirements {
	if len(dst.Format) == 0 {
		dst.Format = append([]string(nil), src.Format...)
	}
	if dst.SizeKB.IsEmpty() {
		dst.SizeKB = src.SizeKB.Clone()
	}
	if dst.SizeMB.IsEmpty() {
		dst.SizeMB = src.SizeMB.Clone()
	}
	if dst.Dimensions == "" {
		dst.Dimensions = src.Dimensions
	}
	if dst.Color == "" {
		dst.Color = src.Color
	}
	if dst.Background == "" {
		dst.Background = src.Background
	}
	for _, n := range src.Notes {
		if !contains(dst.Notes, n) {
			dst.Notes = append(dst.Notes, n)
		}
	}
	return dst
}

func hasType(docs []types.DocumentRequirement, t string) bool {
	for _, d := range docs {
		if d.Type == t {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Order sorts documents by the fixed type priority; unknown types keep
// their relative order after the known ones.
func Order(docs []types.DocumentRequirement) {
	rank := func(t string) int {
		if r, ok := typeOrder[t]; ok {
			return r
		}
		return len(typeOrder)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return rank(docs[i].Type) < rank(docs[j].Type)
	})
}

// ExtractedFrom picks the provenance URL: the first PDF content, else the
// first content, else types.FallbackSource. Placeholder and empty contents
// are skipped.
func ExtractedFrom(contents []types.ExtractedContent) string {
	first := ""
	for _, c := range contents {
		if c.Placeholder || c.URL == "" || strings.TrimSpace(c.Text) == "" {
			continue
		}
		if c.SourceType == types.SourcePDF {
			return c.URL
		}
		if first == "" {
			first = c.URL
		}
	}
	if first != "" {
		return first
	}
	return types.FallbackSource
}
