// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"math"
	"strings"
)

// ContextRadius is the number of lines read on each side of a matched line.
const ContextRadius = 3

// MinConfidence is the discard threshold: only patterns scoring strictly
// above it contribute requirements.
const MinConfidence = 0.4

// DocumentPattern is one mention of a document type in one source, with
// the lines around it.
type DocumentPattern struct {
	DocumentType   string
	SourceSnippets []string
	Confidence     float64
}

// LineConfidence scores how likely a line is to state upload requirements.
func LineConfidence(line string) float64 {
	c := 0.5
	if requirementVocab.MatchString(line) {
		c += 0.2
	}
	if measureVocab.MatchString(line) {
		c += 0.2
	}
	if uploadVocab.MatchString(line) {
		c += 0.1
	}
	return math.Min(1.0, math.Round(c*1000)/1000)
}

// mentionedTypes returns the document types a line mentions, in
// documentTypes order.
func mentionedTypes(line string) []string {
	var out []string
	for _, v := range documentTypes {
		if v.re.MatchString(line) {
			out = append(out, v.docType)
		}
	}
	return out
}

func mentions(line, docType string) bool {
	for _, t := range mentionedTypes(line) {
		if t == docType {
			return true
		}
	}
	return false
}

// mentionsOther reports whether line names a document type other than
// docType without also naming docType.
func mentionsOther(line, docType string) bool {
	types := mentionedTypes(line)
	if len(types) == 0 {
		return false
	}
	for _, t := range types {
		if t == docType {
			return false
		}
	}
	return true
}

// DetectPatterns scans text line by line and returns one pattern per
// (line, document type) match. The snippets hold the matched line first,
// then up to ContextRadius following and preceding lines; the window stops
// at a line that names a different document type.
func DetectPatterns(text string) []DocumentPattern {
	lines := splitLines(text)
	var patterns []DocumentPattern
	for i, line := range lines {
		for _, docType := range mentionedTypes(line) {
			patterns = append(patterns, DocumentPattern{
				DocumentType:   docType,
				SourceSnippets: window(lines, i, docType),
				Confidence:     LineConfidence(line),
			})
		}
	}
	return patterns
}

func window(lines []string, i int, docType string) []string {
	snippets := []string{lines[i]}
	for j := i + 1; j < len(lines) && j <= i+ContextRadius; j++ {
		if mentionsOther(lines[j], docType) {
			break
		}
		snippets = append(snippets, lines[j])
	}
	for j := i - 1; j >= 0 && j >= i-ContextRadius; j-- {
		if mentionsOther(lines[j], docType) || mentions(lines[j], docType) {
			break
		}
		snippets = append(snippets, lines[j])
	}
	return snippets
}

func splitLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
