// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fallback produces standard requirement schemas when extraction
// yields nothing usable. The exam is classified by keywords in its name and
// the category's fixed requirement set is returned. No I/O is performed.
package fallback

import (
	"strings"
	"time"

	"github.com/pdiddy/schema-engine/internal/assemble"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// Category is an exam family with its own standard requirements.
type Category string

const (
	Banking            Category = "banking"
	SSC                Category = "ssc"
	Railway            Category = "railway"
	MedicalEngineering Category = "medical-engineering"
	UPSC               Category = "upsc"
	General            Category = "general"
)

// Categories lists every category in classification order.
var Categories = []Category{Banking, SSC, Railway, MedicalEngineering, UPSC, General}

// classifiers are checked in order; the first keyword found as a substring
// of the lowercased name wins.
var classifiers = []struct {
	category Category
	keywords []string
}{
	{Banking, []string{"ibps", "bank", "sbi", "rbi"}},
	{SSC, []string{"ssc"}},
	{Railway, []string{"rrb", "railway", "ntpc"}},
	{MedicalEngineering, []string{"neet", "jee", "gate"}},
	{UPSC, []string{"upsc", "civil", "ias", "ips"}},
}

// Classify returns the category for examName, or General.
func Classify(examName string) Category {
	name := strings.ToLower(examName)
	for _, c := range classifiers {
		for _, kw := range c.keywords {
			if strings.Contains(name, kw) {
				return c.category
			}
		}
	}
	return General
}

// Schema returns the standard schema for examName's category, stamped with
// now and marked with types.FallbackSource.
func Schema(examName string, now time.Time) types.ExamSchema {
	return SchemaFor(Classify(examName), examName, now)
}

// SchemaFor returns the standard schema for category c.
func SchemaFor(c Category, examName string, now time.Time) types.ExamSchema {
	table, ok := tables[c]
	if !ok {
		table = tables[General]
	}
	docs := make([]types.DocumentRequirement, len(table))
	for i, d := range table {
		docs[i] = types.DocumentRequirement{Type: d.Type, Requirements: d.Requirements.Clone()}
	}
	return types.ExamSchema{
		Exam:          assemble.NormalizeExamName(examName),
		Documents:     docs,
		ExtractedFrom: types.FallbackSource,
		ExtractedAt:   now.UTC(),
	}
}
