// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"regexp"
	"strings"
	"unicode"
)

// UnknownExam is the display name used for a blank exam name.
const UnknownExam = "Unknown Exam"

// Acronyms are upper-cased wherever they appear as whole words in an exam
// name.
var Acronyms = []string{
	"IBPS", "SBI", "SSC", "RRB", "NTA", "UPSC", "CAT", "JEE", "NEET",
	"GATE", "RBI", "LIC", "CGL", "CHSL", "MTS", "PO", "NDA", "CDS", "UG", "PG",
}

var acronymRE = regexp.MustCompile(`(?i)\b(` + strings.Join(Acronyms, "|") + `)\b`)

// NormalizeExamName title-cases each token of name (split on whitespace,
// hyphens and underscores) and upper-cases known acronyms:
// "ibps-clerk_2025" becomes "IBPS Clerk 2025".
func NormalizeExamName(name string) string {
	tokens := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	if len(tokens) == 0 {
		return UnknownExam
	}
	for i, tok := range tokens {
		r := []rune(strings.ToLower(tok))
		r[0] = unicode.ToUpper(r[0])
		tokens[i] = string(r)
	}
	return acronymRE.ReplaceAllStringFunc(strings.Join(tokens, " "), strings.ToUpper)
}
