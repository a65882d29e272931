// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan turns an exam name into a bounded list of discovery queries.
// Planning is pure: no I/O, and the clock is injected.
package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// PlaceholderExam is the token used when the exam name is empty.
const PlaceholderExam = "exam"

// OfficialDomains lists the government, educational, banking, railway and
// SSC portals that publish exam notifications.
var OfficialDomains = []string{
	// Government
	"upsc.gov.in",
	"india.gov.in",
	"nic.in",
	// Educational. GATE moves to a new gateYYYY host every year; those
	// portals are still official through the .ac.in suffix.
	"nta.ac.in",
	"exams.nta.ac.in",
	"neet.nta.nic.in",
	"jeemain.nta.nic.in",
	"iimcat.ac.in",
	// Banking
	"ibps.in",
	"sbi.co.in",
	"rbi.org.in",
	// Railway
	"indianrailways.gov.in",
	"rrbcdg.gov.in",
	"rrbapply.gov.in",
	// SSC
	"ssc.gov.in",
	"ssc.nic.in",
}

// FileTypeHints lists the document types discovery should look for, most
// preferred first.
var FileTypeHints = []string{"pdf", "html"}

// Planner builds search queries. The zero value is usable and plans against
// OfficialDomains with the current time.
type Planner struct {
	// Now returns the current time; it decides the notification years.
	Now func() time.Time

	// Domains overrides OfficialDomains when non-empty.
	Domains []string
}

// Plan returns the query groups for examName using the default Planner.
func Plan(examName string) []types.SearchQuery {
	return (&Planner{}).Plan(examName)
}

// Plan returns two query groups for examName: official notification queries
// for this year and next, and upload specification queries. An empty name
// yields a single generic query over PlaceholderExam.
func (p *Planner) Plan(examName string) []types.SearchQuery {
	name := Normalize(examName)
	domains := p.domains()

	if name == "" {
		return []types.SearchQuery{
			p.query(PlaceholderExam, domains,
				fmt.Sprintf("%s document upload requirements", PlaceholderExam)),
		}
	}

	year := p.now().Year()
	return []types.SearchQuery{
		p.query(name, domains,
			fmt.Sprintf("%s %d official notification", name, year),
			fmt.Sprintf("%s %d notification", name, year+1),
			fmt.Sprintf("%s apply online", name),
			fmt.Sprintf("%s document requirements", name),
		),
		p.query(name, domains,
			fmt.Sprintf("%s photo signature upload specification", name),
			fmt.Sprintf("%s instructions to candidates", name),
			fmt.Sprintf("%s photograph size format", name),
		),
	}
}

func (p *Planner) query(name string, domains []string, terms ...string) types.SearchQuery {
	return types.SearchQuery{
		ExamNameNormalized: name,
		SearchTerms:        terms,
		FileTypeHints:      append([]string(nil), FileTypeHints...),
		DomainHints:        append([]string(nil), domains...),
	}
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Planner) domains() []string {
	if len(p.Domains) > 0 {
		return p.Domains
	}
	return OfficialDomains
}

// Normalize lowercases name, turns hyphens and underscores into spaces,
// and collapses whitespace.
func Normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// ExamTokens returns the distinctive tokens of a normalized exam name used
// for relevance scoring. Four-digit years and one-letter tokens are dropped.
func ExamTokens(normalized string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		if len(tok) < 2 || isYear(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

func isYear(tok string) bool {
	if len(tok) != 4 {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return tok[:2] == "19" || tok[:2] == "20"
}

// ExamID returns a stable storage key for an exam name, e.g.
// "IBPS Clerk 2025" → "ibps-clerk-2025".
func ExamID(examName string) string {
	n := Normalize(examName)
	if n == "" {
		return PlaceholderExam
	}
	return strings.ReplaceAll(n, " ", "-")
}
