// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"math"
	"net/url"
	"path"
	"strings"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// MinAnchorScore is the discard threshold for anchors found on scanned
// pages: only anchors scoring strictly above it are kept.
const MinAnchorScore = 0.3

// Relevance weights. Each vocabulary category counts at most once; each
// distinct exam-name token counts separately.
const (
	weightExamToken   = 0.3
	weightOfficial    = 0.2
	weightApplication = 0.25
	weightUpload      = 0.15
	weightRequirement = 0.1
)

var (
	officialVocabulary    = []string{"official", "notification", "advertisement", "recruitment", "government", "notice"}
	applicationVocabulary = []string{"apply", "application", "registration", "online form", "apply online"}
	uploadVocabulary      = []string{"upload", "document", "photo", "photograph", "signature", "scan", "thumb"}
	requirementVocabulary = []string{"requirement", "specification", "instruction", "guideline", "format", "size"}
)

// Score computes the relevance of text (title, snippet, URL) to an exam,
// capped at 1.0.
func Score(text string, examTokens []string) float64 {
	t := strings.ToLower(text)
	score := 0.0
	for _, tok := range examTokens {
		if strings.Contains(t, tok) {
			score += weightExamToken
		}
	}
	if containsAny(t, officialVocabulary) {
		score += weightOfficial
	}
	if containsAny(t, applicationVocabulary) {
		score += weightApplication
	}
	if containsAny(t, uploadVocabulary) {
		score += weightUpload
	}
	if containsAny(t, requirementVocabulary) {
		score += weightRequirement
	}
	// Round away float noise so equal inputs compare equal in ranking.
	return math.Min(1.0, math.Round(score*1000)/1000)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// NormalizeURL returns the dedup key for raw: lowercased, fragment
// stripped, trailing slash removed. It returns "" for unparseable input.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	u.Fragment = ""
	u.RawFragment = ""
	s := strings.ToLower(u.String())
	return strings.TrimSuffix(s, "/")
}

// ResolveURL resolves href against base. It returns "" for non-HTTP links
// (mailto:, javascript:, in-page anchors) and unparseable input.
func ResolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	abs.RawFragment = ""
	return abs.String()
}

// SourceTypeOf classifies a URL as pdf when its path ends in .pdf.
func SourceTypeOf(raw string) types.SourceType {
	u, err := url.Parse(raw)
	if err != nil {
		return types.SourceHTML
	}
	if strings.EqualFold(path.Ext(u.Path), ".pdf") {
		return types.SourcePDF
	}
	return types.SourceHTML
}

// BaseURL turns a domain hint into a root URL. Hints that already carry a
// scheme are used as-is; bare hosts get https.
func BaseURL(hint string) string {
	hint = strings.TrimSpace(hint)
	if strings.HasPrefix(hint, "http://") || strings.HasPrefix(hint, "https://") {
		return strings.TrimSuffix(hint, "/")
	}
	return "https://" + strings.TrimSuffix(hint, "/")
}

// officialSuffixes are public-sector host suffixes treated as official even
// when the host is not in the domain list.
var officialSuffixes = []string{".gov.in", ".nic.in", ".ac.in", ".gov", ".edu"}

// IsOfficialURL reports whether raw is served by one of domains (or a
// subdomain of one) or by a public-sector suffix.
func IsOfficialURL(raw string, domains []string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range domains {
		dh := strings.ToLower(d)
		if bu, err := url.Parse(BaseURL(d)); err == nil && bu.Host != "" {
			if strings.EqualFold(bu.Host, u.Host) {
				return true
			}
			dh = strings.ToLower(bu.Hostname())
		}
		if host == dh || strings.HasSuffix(host, "."+dh) {
			return true
		}
	}
	for _, s := range officialSuffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}
