// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPlanner() *Planner {
	return &Planner{Now: func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"IBPS Clerk 2025", "ibps clerk 2025"},
		{"ssc-cgl_2024", "ssc cgl 2024"},
		{"  NEET   UG \t", "neet ug"},
		{"", ""},
		{"--__", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestPlanQueryGroups(t *testing.T) {
	queries := fixedPlanner().Plan("IBPS-Clerk")
	require.Len(t, queries, 2)

	official := strings.Join(queries[0].SearchTerms, "|")
	assert.Contains(t, official, "ibps clerk 2025 official notification")
	assert.Contains(t, official, "ibps clerk 2026 notification")
	assert.Contains(t, official, "ibps clerk apply online")
	assert.Contains(t, official, "ibps clerk document requirements")

	upload := strings.Join(queries[1].SearchTerms, "|")
	assert.Contains(t, upload, "photo signature upload specification")
	assert.Contains(t, upload, "instructions to candidates")

	for _, q := range queries {
		assert.Equal(t, "ibps clerk", q.ExamNameNormalized)
		assert.Equal(t, OfficialDomains, q.DomainHints)
		assert.Equal(t, []string{"pdf", "html"}, q.FileTypeHints)
	}
}

func TestPlanEmptyName(t *testing.T) {
	for _, name := range []string{"", "   ", "-_-"} {
		queries := fixedPlanner().Plan(name)
		require.Len(t, queries, 1, "name %q", name)
		assert.Equal(t, PlaceholderExam, queries[0].ExamNameNormalized)
		assert.NotEmpty(t, queries[0].SearchTerms)
	}
}

func TestPlanDomainOverride(t *testing.T) {
	p := fixedPlanner()
	p.Domains = []string{"http://127.0.0.1:8080"}
	for _, q := range p.Plan("ssc cgl") {
		assert.Equal(t, []string{"http://127.0.0.1:8080"}, q.DomainHints)
	}
}

func TestPlanDoesNotShareSlices(t *testing.T) {
	queries := fixedPlanner().Plan("ssc cgl")
	queries[0].DomainHints[0] = "mutated"
	assert.NotEqual(t, "mutated", OfficialDomains[0])
}

func TestExamTokens(t *testing.T) {
	assert.Equal(t, []string{"ibps", "clerk"}, ExamTokens("ibps clerk 2025"))
	assert.Equal(t, []string{"ssc", "cgl"}, ExamTokens("ssc cgl ssc"))
	assert.Equal(t, []string{"neet", "ug"}, ExamTokens("neet ug a"))
	assert.Empty(t, ExamTokens(""))
}

func TestExamID(t *testing.T) {
	assert.Equal(t, "ibps-clerk-2025", ExamID("IBPS Clerk 2025"))
	assert.Equal(t, "ssc-cgl", ExamID(" SSC_CGL "))
	assert.Equal(t, PlaceholderExam, ExamID(""))
}

func TestOfficialDomainsAreYearIndependent(t *testing.T) {
	year := regexp.MustCompile(`(19|20)\d\d`)
	for _, d := range OfficialDomains {
		assert.False(t, year.MatchString(d), d)
	}
}
