// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// QueryFile is the on-disk representation of a discovery run. An operator
// can save candidate URLs, review them, and feed them to extraction later
// without re-crawling.
type QueryFile struct {
	Exam    string               `yaml:"exam"`
	Queries []types.SearchQuery  `yaml:"queries"`
	Results []types.SearchResult `yaml:"results"`
	Summary QuerySummary         `yaml:"summary"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total             int       `yaml:"total"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	Failures          []Failure `yaml:"failures,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves the planned queries and discovery output to a YAML file.
func WriteQueryFile(path, exam string, queries []types.SearchQuery, out Output) error {
	qf := QueryFile{
		Exam:    exam,
		Queries: queries,
		Results: out.Results,
		Summary: QuerySummary{
			Total:             len(out.Results),
			DuplicatesRemoved: out.DupsRemoved,
			Failures:          out.Failures,
			Timestamp:         time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
