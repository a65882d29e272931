// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/schema-engine/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the matching schemas to dataDir/export.yaml and returns
// the path written.
func (s *Store) ExportYAML(ctx context.Context, opts ListOptions) (string, error) {
	schemas, err := s.exportSchemas(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dataDir, "export.yaml")
	data, err := yaml.Marshal(schemas)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the matching schemas to dataDir/export.json and returns
// the path written.
func (s *Store) ExportJSON(ctx context.Context, opts ListOptions) (string, error) {
	schemas, err := s.exportSchemas(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dataDir, "export.json")
	data, err := json.MarshalIndent(schemas, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportSchemas(ctx context.Context, opts ListOptions) ([]types.ExamSchema, error) {
	opts.MaxResults = exportLimit
	entries, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	schemas := make([]types.ExamSchema, 0, len(entries))
	for _, e := range entries {
		schema, err := s.Load(ctx, e.ExamID)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *schema)
	}
	return schemas, nil
}
