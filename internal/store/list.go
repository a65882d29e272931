// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ListOptions filters List results. The zero value lists everything up to
// the default limit.
type ListOptions struct {
	// Query matches a case-insensitive substring of the exam name.
	Query string

	// DocumentType keeps only schemas that specify this document type.
	DocumentType string

	// ExcludeFallback drops schemas produced by the rule-based fallback.
	ExcludeFallback bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry summarizes one stored schema.
type Entry struct {
	ExamID        string    `json:"exam_id" yaml:"exam_id"`
	Exam          string    `json:"exam" yaml:"exam"`
	ExtractedFrom string    `json:"extracted_from" yaml:"extracted_from"`
	ExtractedAt   time.Time `json:"extracted_at" yaml:"extracted_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
	Fallback      bool      `json:"fallback" yaml:"fallback"`
	DocumentTypes []string  `json:"document_types" yaml:"document_types"`
}

// List returns stored schema summaries ordered by exam ID.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT s.exam_id, s.exam, s.extracted_from, s.extracted_at, s.updated_at, s.fallback
		FROM schemas s
		WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND s.exam LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(opts.Query)+"%")
	}
	if opts.DocumentType != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM schema_documents d WHERE d.exam_id = s.exam_id AND d.type = ?)`)
		args = append(args, opts.DocumentType)
	}
	if opts.ExcludeFallback {
		qb.WriteString(` AND s.fallback = 0`)
	}

	qb.WriteString(` ORDER BY s.exam_id LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing schemas: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                      Entry
			extractedAt, updatedAt string
		)
		if err := rows.Scan(&e.ExamID, &e.Exam, &e.ExtractedFrom, &extractedAt, &updatedAt, &e.Fallback); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.ExtractedAt, _ = time.Parse(time.RFC3339Nano, extractedAt)
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachDocumentTypes(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByDocumentType lists the schemas that specify docType.
func (s *Store) FindByDocumentType(ctx context.Context, docType string) ([]Entry, error) {
	return s.List(ctx, ListOptions{DocumentType: docType})
}

func (s *Store) attachDocumentTypes(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	index := make(map[string]int, len(entries))
	args := make([]any, len(entries))
	for i, e := range entries {
		index[e.ExamID] = i
		args[i] = e.ExamID
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(entries)), ",")
	rows, err := s.db.QueryContext(ctx,
		`SELECT exam_id, type FROM schema_documents
		WHERE exam_id IN (`+placeholders+`)
		ORDER BY exam_id, position`, args...)
	if err != nil {
		return fmt.Errorf("loading document types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var examID, docType string
		if err := rows.Scan(&examID, &docType); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		if i, ok := index[examID]; ok {
			entries[i].DocumentTypes = append(entries[i].DocumentTypes, docType)
		}
	}
	return rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
