// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists generated exam schemas in a SQLite database so the
// CLI and HTTP server can serve repeat requests without re-running the
// pipeline. Payloads are validated against the exam schema JSON Schema
// before they are written.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/schema-engine/internal/assemble"
	"github.com/pdiddy/schema-engine/pkg/types"
)

const (
	dbFile            = "schemas.db"
	defaultMaxResults = 100
)

var _ types.SchemaStore = (*Store)(nil)

// Store manages the schema SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string

	// Now stamps updated_at. Nil means time.Now.
	Now func() time.Time
}

// NewStore opens or creates dataDir/schemas.db and creates the tables if
// they do not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = types.DefaultEngineConfig().Store.DataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the directory holding the database and exports.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schemas (
			exam_id        TEXT PRIMARY KEY,
			exam           TEXT NOT NULL,
			extracted_from TEXT NOT NULL,
			extracted_at   TEXT NOT NULL,
			fallback       INTEGER NOT NULL DEFAULT 0,
			payload        TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS schema_documents (
			exam_id  TEXT NOT NULL REFERENCES schemas(exam_id) ON DELETE CASCADE,
			type     TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (exam_id, type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schema_documents_type ON schema_documents(type)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Save validates schema against the exam schema JSON Schema and upserts it
// under examID. The document index is replaced in the same transaction.
func (s *Store) Save(ctx context.Context, examID string, schema types.ExamSchema) error {
	if examID == "" {
		return errors.New("exam ID is required")
	}

	payload, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}
	if err := assemble.ValidateJSON(payload); err != nil {
		return fmt.Errorf("refusing to store %s: %w", examID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO schemas (exam_id, exam, extracted_from, extracted_at, fallback, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(exam_id) DO UPDATE SET
			exam = excluded.exam,
			extracted_from = excluded.extracted_from,
			extracted_at = excluded.extracted_at,
			fallback = excluded.fallback,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		examID, schema.Exam, schema.ExtractedFrom,
		schema.ExtractedAt.UTC().Format(time.RFC3339Nano),
		schema.IsFallback(), string(payload),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting schema %s: %w", examID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_documents WHERE exam_id = ?`, examID); err != nil {
		return fmt.Errorf("clearing documents for %s: %w", examID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO schema_documents (exam_id, type, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing document insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range schema.Documents {
		if _, err := stmt.ExecContext(ctx, examID, d.Type, i); err != nil {
			return fmt.Errorf("indexing %s/%s: %w", examID, d.Type, err)
		}
	}

	return tx.Commit()
}

// Load returns the schema stored under examID or types.ErrSchemaNotFound.
func (s *Store) Load(ctx context.Context, examID string) (*types.ExamSchema, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM schemas WHERE exam_id = ?`, examID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", examID, types.ErrSchemaNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", examID, err)
	}

	var schema types.ExamSchema
	if err := json.Unmarshal([]byte(payload), &schema); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", examID, err)
	}
	return &schema, nil
}

// Delete removes the schema stored under examID. It returns
// types.ErrSchemaNotFound when nothing was stored.
func (s *Store) Delete(ctx context.Context, examID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schemas WHERE exam_id = ?`, examID)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", examID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", examID, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", examID, types.ErrSchemaNotFound)
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
