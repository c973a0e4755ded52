// Package sqlstore is a SQLite-backed document store. Documents are JSON rows
// in a single table, which is the on-device persistence a mobile client
// carries when the remote backend is unreachable.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/bytebank/bytebank-client/internal/docstore"
	"github.com/bytebank/bytebank-client/internal/docstore/sqlstore/migrations"
)

// Store persists documents in SQLite.
type Store struct {
	db *sql.DB
}

var _ docstore.Store = (*Store)(nil)

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlstore: path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate applies the embedded schema migrations to db.
func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, collection string, fields docstore.Document) (string, error) {
	id := uuid.Must(uuid.NewV4()).String()

	doc := fields.Clone()
	if doc == nil {
		doc = docstore.Document{}
	}
	doc["id"] = id

	data, err := encodeDocument(doc)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, data)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument(data)
}

// Update merges the partial payload into the stored document. The
// read-merge-write runs in one local transaction; that only protects the
// single row, not any cross-document invariant.
func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return err
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return err
	}
	for key, value := range partial {
		if key == "id" {
			continue
		}
		doc[key] = value
	}

	merged, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ? WHERE collection = ? AND id = ?`,
		merged, collection, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id)
	return err
}

func (s *Store) Query(ctx context.Context, collection string, filter docstore.Filter) ([]docstore.Document, error) {
	query := `SELECT data FROM documents WHERE collection = ?`
	args := []any{collection}
	if filter.Field != "" {
		query += ` AND json_extract(data, ?) = ?`
		args = append(args, "$."+filter.Field, filterArg(filter.Equals))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []docstore.Document
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(data)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

// filterArg converts a filter value to the representation encodeDocument
// writes, so json_extract comparisons line up.
func filterArg(v any) any {
	switch t := v.(type) {
	case decimal.Decimal:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

func encodeDocument(doc docstore.Document) (string, error) {
	normalized := make(map[string]any, len(doc))
	for key, value := range doc {
		switch t := value.(type) {
		case time.Time:
			normalized[key] = t.Format(time.RFC3339Nano)
		case decimal.Decimal:
			normalized[key] = t.String()
		default:
			normalized[key] = value
		}
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeDocument(data string) (docstore.Document, error) {
	var doc docstore.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
