package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/registration"
)

// DocumentStore keeps schemaless JSON documents grouped by collection.
type DocumentStore struct {
	db    *sql.DB
	clock clock.Clock
}

var (
	_ registration.DocumentStore  = (*DocumentStore)(nil)
	_ registration.DocumentFinder = (*DocumentStore)(nil)
	_ registration.DocumentLister = (*DocumentStore)(nil)
)

// ErrDocumentNotFound is returned by GetDocument for an unknown ref.
var ErrDocumentNotFound = errors.New("document not found")

func newDocumentStore(db *sql.DB, c clock.Clock) *DocumentStore {
	return &DocumentStore{db: db, clock: c}
}

// AddDocument stores doc under a generated id. Fields holding
// registration.ServerTimestamp are replaced with the store clock's time.
func (s *DocumentStore) AddDocument(ctx context.Context, collection string, doc registration.Document) (registration.DocumentRef, error) {
	if collection == "" {
		return registration.DocumentRef{}, errors.New("collection is required")
	}

	now := s.clock.Now()
	data := maps.Clone(doc)
	if data == nil {
		data = registration.Document{}
	}
	for k, v := range data {
		if registration.IsServerTimestamp(v) {
			data[k] = now.Format(time.RFC3339Nano)
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return registration.DocumentRef{}, fmt.Errorf("failed to encode document: %w", err)
	}

	ref := registration.DocumentRef{Collection: collection, ID: uuid.NewString()}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, data, created_at) VALUES (?, ?, ?, ?)`,
		ref.ID, ref.Collection, string(raw), now.UnixMilli(),
	)
	if err != nil {
		return registration.DocumentRef{}, fmt.Errorf("failed to insert document: %w", err)
	}

	log.Debug(log.CatStore, "document added", "collection", collection, "id", ref.ID)
	return ref, nil
}

// GetDocument loads one document.
func (s *DocumentStore) GetDocument(ctx context.Context, ref registration.DocumentRef) (registration.StoredDocument, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, collection, data, created_at FROM documents WHERE collection = ? AND id = ?`,
		ref.Collection, ref.ID,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return registration.StoredDocument{}, fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, ref.Collection, ref.ID)
	}
	if err != nil {
		return registration.StoredDocument{}, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// FindByField returns the documents of collection whose top-level field
// equals value, oldest first.
func (s *DocumentStore) FindByField(ctx context.Context, collection, field string, value any) ([]registration.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, collection, data, created_at FROM documents
		WHERE collection = ? AND json_extract(data, ?) = ?
		ORDER BY created_at, id`,
		collection, "$."+field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	return scanDocuments(rows)
}

// ListDocuments returns every document of collection, oldest first.
func (s *DocumentStore) ListDocuments(ctx context.Context, collection string) ([]registration.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, collection, data, created_at FROM documents WHERE collection = ? ORDER BY created_at, id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return scanDocuments(rows)
}

func scanDocuments(rows *sql.Rows) ([]registration.StoredDocument, error) {
	defer func() { _ = rows.Close() }()

	var out []registration.StoredDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return out, nil
}

func scanDocument(scanner interface{ Scan(...any) error }) (registration.StoredDocument, error) {
	var (
		doc     registration.StoredDocument
		raw     string
		created int64
	)
	if err := scanner.Scan(&doc.Ref.ID, &doc.Ref.Collection, &raw, &created); err != nil {
		return registration.StoredDocument{}, err
	}
	if err := json.Unmarshal([]byte(raw), &doc.Data); err != nil {
		return registration.StoredDocument{}, fmt.Errorf("failed to decode document %s: %w", doc.Ref.ID, err)
	}
	doc.CreatedAt = time.UnixMilli(created).UTC()
	return doc, nil
}
