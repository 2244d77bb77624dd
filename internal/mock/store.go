package mock

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/registration"
)

// Store is a fake registration.DocumentStore and DocumentFinder.
type Store struct {
	// AddDocumentFunc overrides AddDocument when set. Nothing is stored.
	AddDocumentFunc func(ctx context.Context, collection string, doc registration.Document) (registration.DocumentRef, error)

	clock clock.Clock

	mu    sync.Mutex
	calls int
	docs  []registration.StoredDocument
}

// NewStore returns an empty store that resolves server timestamps with c.
func NewStore(c clock.Clock) *Store {
	if c == nil {
		c = clock.Real{}
	}
	return &Store{clock: c}
}

// AddDocument records the call and stores a copy of doc.
func (s *Store) AddDocument(ctx context.Context, collection string, doc registration.Document) (registration.DocumentRef, error) {
	s.mu.Lock()
	s.calls++
	fn := s.AddDocumentFunc
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, collection, doc)
	}

	now := s.clock.Now()
	data := maps.Clone(doc)
	for k, v := range data {
		if registration.IsServerTimestamp(v) {
			data[k] = now
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ref := registration.DocumentRef{Collection: collection, ID: fmt.Sprintf("doc-%d", len(s.docs)+1)}
	s.docs = append(s.docs, registration.StoredDocument{Ref: ref, Data: data, CreatedAt: now})
	return ref, nil
}

// FindByField returns stored documents whose field equals value.
func (s *Store) FindByField(_ context.Context, collection, field string, value any) ([]registration.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []registration.StoredDocument
	for _, d := range s.docs {
		if d.Ref.Collection == collection && d.Data[field] == value {
			out = append(out, d)
		}
	}
	return out, nil
}

// Calls returns how many times AddDocument was invoked.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Documents returns the stored documents of a collection.
func (s *Store) Documents(collection string) []registration.StoredDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []registration.StoredDocument
	for _, d := range s.docs {
		if d.Ref.Collection == collection {
			out = append(out, d)
		}
	}
	return out
}

// ListDocuments implements registration.DocumentLister.
func (s *Store) ListDocuments(_ context.Context, collection string) ([]registration.StoredDocument, error) {
	return s.Documents(collection), nil
}
