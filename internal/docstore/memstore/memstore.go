// Package memstore is an in-memory document store backend. It backs unit
// tests and local development; nothing is persisted across restarts.
package memstore

import (
	"context"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/bytebank/bytebank-client/internal/docstore"
)

// Store keeps documents in a map per collection. A single mutex serializes all
// access; returned documents are copies so callers cannot mutate store state.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]docstore.Document
}

var _ docstore.Store = (*Store)(nil)

func New() *Store {
	return &Store{collections: make(map[string]map[string]docstore.Document)}
}

func (s *Store) Create(ctx context.Context, collection string, fields docstore.Document) (string, error) {
	id := uuid.Must(uuid.NewV4()).String()

	doc := fields.Clone()
	if doc == nil {
		doc = docstore.Document{}
	}
	doc["id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]docstore.Document)
		s.collections[collection] = coll
	}
	coll[id] = doc
	return id, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return doc.Clone(), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return docstore.ErrNotFound
	}
	for key, value := range partial {
		if key == "id" {
			continue
		}
		doc[key] = value
	}
	return nil
}

// Delete removes a document. Deleting a missing document is a no-op, matching
// remote document store semantics.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, filter docstore.Filter) ([]docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []docstore.Document
	for _, doc := range s.collections[collection] {
		if doc.Matches(filter) {
			result = append(result, doc.Clone())
		}
	}
	return result, nil
}
