package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore is an in-process Store used in development when no
// POSTGRES_DSN is configured, and by tests. Field maps round-trip
// through JSON on the way in and out so cached callers never alias
// stored state and numeric types match the JSONB backend.
type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
}

type memoryDoc struct {
	fields    map[string]any
	createdAt time.Time
	updatedAt *time.Time
}

// NewMemory returns an empty in-memory Store.
func NewMemory() Store {
	return &memoryStore{collections: make(map[string]map[string]*memoryDoc)}
}

func (s *memoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{
		ID:        id,
		Fields:    cloneFields(doc.fields),
		CreatedAt: doc.createdAt,
		UpdatedAt: doc.updatedAt,
	}, nil
}

func (s *memoryStore) Set(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[collection]
	if coll == nil {
		coll = make(map[string]*memoryDoc)
		s.collections[collection] = coll
	}

	if existing, ok := coll[id]; ok {
		now := time.Now()
		existing.fields = cloneFields(fields)
		existing.updatedAt = &now
		return nil
	}
	coll[id] = &memoryDoc{fields: cloneFields(fields), createdAt: time.Now()}
	return nil
}

func (s *memoryStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *memoryStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	merged := cloneFields(doc.fields)
	for k, v := range cloneFields(fields) {
		merged[k] = v
	}
	now := time.Now()
	doc.fields = merged
	doc.updatedAt = &now
	return nil
}

func (s *memoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}

func (s *memoryStore) List(_ context.Context, collection string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for id, doc := range s.collections[collection] {
		if !matches(doc.fields, q.Where) {
			continue
		}
		docs = append(docs, Document{
			ID:        id,
			Fields:    cloneFields(doc.fields),
			CreatedAt: doc.createdAt,
			UpdatedAt: doc.updatedAt,
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	if q.OrderBy != nil {
		ob := *q.OrderBy
		sort.SliceStable(docs, func(i, j int) bool {
			var a, b string
			if ob.Field == "createdAt" {
				a = docs[i].CreatedAt.Format(time.RFC3339Nano)
				b = docs[j].CreatedAt.Format(time.RFC3339Nano)
			} else {
				a = fmt.Sprint(docs[i].Fields[ob.Field])
				b = fmt.Sprint(docs[j].Fields[ob.Field])
			}
			if ob.Desc {
				return a > b
			}
			return a < b
		})
	}
	return docs, nil
}

func matches(fields map[string]any, where []Where) bool {
	for _, w := range where {
		val, ok := fields[w.Field]
		if !ok || fmt.Sprint(val) != fmt.Sprint(w.Value) {
			return false
		}
	}
	return true
}

func cloneFields(fields map[string]any) map[string]any {
	raw, err := json.Marshal(fields)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	if out == nil {
		out = map[string]any{}
	}
	return out
}
