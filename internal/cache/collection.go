// Package cache holds per-collection in-memory snapshots of the
// document store. A snapshot is loaded wholesale when a console section
// first needs it; searches run against the snapshot with no store
// round-trip, and successful mutations patch the snapshot in place
// instead of reloading the collection.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/beyond-borders/ops-console/internal/docstore"
)

// Collection is the typed snapshot of one document-store collection.
// It is not synchronized across processes: a write from another console
// session stays invisible here until the next Load.
type Collection[T any] struct {
	store docstore.Store
	name  string
	idOf  func(T) string

	mu     sync.RWMutex
	items  []T
	index  map[string]int
	loaded bool
}

// NewCollection builds an unloaded snapshot for the named collection.
func NewCollection[T any](store docstore.Store, name string, idOf func(T) string) *Collection[T] {
	return &Collection[T]{store: store, name: name, idOf: idOf, index: make(map[string]int)}
}

// Name returns the backing collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load reads the whole collection and replaces the snapshot.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	docs, err := c.store.List(ctx, c.name, docstore.Query{})
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeDocument[T](doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	c.mu.Lock()
	c.items = items
	c.rebuildIndexLocked()
	c.loaded = true
	c.mu.Unlock()
	return c.Items(), nil
}

// Ensure loads the snapshot once, lazily.
func (c *Collection[T]) Ensure(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err := c.Load(ctx)
	return err
}

// Items returns a copy of the current snapshot.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T{}, c.items...)
}

// Search filters the snapshot in memory; it never queries the store.
func (c *Collection[T]) Search(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []T
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Get returns the cached entity by id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if pos, ok := c.index[id]; ok {
		return c.items[pos], true
	}
	var zero T
	return zero, false
}

// Fetch reads one document through to the store and refreshes its cache
// entry.
func (c *Collection[T]) Fetch(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return zero, err
	}
	item, err := decodeDocument[T](*doc)
	if err != nil {
		return zero, err
	}
	c.patch(id, item)
	return item, nil
}

// Create writes the entity to the store first and patches the snapshot
// only on success. An empty id asks the store for a generated one; a
// preset id (provisioning keys accounts by identity uid) is kept.
func (c *Collection[T]) Create(ctx context.Context, id string, ent T) (T, error) {
	var zero T
	fields, err := encodeEntity(ent)
	if err != nil {
		return zero, err
	}

	if id == "" {
		id, err = c.store.Add(ctx, c.name, fields)
	} else {
		err = c.store.Set(ctx, c.name, id, fields)
	}
	if err != nil {
		return zero, err
	}

	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return zero, err
	}
	item, err := decodeDocument[T](*doc)
	if err != nil {
		return zero, err
	}
	c.patch(id, item)
	return item, nil
}

// Update merges partial fields into the stored document, then patches
// the snapshot with the store's view of the record. On store failure the
// snapshot is untouched.
func (c *Collection[T]) Update(ctx context.Context, id string, fields map[string]any) (T, error) {
	var zero T
	if err := c.store.Update(ctx, c.name, id, fields); err != nil {
		return zero, err
	}

	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return zero, err
	}
	item, err := decodeDocument[T](*doc)
	if err != nil {
		return zero, err
	}
	c.patch(id, item)
	return item, nil
}

// Delete removes the document and its snapshot entry. Deleting an
// already-absent id is a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.name, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if pos, ok := c.index[id]; ok {
		c.items = append(c.items[:pos], c.items[pos+1:]...)
		c.rebuildIndexLocked()
	}
	return nil
}

// Query reads a filtered subset straight from the store without
// touching the snapshot.
func (c *Collection[T]) Query(ctx context.Context, q docstore.Query) ([]T, error) {
	docs, err := c.store.List(ctx, c.name, q)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeDocument[T](doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Collection[T]) patch(id string, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	if pos, ok := c.index[id]; ok {
		c.items[pos] = item
		return
	}
	c.items = append(c.items, item)
	c.index[id] = len(c.items) - 1
}

func (c *Collection[T]) rebuildIndexLocked() {
	c.index = make(map[string]int, len(c.items))
	for i, item := range c.items {
		c.index[c.idOf(item)] = i
	}
}

// decodeDocument folds the store metadata into the field map and
// unmarshals the result into the typed entity.
func decodeDocument[T any](doc docstore.Document) (T, error) {
	var zero T
	fields := make(map[string]any, len(doc.Fields)+3)
	for k, v := range doc.Fields {
		fields[k] = v
	}
	fields["id"] = doc.ID
	fields["createdAt"] = doc.CreatedAt.Format(time.RFC3339Nano)
	if doc.UpdatedAt != nil {
		fields["updatedAt"] = doc.UpdatedAt.Format(time.RFC3339Nano)
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return zero, err
	}
	var ent T
	if err := json.Unmarshal(raw, &ent); err != nil {
		return zero, fmt.Errorf("decode %T: %w", zero, err)
	}
	return ent, nil
}

// encodeEntity flattens the entity to a field map, dropping the
// store-managed metadata.
func encodeEntity[T any](ent T) (map[string]any, error) {
	raw, err := json.Marshal(ent)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "id")
	delete(fields, "createdAt")
	delete(fields, "updatedAt")
	return fields, nil
}
