// Package docstore fronts the remote identity & document store. Records
// are schemaless field maps grouped into named collections; timestamps
// on the record envelope are store-generated and distinct from any
// calendar-date fields inside the document.
package docstore

import (
	"context"
	"errors"
	"time"
)

// Collection names form the wire contract with the store.
const (
	CollectionStaffAccounts = "staffAccounts"
	CollectionDrivers       = "drivers"
	CollectionBookings      = "bookings"
	CollectionTasks         = "tasks"
	CollectionPayments      = "payments"
	CollectionSubscribers   = "subscribers"
)

// ErrNotFound is returned when a referenced document is absent.
var ErrNotFound = errors.New("document not found")

// Document is a stored record plus its server-side metadata.
type Document struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Where filters a query on equality of a top-level field.
type Where struct {
	Field string
	Value any
}

// OrderBy sorts query results by a top-level field.
type OrderBy struct {
	Field string
	Desc  bool
}

// Query bundles optional filter and ordering for a collection read.
type Query struct {
	Where   []Where
	OrderBy *OrderBy
}

// Store is the document side of the identity & document store
// collaborator. Deletes are idempotent; the store enforces no
// foreign-key constraints between collections.
type Store interface {
	// Get fetches one document, ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Set creates or fully replaces the document with the given id.
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	// Add creates a document with a store-generated id.
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Update merges partial fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes the document; deleting an absent id is a no-op.
	Delete(ctx context.Context, collection, id string) error
	// List reads a whole collection, optionally filtered and ordered.
	List(ctx context.Context, collection string, q Query) ([]Document, error)
}
