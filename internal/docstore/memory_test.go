package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionTasks, "t1", map[string]any{"title": "Airport pickup", "status": "pending"}))

	doc, err := store.Get(ctx, CollectionTasks, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", doc.ID)
	assert.Equal(t, "Airport pickup", doc.Fields["title"])
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Nil(t, doc.UpdatedAt)

	_, err = store.Get(ctx, CollectionTasks, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdateMergesPartialFields(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionTasks, "t1", map[string]any{"title": "Airport pickup", "status": "pending"}))
	require.NoError(t, store.Update(ctx, CollectionTasks, "t1", map[string]any{"status": "in-progress"}))

	doc, err := store.Get(ctx, CollectionTasks, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Airport pickup", doc.Fields["title"])
	assert.Equal(t, "in-progress", doc.Fields["status"])
	assert.NotNil(t, doc.UpdatedAt)

	assert.ErrorIs(t, store.Update(ctx, CollectionTasks, "missing", map[string]any{"status": "done"}), ErrNotFound)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionBookings, "b1", map[string]any{"email": "x@x.com"}))
	require.NoError(t, store.Delete(ctx, CollectionBookings, "b1"))
	require.NoError(t, store.Delete(ctx, CollectionBookings, "b1"))

	_, err := store.Get(ctx, CollectionBookings, "b1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListFilterAndOrder(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionTasks, "t1", map[string]any{"driverId": "d1", "date": "2026-02-03"}))
	require.NoError(t, store.Set(ctx, CollectionTasks, "t2", map[string]any{"driverId": "d2", "date": "2026-02-01"}))
	require.NoError(t, store.Set(ctx, CollectionTasks, "t3", map[string]any{"driverId": "d1", "date": "2026-02-02"}))

	docs, err := store.List(ctx, CollectionTasks, Query{
		Where:   []Where{{Field: "driverId", Value: "d1"}},
		OrderBy: &OrderBy{Field: "date"},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "t3", docs[0].ID)
	assert.Equal(t, "t1", docs[1].ID)
}

func TestMemoryStoreFieldsDoNotAlias(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	fields := map[string]any{"email": "x@x.com"}
	require.NoError(t, store.Set(ctx, CollectionSubscribers, "s1", fields))
	fields["email"] = "mutated@x.com"

	doc, err := store.Get(ctx, CollectionSubscribers, "s1")
	require.NoError(t, err)
	assert.Equal(t, "x@x.com", doc.Fields["email"])

	doc.Fields["email"] = "mutated-again@x.com"
	doc2, err := store.Get(ctx, CollectionSubscribers, "s1")
	require.NoError(t, err)
	assert.Equal(t, "x@x.com", doc2.Fields["email"])
}
