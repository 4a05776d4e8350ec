package cache

import (
	"context"
	"fmt"
)

// Join loads the referenced collection wholesale and indexes it by id.
// List views render denormalized references through the returned map,
// so one render pass costs a single collection read regardless of row
// count.
func Join[T any](ctx context.Context, c *Collection[T], display func(T) string) (map[string]string, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("join %s: %w", c.Name(), err)
	}
	m := make(map[string]string, len(items))
	for _, item := range items {
		m[c.idOf(item)] = display(item)
	}
	return m, nil
}

// Display resolves an id against a join map, falling back to a
// placeholder when the referenced record no longer exists.
func Display(m map[string]string, id, fallback string) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return fallback
}
