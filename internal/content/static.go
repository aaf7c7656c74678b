package content

import (
	"context"
	"fmt"
)

// StaticStore serves a loaded pool as a content store. It satisfies the
// engine's read-only content interface for CLI and test use; a deployment
// backed by a real content service implements the same methods.
type StaticStore struct {
	pool *Pool
}

// NewStaticStore wraps a validated pool.
func NewStaticStore(pool *Pool) *StaticStore {
	return &StaticStore{pool: pool}
}

// PublishedItems returns the pool's published items.
func (s *StaticStore) PublishedItems(_ context.Context) ([]Item, error) {
	return Published(s.pool.Items), nil
}

// Item returns the item with the given id.
func (s *StaticStore) Item(_ context.Context, id string) (*Item, error) {
	if it := s.pool.Item(id); it != nil {
		return it, nil
	}
	return nil, fmt.Errorf("item %q not found", id)
}

// Blueprint returns the blueprint with the given id.
func (s *StaticStore) Blueprint(_ context.Context, id string) (*Blueprint, error) {
	if bp := s.pool.Blueprint(id); bp != nil {
		return bp, nil
	}
	return nil, fmt.Errorf("blueprint %q not found", id)
}
