// Package cache wraps a store.Store with a time-bounded read cache.
package cache

import (
	"context"
	"maps"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jask/finecalc/internal/store"
)

// DefaultTTL is how long a cached table stays valid.
const DefaultTTL = 10 * time.Minute

// Store serves reads from memory until the TTL lapses. Writes go straight
// through and drop the table's entry.
type Store struct {
	next store.Store
	lru  *expirable.LRU[string, []store.Record]
}

// New wraps next. size bounds the number of cached tables.
func New(next store.Store, size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = len(store.Schema)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{next: next, lru: expirable.NewLRU[string, []store.Record](size, nil, ttl)}
}

func (s *Store) Read(ctx context.Context, table string) ([]store.Record, error) {
	if rows, ok := s.lru.Get(table); ok {
		return clone(rows), nil
	}
	rows, err := s.next.Read(ctx, table)
	if err != nil {
		return nil, err
	}
	s.lru.Add(table, clone(rows))
	return rows, nil
}

func (s *Store) Write(ctx context.Context, table string, rows []store.Record) error {
	s.lru.Remove(table)
	return s.next.Write(ctx, table, rows)
}

// Invalidate drops the cached copy of table.
func (s *Store) Invalidate(table string) { s.lru.Remove(table) }

// Purge drops every cached table.
func (s *Store) Purge() { s.lru.Purge() }

func clone(rows []store.Record) []store.Record {
	if rows == nil {
		return nil
	}
	out := make([]store.Record, len(rows))
	for i, r := range rows {
		out[i] = maps.Clone(r)
	}
	return out
}
