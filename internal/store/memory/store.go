// Package memory implements store.Store in process memory.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jask/finecalc/internal/store"
)

// Store keeps tables in a map. Set Err to simulate an unreachable backend.
type Store struct {
	mu     sync.Mutex
	tables map[string][]store.Record
	reads  map[string]int

	Err error
}

func New() *Store {
	return &Store{tables: map[string][]store.Record{}, reads: map[string]int{}}
}

// Seed sets a table's contents without going through Write.
func (s *Store) Seed(table string, rows []store.Record) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = clone(rows)
	return s
}

func (s *Store) Read(ctx context.Context, table string) ([]store.Record, error) {
	if _, err := store.Columns(table); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, store.Wrap("read", table, s.Err)
	}
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("read", table, err)
	}
	s.reads[table]++
	return clone(s.tables[table]), nil
}

func (s *Store) Write(ctx context.Context, table string, rows []store.Record) error {
	if _, err := store.Columns(table); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return store.Wrap("write", table, s.Err)
	}
	if err := ctx.Err(); err != nil {
		return store.Wrap("write", table, err)
	}
	s.tables[table] = clone(rows)
	return nil
}

// Reads reports how many successful reads hit table.
func (s *Store) Reads(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[table]
}

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
