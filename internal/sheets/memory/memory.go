package memory

import (
	"context"
	"errors"
	"sync"

	"saba/internal/export"
	ports "saba/internal/sheets"
)

var _ ports.TableWriter = (*Store)(nil)

// Store keeps the last pushed version of every table.
type Store struct {
	mu     sync.Mutex
	tables map[string]export.Table
	pushes int
}

func New() *Store {
	return &Store{tables: make(map[string]export.Table)}
}

func (s *Store) PushTable(_ context.Context, t export.Table) error {
	if t.Name == "" {
		return errors.New("table name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	t.Rows = rows
	s.tables[t.Name] = t
	s.pushes++
	return nil
}

// Table returns the last table pushed under name.
func (s *Store) Table(name string) (export.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	return t, ok
}

// Pushes counts successful pushes.
func (s *Store) Pushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushes
}
