// Package memory is an in-process store.Backend used for tests and
// throwaway runs. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"saba/internal/store"
)

type Backend struct {
	mu    sync.Mutex
	data  map[store.Kind][]byte
	locks map[store.Kind]chan struct{}
}

func New() *Backend {
	return &Backend{
		data:  map[store.Kind][]byte{},
		locks: map[store.Kind]chan struct{}{},
	}
}

// Seed stores raw content for kind, bypassing codecs.
func (b *Backend) Seed(kind store.Kind, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[kind] = append([]byte(nil), data...)
}

func (b *Backend) Read(_ context.Context, kind store.Kind) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[kind]
	if !ok {
		return nil, store.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (b *Backend) Write(_ context.Context, kind store.Kind, data []byte) error {
	b.Seed(kind, data)
	return nil
}

// Lock waits for the kind's semaphore or for ctx to end.
func (b *Backend) Lock(ctx context.Context, kind store.Kind) (func(), error) {
	b.mu.Lock()
	sem, ok := b.locks[kind]
	if !ok {
		sem = make(chan struct{}, 1)
		b.locks[kind] = sem
	}
	b.mu.Unlock()

	select {
	case sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-sem }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Backend) Close() error { return nil }
